package repositories

import (
	"testing"

	"opsboard/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestVehicleList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "vehicle_id", "home_city", "vehicle_type", "capacity_kg", "plate_number",
	}).
		AddRow(1, "V1", "Lagos", "van", 1200.0, "ABC-123").
		AddRow(2, "V2", "Kano", "", 0.0, "")

	mock.ExpectQuery("FROM vehicles").WillReturnRows(rows)

	repo := VehicleRepository{DB: db}
	list, err := repo.List("", 0, 0)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d vehicles, want 2", len(list))
	}
	if list[0].VehicleID != "V1" || list[0].CapacityKg != 1200 {
		t.Fatalf("vehicle scanned wrong: %+v", list[0])
	}
}

func TestVehicleListWithSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("vehicle_id LIKE").
		WithArgs("%V1%", "%V1%", "%V1%").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_id", "home_city", "vehicle_type", "capacity_kg", "plate_number",
		}))

	repo := VehicleRepository{DB: db}
	if _, err := repo.List("V1", 0, 0); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleUpsertAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("ON DUPLICATE KEY UPDATE")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}

	repo := VehicleRepository{DB: db}
	vs := []domain.Vehicle{
		{VehicleID: "V1", HomeCity: "Lagos"},
		{VehicleID: "V2", HomeCity: "Abuja", VehicleType: "truck"},
	}
	if err := repo.UpsertAll(tx, vs); err != nil {
		t.Fatalf("upsert error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM vehicles").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := VehicleRepository{DB: db}
	if err := repo.Delete(404); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
