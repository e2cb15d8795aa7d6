package repositories

import (
	"testing"
	"time"

	"opsboard/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func deliveryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "delivery_id", "vehicle_id", "date", "city",
		"planned_minutes", "actual_minutes", "on_time", "distance_km", "fuel_cost", "other_cost",
	})
}

func TestDeliveryListWithFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	date := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM deliveries WHERE").
		WithArgs("Lagos", "2025-01").
		WillReturnRows(deliveryRows().
			AddRow(1, "DL-001", "V1", date, "Lagos", 60.0, 70.0, false, 10.0, 30.0, 10.0))

	repo := DeliveryRepository{DB: db}
	list, err := repo.List(DeliveryFilter{City: "Lagos", MonthKey: "2025-01"})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d rows, want 1", len(list))
	}
	if list[0].DeliveryID != "DL-001" || list[0].DelayMinutes() != 10 {
		t.Fatalf("row scanned wrong: %+v", list[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeliveryListPagination(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("LIMIT \\? OFFSET \\?").
		WithArgs(50, 50).
		WillReturnRows(deliveryRows())

	repo := DeliveryRepository{DB: db}
	if _, err := repo.List(DeliveryFilter{Page: 2, Limit: 50}); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeliveryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnResult(sqlmock.NewResult(5, 1))

	repo := DeliveryRepository{DB: db}
	id, err := repo.Create(domain.Delivery{DeliveryID: "DL-010", VehicleID: "V1", City: "Kano", DistanceKm: 12})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id != 5 {
		t.Fatalf("id = %d, want 5", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeliveryUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE deliveries SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := DeliveryRepository{DB: db}
	err = repo.Update(99, domain.Delivery{DeliveryID: "DL-099"})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeliveryReplaceAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM deliveries").
		WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare("INSERT INTO deliveries")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}

	repo := DeliveryRepository{DB: db}
	ds := []domain.Delivery{
		{DeliveryID: "DL-001", VehicleID: "V1", City: "Lagos", DistanceKm: 10},
		{DeliveryID: "DL-002", VehicleID: "V2", City: "Abuja", DistanceKm: 20},
	}
	if err := repo.ReplaceAll(tx, ds); err != nil {
		t.Fatalf("replace error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeliveryDistinctMonths(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT DISTINCT DATE_FORMAT").
		WillReturnRows(sqlmock.NewRows([]string{"month"}).AddRow("2025-01").AddRow("2025-02"))

	repo := DeliveryRepository{DB: db}
	months, err := repo.DistinctMonths()
	if err != nil {
		t.Fatalf("distinct months error: %v", err)
	}
	if len(months) != 2 || months[0] != "2025-01" {
		t.Fatalf("months = %v", months)
	}
}
