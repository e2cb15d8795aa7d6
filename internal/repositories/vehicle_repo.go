package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"opsboard/internal/config"
	intdb "opsboard/internal/db"
	"opsboard/internal/domain"
)

const vehicleColumns = `id, vehicle_id, home_city,
	COALESCE(vehicle_type,''), COALESCE(capacity_kg,0), COALESCE(plate_number,'')`

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// List supports the usual q/page/limit listing.
func (r VehicleRepository) List(q string, page, limit int) ([]domain.Vehicle, error) {
	where := ""
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		where = " WHERE (vehicle_id LIKE ? OR home_city LIKE ? OR plate_number LIKE ?)"
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	query := "SELECT " + vehicleColumns + " FROM vehicles" + where + " ORDER BY vehicle_id ASC"
	if page > 0 && limit > 0 {
		if limit > 200 {
			limit = 200
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Vehicle{}
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.VehicleID, &v.HomeCity, &v.VehicleType, &v.CapacityKg, &v.PlateNumber); err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r VehicleRepository) GetByVehicleID(vehicleID string) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := r.db().QueryRow(
		"SELECT "+vehicleColumns+" FROM vehicles WHERE vehicle_id = ?", vehicleID,
	).Scan(&v.ID, &v.VehicleID, &v.HomeCity, &v.VehicleType, &v.CapacityKg, &v.PlateNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	return v, err
}

func (r VehicleRepository) Create(v domain.Vehicle) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (vehicle_id, home_city, vehicle_type, capacity_kg, plate_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	`, v.VehicleID, v.HomeCity, intdb.NullIfEmpty(v.VehicleType), v.CapacityKg, intdb.NullIfEmpty(v.PlateNumber))
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ConflictError{Resource: "vehicle", Msg: "vehicle_id already exists", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r VehicleRepository) Update(id int64, v domain.Vehicle) error {
	res, err := r.db().Exec(`
		UPDATE vehicles SET
			vehicle_id = ?, home_city = ?, vehicle_type = ?, capacity_kg = ?, plate_number = ?, updated_at = NOW()
		WHERE id = ?
	`, v.VehicleID, v.HomeCity, intdb.NullIfEmpty(v.VehicleType), v.CapacityKg, intdb.NullIfEmpty(v.PlateNumber), id)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Resource: "vehicle", Msg: "vehicle_id already exists", Err: err}
		}
		return err
	}
	return requireAffected(res, "vehicle")
}

func (r VehicleRepository) Delete(id int64) error {
	res, err := r.db().Exec("DELETE FROM vehicles WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "vehicle")
}

// ReplaceAll swaps the fleet inside the caller's transaction.
func (r VehicleRepository) ReplaceAll(tx *sql.Tx, vs []domain.Vehicle) error {
	if _, err := tx.Exec("DELETE FROM vehicles"); err != nil {
		return err
	}
	return upsertVehicles(tx, vs)
}

// UpsertAll inserts or updates by vehicle_id inside the caller's transaction.
func (r VehicleRepository) UpsertAll(tx *sql.Tx, vs []domain.Vehicle) error {
	return upsertVehicles(tx, vs)
}

func upsertVehicles(tx *sql.Tx, vs []domain.Vehicle) error {
	stmt, err := tx.Prepare(`
		INSERT INTO vehicles (vehicle_id, home_city, vehicle_type, capacity_kg, plate_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			home_city = VALUES(home_city), vehicle_type = VALUES(vehicle_type),
			capacity_kg = VALUES(capacity_kg), plate_number = VALUES(plate_number), updated_at = NOW()`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range vs {
		if _, err := stmt.Exec(
			v.VehicleID, v.HomeCity, intdb.NullIfEmpty(v.VehicleType), v.CapacityKg, intdb.NullIfEmpty(v.PlateNumber),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r VehicleRepository) Count() (int, error) {
	var n int
	err := r.db().QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&n)
	return n, err
}
