package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"opsboard/internal/config"
	"opsboard/internal/domain"

	"github.com/go-sql-driver/mysql"
)

const deliveryColumns = `id, delivery_id, vehicle_id, date, city,
	planned_minutes, actual_minutes, on_time, distance_km, fuel_cost, other_cost`

// DeliveryFilter narrows List the same way the dashboard filters do.
// Zero values mean "no filter"; Page/Limit are optional.
type DeliveryFilter struct {
	City     string
	MonthKey string // "2006-01"
	Q        string
	Page     int
	Limit    int
}

type DeliveryRepository struct {
	DB *sql.DB
}

func (r DeliveryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// List returns deliveries matching the filter, oldest first so monthly
// aggregations see rows in chronological order.
func (r DeliveryRepository) List(f DeliveryFilter) ([]domain.Delivery, error) {
	where := []string{"1=1"}
	args := []any{}

	if city := strings.TrimSpace(f.City); city != "" {
		where = append(where, "city = ?")
		args = append(args, city)
	}
	if mk := strings.TrimSpace(f.MonthKey); mk != "" {
		where = append(where, "DATE_FORMAT(date, '%Y-%m') = ?")
		args = append(args, mk)
	}
	if q := strings.TrimSpace(f.Q); q != "" {
		where = append(where, "(delivery_id LIKE ? OR vehicle_id LIKE ? OR city LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	query := "SELECT " + deliveryColumns + " FROM deliveries WHERE " +
		strings.Join(where, " AND ") + " ORDER BY date ASC, id ASC"

	if f.Page > 0 && f.Limit > 0 {
		limit := f.Limit
		if limit > 1000 {
			limit = 1000
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (f.Page-1)*limit)
	}

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r DeliveryRepository) GetByID(id int64) (domain.Delivery, error) {
	row := r.db().QueryRow("SELECT "+deliveryColumns+" FROM deliveries WHERE id = ?", id)
	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, domain.NotFoundError{Resource: "delivery", Err: err}
	}
	return d, err
}

func (r DeliveryRepository) Create(d domain.Delivery) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO deliveries
			(delivery_id, vehicle_id, date, city, planned_minutes, actual_minutes,
			 on_time, distance_km, fuel_cost, other_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, d.DeliveryID, d.VehicleID, d.Date, d.City, d.PlannedMinutes, d.ActualMinutes,
		d.OnTime, d.DistanceKm, d.FuelCost, d.OtherCost)
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ConflictError{Resource: "delivery", Msg: "delivery_id already exists", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r DeliveryRepository) Update(id int64, d domain.Delivery) error {
	res, err := r.db().Exec(`
		UPDATE deliveries SET
			delivery_id = ?, vehicle_id = ?, date = ?, city = ?,
			planned_minutes = ?, actual_minutes = ?, on_time = ?,
			distance_km = ?, fuel_cost = ?, other_cost = ?, updated_at = NOW()
		WHERE id = ?
	`, d.DeliveryID, d.VehicleID, d.Date, d.City, d.PlannedMinutes, d.ActualMinutes,
		d.OnTime, d.DistanceKm, d.FuelCost, d.OtherCost, id)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Resource: "delivery", Msg: "delivery_id already exists", Err: err}
		}
		return err
	}
	return requireAffected(res, "delivery")
}

func (r DeliveryRepository) Delete(id int64) error {
	res, err := r.db().Exec("DELETE FROM deliveries WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res, "delivery")
}

// ReplaceAll swaps the dataset inside the caller's transaction.
func (r DeliveryRepository) ReplaceAll(tx *sql.Tx, ds []domain.Delivery) error {
	if _, err := tx.Exec("DELETE FROM deliveries"); err != nil {
		return err
	}
	return insertDeliveries(tx, ds, false)
}

// UpsertAll inserts or updates by delivery_id inside the caller's transaction.
func (r DeliveryRepository) UpsertAll(tx *sql.Tx, ds []domain.Delivery) error {
	return insertDeliveries(tx, ds, true)
}

func insertDeliveries(tx *sql.Tx, ds []domain.Delivery, upsert bool) error {
	query := `
		INSERT INTO deliveries
			(delivery_id, vehicle_id, date, city, planned_minutes, actual_minutes,
			 on_time, distance_km, fuel_cost, other_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	if upsert {
		query += `
		ON DUPLICATE KEY UPDATE
			vehicle_id = VALUES(vehicle_id), date = VALUES(date), city = VALUES(city),
			planned_minutes = VALUES(planned_minutes), actual_minutes = VALUES(actual_minutes),
			on_time = VALUES(on_time), distance_km = VALUES(distance_km),
			fuel_cost = VALUES(fuel_cost), other_cost = VALUES(other_cost), updated_at = NOW()`
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range ds {
		if _, err := stmt.Exec(
			d.DeliveryID, d.VehicleID, d.Date, d.City, d.PlannedMinutes, d.ActualMinutes,
			d.OnTime, d.DistanceKm, d.FuelCost, d.OtherCost,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r DeliveryRepository) DistinctCities() ([]string, error) {
	return r.distinct("SELECT DISTINCT city FROM deliveries ORDER BY city ASC")
}

func (r DeliveryRepository) DistinctMonths() ([]string, error) {
	return r.distinct("SELECT DISTINCT DATE_FORMAT(date, '%Y-%m') FROM deliveries ORDER BY 1 ASC")
}

func (r DeliveryRepository) distinct(query string) ([]string, error) {
	rows, err := r.db().Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r DeliveryRepository) Count() (int, error) {
	var n int
	err := r.db().QueryRow("SELECT COUNT(*) FROM deliveries").Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID,
		&d.DeliveryID,
		&d.VehicleID,
		&d.Date,
		&d.City,
		&d.PlannedMinutes,
		&d.ActualMinutes,
		&d.OnTime,
		&d.DistanceKm,
		&d.FuelCost,
		&d.OtherCost,
	)
	return d, err
}

func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
