// Package ingest parses the deliveries.csv / fleet.csv dataset. Columns are
// addressed by header name so files survive reordering, and bad rows are
// reported individually with their line number instead of failing the file.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"opsboard/internal/domain"
	"opsboard/internal/utils"
)

// RowError describes one rejected CSV row.
type RowError struct {
	Line int    `json:"line"`
	Msg  string `json:"error"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

var deliveryColumns = []string{
	"delivery_id", "vehicle_id", "date", "city",
	"planned_minutes", "actual_minutes", "on_time",
	"distance_km", "fuel_cost", "other_cost",
}

var fleetColumns = []string{"vehicle_id", "city"}

// ParseDeliveries reads deliveries.csv. The returned error is fatal (bad
// header, unreadable stream); per-row problems come back as RowErrors.
func ParseDeliveries(r io.Reader) ([]domain.Delivery, []RowError, error) {
	rd := newReader(r)

	idx, err := headerIndex(rd, deliveryColumns)
	if err != nil {
		return nil, nil, err
	}

	var (
		out     []domain.Delivery
		rowErrs []RowError
		line    = 1
	)
	for {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: err.Error()})
			continue
		}

		d, err := deliveryFromRecord(record, idx)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: err.Error()})
			continue
		}
		out = append(out, d)
	}
	return out, rowErrs, nil
}

// ParseFleet reads fleet.csv. vehicle_type, capacity_kg and plate_number are
// optional columns.
func ParseFleet(r io.Reader) ([]domain.Vehicle, []RowError, error) {
	rd := newReader(r)

	idx, err := headerIndex(rd, fleetColumns)
	if err != nil {
		return nil, nil, err
	}

	var (
		out     []domain.Vehicle
		rowErrs []RowError
		line    = 1
	)
	for {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: err.Error()})
			continue
		}

		v, err := vehicleFromRecord(record, idx)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Msg: err.Error()})
			continue
		}
		out = append(out, v)
	}
	return out, rowErrs, nil
}

func newReader(r io.Reader) *csv.Reader {
	rd := csv.NewReader(r)
	rd.TrimLeadingSpace = true
	rd.FieldsPerRecord = -1
	return rd
}

// headerIndex maps column name to position and verifies required columns.
func headerIndex(rd *csv.Reader, required []string) (map[string]int, error) {
	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, domain.ValidationError{Field: name, Msg: "missing column"}
		}
	}
	return idx, nil
}

func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func deliveryFromRecord(record []string, idx map[string]int) (domain.Delivery, error) {
	var d domain.Delivery

	d.DeliveryID = field(record, idx, "delivery_id")
	if d.DeliveryID == "" {
		return d, fmt.Errorf("delivery_id is empty")
	}
	d.VehicleID = field(record, idx, "vehicle_id")
	if d.VehicleID == "" {
		return d, fmt.Errorf("vehicle_id is empty")
	}
	d.City = field(record, idx, "city")
	if d.City == "" {
		return d, fmt.Errorf("city is empty")
	}

	date, err := utils.ParseDate(field(record, idx, "date"))
	if err != nil {
		return d, fmt.Errorf("date: %v", err)
	}
	d.Date = date

	if d.PlannedMinutes, err = nonNegative(field(record, idx, "planned_minutes"), "planned_minutes"); err != nil {
		return d, err
	}
	if d.ActualMinutes, err = nonNegative(field(record, idx, "actual_minutes"), "actual_minutes"); err != nil {
		return d, err
	}
	if d.FuelCost, err = nonNegative(field(record, idx, "fuel_cost"), "fuel_cost"); err != nil {
		return d, err
	}
	if d.OtherCost, err = nonNegative(field(record, idx, "other_cost"), "other_cost"); err != nil {
		return d, err
	}

	if d.DistanceKm, err = nonNegative(field(record, idx, "distance_km"), "distance_km"); err != nil {
		return d, err
	}
	if d.DistanceKm == 0 {
		return d, fmt.Errorf("distance_km must be > 0")
	}

	if d.OnTime, err = parseBool(field(record, idx, "on_time")); err != nil {
		return d, fmt.Errorf("on_time: %v", err)
	}

	return d, nil
}

func vehicleFromRecord(record []string, idx map[string]int) (domain.Vehicle, error) {
	var v domain.Vehicle

	v.VehicleID = field(record, idx, "vehicle_id")
	if v.VehicleID == "" {
		return v, fmt.Errorf("vehicle_id is empty")
	}
	v.HomeCity = field(record, idx, "city")
	if v.HomeCity == "" {
		return v, fmt.Errorf("city is empty")
	}

	v.VehicleType = field(record, idx, "vehicle_type")
	v.PlateNumber = field(record, idx, "plate_number")

	if raw := field(record, idx, "capacity_kg"); raw != "" {
		cap, err := nonNegative(raw, "capacity_kg")
		if err != nil {
			return v, err
		}
		v.CapacityKg = cap
	}

	return v, nil
}

func nonNegative(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is empty", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number", name)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: must be >= 0", name)
	}
	return v, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("expected 1/0/true/false, got %q", raw)
}
