package domain

import (
	"strings"
	"time"
)

const monthKeyLayout = "2006-01"
const monthLabelLayout = "Jan 2006"

// Delivery is one completed delivery leg as imported from deliveries.csv.
// Cost and timing figures are stored raw; everything derived (delay, cost
// per km) is computed on read so imports stay idempotent.
type Delivery struct {
	ID             int64     `json:"id"`
	DeliveryID     string    `json:"delivery_id"`
	VehicleID      string    `json:"vehicle_id"`
	Date           time.Time `json:"date"`
	City           string    `json:"city"`
	PlannedMinutes float64   `json:"planned_minutes"`
	ActualMinutes  float64   `json:"actual_minutes"`
	OnTime         bool      `json:"on_time"`
	DistanceKm     float64   `json:"distance_km"`
	FuelCost       float64   `json:"fuel_cost"`
	OtherCost      float64   `json:"other_cost"`
}

func (d Delivery) DelayMinutes() float64 {
	return d.ActualMinutes - d.PlannedMinutes
}

func (d Delivery) TotalCost() float64 {
	return d.FuelCost + d.OtherCost
}

// CostPerKm guards against zero distance so aggregates never produce Inf.
func (d Delivery) CostPerKm() float64 {
	if d.DistanceKm == 0 {
		return 0
	}
	return d.TotalCost() / d.DistanceKm
}

func (d Delivery) FuelCostPerKm() float64 {
	if d.DistanceKm == 0 {
		return 0
	}
	return d.FuelCost / d.DistanceKm
}

// FuelCostRatio is the per-delivery fuel share of total cost, in percent.
func (d Delivery) FuelCostRatio() float64 {
	total := d.TotalCost()
	if total == 0 {
		return 0
	}
	return d.FuelCost / total * 100
}

// MonthKey returns the sortable month bucket, e.g. "2025-01".
func (d Delivery) MonthKey() string {
	return d.Date.Format(monthKeyLayout)
}

// MonthLabel converts a month key into its display form ("Jan 2025").
// Unparseable keys are returned untouched.
func MonthLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format(monthLabelLayout)
}

// ParseMonth accepts either the key form ("2025-01") or the display form
// ("Jan 2025") and canonicalizes to the key form. Empty or "All" means no
// month filter.
func ParseMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	if t, err := time.Parse(monthKeyLayout, s); err == nil {
		return t.Format(monthKeyLayout), nil
	}
	t, err := time.Parse(monthLabelLayout, s)
	if err != nil {
		return "", ValidationError{Field: "month", Msg: "expected YYYY-MM or 'Jan 2006'", Err: err}
	}
	return t.Format(monthKeyLayout), nil
}

// Vehicle is one fleet unit as imported from fleet.csv. Only vehicle_id
// and home city come from the original dataset; the rest are optional.
type Vehicle struct {
	ID          int64   `json:"id"`
	VehicleID   string  `json:"vehicle_id"`
	HomeCity    string  `json:"home_city"`
	VehicleType string  `json:"vehicle_type,omitempty"`
	CapacityKg  float64 `json:"capacity_kg,omitempty"`
	PlateNumber string  `json:"plate_number,omitempty"`
}

// User is a dashboard account.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}
