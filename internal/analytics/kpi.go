// Package analytics computes the dashboard aggregates over delivery rows.
// Everything here is pure: rows in, numbers out. Filtering happens in the
// repository layer before rows reach this package.
package analytics

import (
	"sort"

	"opsboard/internal/domain"
)

// Metric names as shown on the dashboard.
const (
	MetricAvgDelay             = "Average Delay"
	MetricOnTimeRate           = "On-Time Rate"
	MetricCostPerKm            = "Cost per Kilometer"
	MetricDeliveriesPerVehicle = "Deliveries per Vehicle"
	MetricFuelCostRatio        = "Fuel Cost Ratio"
)

// KPI is one headline figure plus its month-over-month movement.
type KPI struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	MoMPercent float64 `json:"mom_percent"`
	Improving  bool    `json:"improving"`
}

// KPISet holds the five headline values without MoM context.
type KPISet struct {
	AvgDelayMinutes      float64 `json:"avg_delay_minutes"`
	OnTimeRate           float64 `json:"on_time_rate"`
	CostPerKm            float64 `json:"cost_per_km"`
	DeliveriesPerVehicle float64 `json:"deliveries_per_vehicle"`
	FuelCostRatio        float64 `json:"fuel_cost_ratio"`
}

// ComputeKPIs aggregates the filtered set.
//
// Note the asymmetry that the dashboard has always had: the headline cost
// per km is the ratio of sums (fleet-level unit cost), while the per-city
// and per-month charts average the per-delivery ratios.
func ComputeKPIs(ds []domain.Delivery) KPISet {
	if len(ds) == 0 {
		return KPISet{}
	}

	var (
		sumDelay, sumKm, sumTotal, sumFuel float64
		onTime                             int
		perVehicle                         = map[string]int{}
	)
	for _, d := range ds {
		sumDelay += d.DelayMinutes()
		sumKm += d.DistanceKm
		sumTotal += d.TotalCost()
		sumFuel += d.FuelCost
		if d.OnTime {
			onTime++
		}
		perVehicle[d.VehicleID]++
	}

	n := float64(len(ds))
	out := KPISet{
		AvgDelayMinutes: sumDelay / n,
		OnTimeRate:      float64(onTime) / n * 100,
	}
	if sumKm > 0 {
		out.CostPerKm = sumTotal / sumKm
	}
	if sumTotal > 0 {
		out.FuelCostRatio = sumFuel / sumTotal * 100
	}
	if len(perVehicle) > 0 {
		out.DeliveriesPerVehicle = n / float64(len(perVehicle))
	}
	return out
}

// monthlyFigures mirrors the dashboard's monthly resample used for MoM:
// on-time stays a 0..1 fraction, cost per km is the mean of per-row ratios
// and the deliveries bucket is a plain count.
type monthlyFigures struct {
	avgDelay      float64
	onTimeRate    float64
	costPerKm     float64
	deliveries    float64
	fuelCostRatio float64
}

func monthlySummary(ds []domain.Delivery) []monthlyFigures {
	buckets := map[string][]domain.Delivery{}
	for _, d := range ds {
		k := d.MonthKey()
		buckets[k] = append(buckets[k], d)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]monthlyFigures, 0, len(keys))
	for _, k := range keys {
		rows := buckets[k]
		var f monthlyFigures
		for _, d := range rows {
			f.avgDelay += d.DelayMinutes()
			if d.OnTime {
				f.onTimeRate++
			}
			f.costPerKm += d.CostPerKm()
			f.fuelCostRatio += d.FuelCostRatio()
		}
		n := float64(len(rows))
		f.avgDelay /= n
		f.onTimeRate /= n
		f.costPerKm /= n
		f.fuelCostRatio /= n
		f.deliveries = n
		out = append(out, f)
	}
	return out
}

func momPercent(prev, curr float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}

// lowerIsBetter marks metrics where a falling MoM is an improvement.
var lowerIsBetter = map[string]bool{
	MetricAvgDelay:      true,
	MetricCostPerKm:     true,
	MetricFuelCostRatio: true,
}

func improving(name string, mom float64) bool {
	if lowerIsBetter[name] {
		return mom < 0
	}
	return mom > 0
}

// KPIReport returns the five KPIs in dashboard order with MoM deltas
// computed over the last two months of the (already filtered) set. Fewer
// than two months yields zero deltas.
func KPIReport(ds []domain.Delivery) []KPI {
	set := ComputeKPIs(ds)
	months := monthlySummary(ds)

	mom := map[string]float64{}
	if len(months) >= 2 {
		prev, curr := months[len(months)-2], months[len(months)-1]
		mom[MetricAvgDelay] = momPercent(prev.avgDelay, curr.avgDelay)
		mom[MetricOnTimeRate] = momPercent(prev.onTimeRate, curr.onTimeRate)
		mom[MetricCostPerKm] = momPercent(prev.costPerKm, curr.costPerKm)
		mom[MetricDeliveriesPerVehicle] = momPercent(prev.deliveries, curr.deliveries)
		mom[MetricFuelCostRatio] = momPercent(prev.fuelCostRatio, curr.fuelCostRatio)
	}

	build := func(name string, value float64, unit string) KPI {
		return KPI{
			Name:       name,
			Value:      value,
			Unit:       unit,
			MoMPercent: mom[name],
			Improving:  improving(name, mom[name]),
		}
	}

	return []KPI{
		build(MetricAvgDelay, set.AvgDelayMinutes, "min"),
		build(MetricOnTimeRate, set.OnTimeRate, "%"),
		build(MetricCostPerKm, set.CostPerKm, "NGN/km"),
		build(MetricDeliveriesPerVehicle, set.DeliveriesPerVehicle, "deliveries"),
		build(MetricFuelCostRatio, set.FuelCostRatio, "%"),
	}
}
