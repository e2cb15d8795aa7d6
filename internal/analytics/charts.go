package analytics

import (
	"sort"

	"opsboard/internal/domain"
)

// CityDelay is one bar of the delay-by-city chart.
type CityDelay struct {
	City            string  `json:"city"`
	AvgDelayMinutes float64 `json:"avg_delay_minutes"`
	Deliveries      int     `json:"deliveries"`
}

// DelayByCity averages delay per delivery city, worst first.
func DelayByCity(ds []domain.Delivery) []CityDelay {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, d := range ds {
		sums[d.City] += d.DelayMinutes()
		counts[d.City]++
	}

	out := make([]CityDelay, 0, len(sums))
	for city, sum := range sums {
		out = append(out, CityDelay{
			City:            city,
			AvgDelayMinutes: sum / float64(counts[city]),
			Deliveries:      counts[city],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgDelayMinutes != out[j].AvgDelayMinutes {
			return out[i].AvgDelayMinutes > out[j].AvgDelayMinutes
		}
		return out[i].City < out[j].City
	})
	return out
}

// CityCostOnTime is one point of the cost-vs-on-time scatter.
type CityCostOnTime struct {
	City       string  `json:"city"`
	CostPerKm  float64 `json:"cost_per_km"`
	OnTimeRate float64 `json:"on_time_rate"`
}

// CostVsOnTime computes per-city mean cost per km against on-time percent.
func CostVsOnTime(ds []domain.Delivery) []CityCostOnTime {
	type acc struct {
		cost   float64
		onTime int
		n      int
	}
	byCity := map[string]*acc{}
	for _, d := range ds {
		a := byCity[d.City]
		if a == nil {
			a = &acc{}
			byCity[d.City] = a
		}
		a.cost += d.CostPerKm()
		if d.OnTime {
			a.onTime++
		}
		a.n++
	}

	out := make([]CityCostOnTime, 0, len(byCity))
	for city, a := range byCity {
		out = append(out, CityCostOnTime{
			City:       city,
			CostPerKm:  a.cost / float64(a.n),
			OnTimeRate: float64(a.onTime) / float64(a.n) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}

// VehicleDeliveries is one vehicle's delivery count.
type VehicleDeliveries struct {
	VehicleID string `json:"vehicle_id"`
	Count     int    `json:"count"`
}

// Distribution summarizes the per-vehicle counts for the box plot.
type Distribution struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// DeliveriesPerVehicle counts deliveries per vehicle and summarizes the
// distribution. Vehicles with zero deliveries in the filtered window do not
// appear, matching a groupby over the delivery rows.
func DeliveriesPerVehicle(ds []domain.Delivery) ([]VehicleDeliveries, Distribution) {
	counts := map[string]int{}
	for _, d := range ds {
		counts[d.VehicleID]++
	}

	out := make([]VehicleDeliveries, 0, len(counts))
	values := make([]float64, 0, len(counts))
	for id, n := range counts {
		out = append(out, VehicleDeliveries{VehicleID: id, Count: n})
		values = append(values, float64(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })

	return out, summarize(values)
}

func summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sort.Float64s(values)

	var sum float64
	for _, v := range values {
		sum += v
	}

	return Distribution{
		Min:    values[0],
		Q1:     quantile(values, 0.25),
		Median: quantile(values, 0.5),
		Q3:     quantile(values, 0.75),
		Max:    values[len(values)-1],
		Mean:   sum / float64(len(values)),
	}
}

// quantile interpolates linearly over a sorted slice.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// MonthPoint is one point of the monthly trend chart.
type MonthPoint struct {
	Key             string  `json:"key"`
	Label           string  `json:"label"`
	AvgDelayMinutes float64 `json:"avg_delay_minutes"`
	CostPerKm       float64 `json:"cost_per_km"`
}

// MonthlyTrend buckets rows by calendar month, chronologically. Cost per km
// here is the mean of per-delivery ratios, like the monthly MoM summary.
func MonthlyTrend(ds []domain.Delivery) []MonthPoint {
	type acc struct {
		delay float64
		cost  float64
		n     int
	}
	buckets := map[string]*acc{}
	for _, d := range ds {
		k := d.MonthKey()
		a := buckets[k]
		if a == nil {
			a = &acc{}
			buckets[k] = a
		}
		a.delay += d.DelayMinutes()
		a.cost += d.CostPerKm()
		a.n++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		a := buckets[k]
		out = append(out, MonthPoint{
			Key:             k,
			Label:           domain.MonthLabel(k),
			AvgDelayMinutes: a.delay / float64(a.n),
			CostPerKm:       a.cost / float64(a.n),
		})
	}
	return out
}
