package analytics

import (
	"testing"
	"time"

	"opsboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkDelivery(date, city, vehicle string, planned, actual float64, onTime bool, km, fuel, other float64) domain.Delivery {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Delivery{
		DeliveryID:     "D-" + date + "-" + vehicle,
		VehicleID:      vehicle,
		Date:           t,
		City:           city,
		PlannedMinutes: planned,
		ActualMinutes:  actual,
		OnTime:         onTime,
		DistanceKm:     km,
		FuelCost:       fuel,
		OtherCost:      other,
	}
}

// Two months, two vehicles, two cities. Hand-computed expectations below.
func fixture() []domain.Delivery {
	return []domain.Delivery{
		mkDelivery("2025-01-05", "Lagos", "V1", 60, 70, false, 10, 30, 10),
		mkDelivery("2025-01-20", "Lagos", "V2", 50, 50, true, 20, 20, 20),
		mkDelivery("2025-02-03", "Abuja", "V1", 40, 52, false, 30, 30, 30),
		mkDelivery("2025-02-18", "Abuja", "V2", 30, 30, true, 40, 10, 10),
	}
}

func TestComputeKPIs(t *testing.T) {
	set := ComputeKPIs(fixture())

	assert.InDelta(t, 5.5, set.AvgDelayMinutes, 1e-9)
	assert.InDelta(t, 50.0, set.OnTimeRate, 1e-9)
	// ratio of sums: 160 total cost over 100 km
	assert.InDelta(t, 1.6, set.CostPerKm, 1e-9)
	assert.InDelta(t, 2.0, set.DeliveriesPerVehicle, 1e-9)
	// 90 fuel over 160 total
	assert.InDelta(t, 56.25, set.FuelCostRatio, 1e-9)
}

func TestComputeKPIsEmpty(t *testing.T) {
	set := ComputeKPIs(nil)
	assert.Equal(t, KPISet{}, set)
}

func TestKPIReportMoM(t *testing.T) {
	kpis := KPIReport(fixture())
	require.Len(t, kpis, 5)

	byName := map[string]KPI{}
	for _, k := range kpis {
		byName[k.Name] = k
	}

	// Jan avg delay 5, Feb 6 -> +20%, worse
	delay := byName[MetricAvgDelay]
	assert.InDelta(t, 20.0, delay.MoMPercent, 1e-9)
	assert.False(t, delay.Improving)

	// on-time fraction 0.5 both months -> flat
	onTime := byName[MetricOnTimeRate]
	assert.InDelta(t, 0.0, onTime.MoMPercent, 1e-9)
	assert.False(t, onTime.Improving)

	// mean of per-row ratios: Jan (4+2)/2=3, Feb (2+0.5)/2=1.25
	cost := byName[MetricCostPerKm]
	assert.InDelta(t, -58.333333333, cost.MoMPercent, 1e-6)
	assert.True(t, cost.Improving)

	// monthly bucket is a plain count: 2 vs 2 -> flat
	perVehicle := byName[MetricDeliveriesPerVehicle]
	assert.InDelta(t, 0.0, perVehicle.MoMPercent, 1e-9)
	assert.False(t, perVehicle.Improving)

	// Jan mean row ratio 62.5, Feb 50 -> -20%, better
	fuel := byName[MetricFuelCostRatio]
	assert.InDelta(t, -20.0, fuel.MoMPercent, 1e-9)
	assert.True(t, fuel.Improving)
}

func TestKPIReportSingleMonthHasZeroMoM(t *testing.T) {
	ds := fixture()[:2]
	for _, k := range KPIReport(ds) {
		assert.Zero(t, k.MoMPercent, k.Name)
		assert.False(t, k.Improving, k.Name)
	}
}

func TestKPIReportZeroPrevMonth(t *testing.T) {
	ds := []domain.Delivery{
		// January: zero delay everywhere
		mkDelivery("2025-01-05", "Lagos", "V1", 60, 60, true, 10, 5, 5),
		// February: delayed
		mkDelivery("2025-02-05", "Lagos", "V1", 60, 90, false, 10, 5, 5),
	}
	kpis := KPIReport(ds)
	for _, k := range kpis {
		if k.Name == MetricAvgDelay {
			// prev mean delay is 0, division guarded
			assert.Zero(t, k.MoMPercent)
		}
	}
}

func TestKPIReportOrderMatchesDashboard(t *testing.T) {
	kpis := KPIReport(fixture())
	names := make([]string, 0, len(kpis))
	for _, k := range kpis {
		names = append(names, k.Name)
	}
	assert.Equal(t, []string{
		MetricAvgDelay, MetricOnTimeRate, MetricCostPerKm,
		MetricDeliveriesPerVehicle, MetricFuelCostRatio,
	}, names)
}
