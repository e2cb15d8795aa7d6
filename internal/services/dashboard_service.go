package services

import (
	"opsboard/internal/analytics"
	"opsboard/internal/domain"
	"opsboard/internal/repositories"
)

// Filter is the dashboard-wide city/month scope. Empty fields mean "All".
type Filter struct {
	City     string `json:"city,omitempty"`
	MonthKey string `json:"month,omitempty"`
}

type DashboardService struct {
	DeliveryRepo repositories.DeliveryRepository

	// FetchDeliveries overrides the repo lookup in tests.
	FetchDeliveries func(repositories.DeliveryFilter) ([]domain.Delivery, error)
}

func (s DashboardService) deliveries(f Filter) ([]domain.Delivery, error) {
	rf := repositories.DeliveryFilter{City: f.City, MonthKey: f.MonthKey}
	if s.FetchDeliveries != nil {
		return s.FetchDeliveries(rf)
	}
	return s.DeliveryRepo.List(rf)
}

func (s DashboardService) KPIs(f Filter) ([]analytics.KPI, error) {
	ds, err := s.deliveries(f)
	if err != nil {
		return nil, err
	}
	return analytics.KPIReport(ds), nil
}

func (s DashboardService) DelayByCity(f Filter) ([]analytics.CityDelay, error) {
	ds, err := s.deliveries(f)
	if err != nil {
		return nil, err
	}
	return analytics.DelayByCity(ds), nil
}

func (s DashboardService) CostVsOnTime(f Filter) ([]analytics.CityCostOnTime, error) {
	ds, err := s.deliveries(f)
	if err != nil {
		return nil, err
	}
	return analytics.CostVsOnTime(ds), nil
}

// VehicleDistribution is the deliveries-per-vehicle chart payload.
type VehicleDistribution struct {
	Vehicles []analytics.VehicleDeliveries `json:"vehicles"`
	Summary  analytics.Distribution        `json:"summary"`
}

func (s DashboardService) DeliveriesPerVehicle(f Filter) (VehicleDistribution, error) {
	ds, err := s.deliveries(f)
	if err != nil {
		return VehicleDistribution{}, err
	}
	vehicles, summary := analytics.DeliveriesPerVehicle(ds)
	return VehicleDistribution{Vehicles: vehicles, Summary: summary}, nil
}

func (s DashboardService) MonthlyTrend(f Filter) ([]analytics.MonthPoint, error) {
	ds, err := s.deliveries(f)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyTrend(ds), nil
}

// Dashboard bundles everything the frontend renders in one response.
type Dashboard struct {
	Filter               Filter                       `json:"filter"`
	Deliveries           int                          `json:"deliveries"`
	KPIs                 []analytics.KPI              `json:"kpis"`
	DelayByCity          []analytics.CityDelay        `json:"delay_by_city"`
	CostVsOnTime         []analytics.CityCostOnTime   `json:"cost_vs_on_time"`
	DeliveriesPerVehicle VehicleDistribution          `json:"deliveries_per_vehicle"`
	MonthlyTrend         []analytics.MonthPoint       `json:"monthly_trend"`
}

func (s DashboardService) Dashboard(f Filter) (Dashboard, error) {
	ds, err := s.deliveries(f)
	if err != nil {
		return Dashboard{}, err
	}

	vehicles, summary := analytics.DeliveriesPerVehicle(ds)
	return Dashboard{
		Filter:               f,
		Deliveries:           len(ds),
		KPIs:                 analytics.KPIReport(ds),
		DelayByCity:          analytics.DelayByCity(ds),
		CostVsOnTime:         analytics.CostVsOnTime(ds),
		DeliveriesPerVehicle: VehicleDistribution{Vehicles: vehicles, Summary: summary},
		MonthlyTrend:         analytics.MonthlyTrend(ds),
	}, nil
}

// MonthOption pairs the canonical key with its display label.
type MonthOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type FilterOptions struct {
	Cities []string      `json:"cities"`
	Months []MonthOption `json:"months"`
}

// FilterOptions lists the distinct cities and months present in the data.
func (s DashboardService) FilterOptions() (FilterOptions, error) {
	cities, err := s.DeliveryRepo.DistinctCities()
	if err != nil {
		return FilterOptions{}, err
	}
	keys, err := s.DeliveryRepo.DistinctMonths()
	if err != nil {
		return FilterOptions{}, err
	}

	months := make([]MonthOption, 0, len(keys))
	for _, k := range keys {
		months = append(months, MonthOption{Key: k, Label: domain.MonthLabel(k)})
	}
	return FilterOptions{Cities: cities, Months: months}, nil
}
