package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"opsboard/internal/domain"
	"opsboard/internal/http/middleware"
	"opsboard/internal/repositories"
	"opsboard/internal/services"
	"opsboard/internal/utils"

	"github.com/gin-gonic/gin"
)

func dashboardService() services.DashboardService {
	return services.DashboardService{DeliveryRepo: repositories.DeliveryRepository{}}
}

// parseFilter reads the shared ?city=&month= scope. "All" and empty both
// mean unfiltered, matching the dashboard's filter tiles.
func parseFilter(c *gin.Context) (services.Filter, bool) {
	city := strings.TrimSpace(c.Query("city"))
	if strings.EqualFold(city, "all") {
		city = ""
	}

	monthKey, err := domain.ParseMonth(c.Query("month"))
	if err != nil {
		RespondDomainError(c, err)
		return services.Filter{}, false
	}

	return services.Filter{City: city, MonthKey: monthKey}, true
}

// GET /api/kpis?city=Lagos&month=2025-01
func GetKPIs(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	kpis, err := dashboardService().KPIs(f)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute KPIs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "kpis": kpis})
}

// GET /api/charts/delay-by-city
func GetDelayByCity(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	data, err := dashboardService().DelayByCity(f)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute chart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "data": data})
}

// GET /api/charts/cost-vs-on-time
func GetCostVsOnTime(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	data, err := dashboardService().CostVsOnTime(f)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute chart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "data": data})
}

// GET /api/charts/deliveries-per-vehicle
func GetDeliveriesPerVehicle(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	data, err := dashboardService().DeliveriesPerVehicle(f)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute chart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "data": data})
}

// GET /api/charts/monthly-trend
func GetMonthlyTrend(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	data, err := dashboardService().MonthlyTrend(f)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to compute chart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "data": data})
}

// GET /api/dashboard — everything the frontend renders, one round trip.
func GetDashboard(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	dash, err := dashboardService().Dashboard(f)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to build dashboard", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "dashboard", "render",
		fmt.Sprintf("city=%s month=%s deliveries=%d", f.City, f.MonthKey, dash.Deliveries))
	c.JSON(http.StatusOK, dash)
}

// GET /api/filters
func GetFilters(c *gin.Context) {
	opts, err := dashboardService().FilterOptions()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list filters", err)
		return
	}
	c.JSON(http.StatusOK, opts)
}
