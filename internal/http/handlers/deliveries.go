package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"opsboard/internal/domain"
	"opsboard/internal/repositories"
	"opsboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type deliveryPayload struct {
	DeliveryID     string  `json:"delivery_id" binding:"required"`
	VehicleID      string  `json:"vehicle_id" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	City           string  `json:"city" binding:"required"`
	PlannedMinutes float64 `json:"planned_minutes"`
	ActualMinutes  float64 `json:"actual_minutes"`
	OnTime         *bool   `json:"on_time" binding:"required"`
	DistanceKm     float64 `json:"distance_km" binding:"required"`
	FuelCost       float64 `json:"fuel_cost"`
	OtherCost      float64 `json:"other_cost"`
}

func (p deliveryPayload) toDomain() (domain.Delivery, error) {
	date, err := utils.ParseDate(p.Date)
	if err != nil {
		return domain.Delivery{}, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	if p.DistanceKm <= 0 {
		return domain.Delivery{}, domain.ValidationError{Field: "distance_km", Msg: "must be > 0"}
	}
	if p.PlannedMinutes < 0 || p.ActualMinutes < 0 || p.FuelCost < 0 || p.OtherCost < 0 {
		return domain.Delivery{}, domain.ValidationError{Msg: "numeric fields must be >= 0"}
	}

	return domain.Delivery{
		DeliveryID:     utils.TrimOrEmpty(p.DeliveryID),
		VehicleID:      utils.TrimOrEmpty(p.VehicleID),
		Date:           date,
		City:           utils.NormalizeSpace(p.City),
		PlannedMinutes: p.PlannedMinutes,
		ActualMinutes:  p.ActualMinutes,
		OnTime:         *p.OnTime,
		DistanceKm:     p.DistanceKm,
		FuelCost:       p.FuelCost,
		OtherCost:      p.OtherCost,
	}, nil
}

// GET /api/deliveries?city=Lagos&month=2025-01&q=DL-10&page=1&limit=50
func GetDeliveries(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))

	repo := repositories.DeliveryRepository{}
	list, err := repo.List(repositories.DeliveryFilter{
		City:     f.City,
		MonthKey: f.MonthKey,
		Q:        strings.TrimSpace(c.Query("q")),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list deliveries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": list, "count": len(list)})
}

// GET /api/deliveries/:id
func GetDelivery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	d, err := repositories.DeliveryRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery": d})
}

// POST /api/deliveries
func CreateDelivery(c *gin.Context) {
	var payload deliveryPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	d, err := payload.toDomain()
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	id, err := repositories.DeliveryRepository{}.Create(d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	d.ID = id
	c.JSON(http.StatusCreated, gin.H{"message": "delivery created", "delivery": d})
}

// PUT /api/deliveries/:id
func UpdateDelivery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	var payload deliveryPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	d, err := payload.toDomain()
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if err := (repositories.DeliveryRepository{}).Update(id, d); err != nil {
		RespondDomainError(c, err)
		return
	}
	d.ID = id
	c.JSON(http.StatusOK, gin.H{"message": "delivery updated", "delivery": d})
}

// DELETE /api/deliveries/:id
func DeleteDelivery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	if err := (repositories.DeliveryRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "delivery deleted"})
}
