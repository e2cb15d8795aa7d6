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

type vehiclePayload struct {
	VehicleID   string  `json:"vehicle_id" binding:"required"`
	HomeCity    string  `json:"home_city" binding:"required"`
	VehicleType string  `json:"vehicle_type"`
	CapacityKg  float64 `json:"capacity_kg"`
	PlateNumber string  `json:"plate_number"`
}

func (p vehiclePayload) toDomain() (domain.Vehicle, error) {
	if p.CapacityKg < 0 {
		return domain.Vehicle{}, domain.ValidationError{Field: "capacity_kg", Msg: "must be >= 0"}
	}
	return domain.Vehicle{
		VehicleID:   utils.TrimOrEmpty(p.VehicleID),
		HomeCity:    utils.NormalizeSpace(p.HomeCity),
		VehicleType: utils.TrimOrEmpty(p.VehicleType),
		CapacityKg:  p.CapacityKg,
		PlateNumber: utils.TrimOrEmpty(p.PlateNumber),
	}, nil
}

// GET /api/vehicles?q=VH&page=1&limit=50
func GetVehicles(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))

	list, err := repositories.VehicleRepository{}.List(q, page, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list vehicles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": list, "count": len(list)})
}

// GET /api/vehicles/:id — lookup is by the vehicle business key ("TRK-01"),
// which is what every delivery row references.
func GetVehicle(c *gin.Context) {
	vehicleID := strings.TrimSpace(c.Param("id"))
	if vehicleID == "" {
		RespondError(c, http.StatusBadRequest, "invalid vehicle id", nil)
		return
	}

	v, err := repositories.VehicleRepository{}.GetByVehicleID(vehicleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	v, err := payload.toDomain()
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	id, err := repositories.VehicleRepository{}.Create(v)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	v.ID = id
	c.JSON(http.StatusCreated, gin.H{"message": "vehicle created", "vehicle": v})
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	v, err := payload.toDomain()
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if err := (repositories.VehicleRepository{}).Update(id, v); err != nil {
		RespondDomainError(c, err)
		return
	}
	v.ID = id
	c.JSON(http.StatusOK, gin.H{"message": "vehicle updated", "vehicle": v})
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	if err := (repositories.VehicleRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
