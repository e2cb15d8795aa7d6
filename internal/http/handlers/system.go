package handlers

import (
	"net/http"
	"sync"

	"opsboard/internal/config"
	intdb "opsboard/internal/db"
	"opsboard/internal/repositories"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "opsboard backend running"})
}

func DBCheck(c *gin.Context) {
	if config.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected"})
		return
	}
	if !intdb.HasTable(config.DB, "deliveries") {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "deliveries table missing, run migrations"})
		return
	}

	deliveries, err := repositories.DeliveryRepository{}.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
		return
	}
	vehicles, _ := repositories.VehicleRepository{}.Count()

	c.JSON(http.StatusOK, gin.H{
		"message":    "database connection OK",
		"deliveries": deliveries,
		"vehicles":   vehicles,
	})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
