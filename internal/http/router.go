package api

import (
	"log"
	stdhttp "net/http"

	intconfig "opsboard/internal/config"
	h "opsboard/internal/http/handlers"
	"opsboard/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.ConfigureAuth(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Dashboard aggregates
		api.GET("/dashboard", h.GetDashboard)
		api.GET("/kpis", h.GetKPIs)
		api.GET("/filters", h.GetFilters)

		charts := api.Group("/charts")
		charts.GET("/delay-by-city", h.GetDelayByCity)
		charts.GET("/cost-vs-on-time", h.GetCostVsOnTime)
		charts.GET("/deliveries-per-vehicle", h.GetDeliveriesPerVehicle)
		charts.GET("/monthly-trend", h.GetMonthlyTrend)

		// Reports
		reports := api.Group("/reports")
		reports.GET("/operations", h.GetOperationsReport)

		// Deliveries
		deliveries := api.Group("/deliveries")
		deliveries.GET("", h.GetDeliveries)
		deliveries.GET("/:id", h.GetDelivery)

		// Vehicles
		vehicles := api.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicle)

		// Mutations require a valid token
		guarded := api.Group("")
		guarded.Use(middleware.RequireAuth(h.JWTSecret()))
		guarded.POST("/deliveries", h.CreateDelivery)
		guarded.PUT("/deliveries/:id", h.UpdateDelivery)
		guarded.DELETE("/deliveries/:id", h.DeleteDelivery)
		guarded.POST("/vehicles", h.CreateVehicle)
		guarded.PUT("/vehicles/:id", h.UpdateVehicle)
		guarded.DELETE("/vehicles/:id", h.DeleteVehicle)
		guarded.POST("/import", h.ImportCSV)
	}

	h.SetRouter(r)
	return r
}
