package handlers

import (
	"net/http"

	"opsboard/internal/http/middleware"
	"opsboard/internal/repositories"
	"opsboard/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/reports/operations?city=Lagos&month=2025-01
func GetOperationsReport(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	svc := services.ReportsService{
		Dashboard: services.DashboardService{DeliveryRepo: repositories.DeliveryRepository{}},
		RequestID: middleware.GetRequestID(c),
	}

	pdfBytes, filename, err := svc.OperationsPDF(f)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to build report", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
