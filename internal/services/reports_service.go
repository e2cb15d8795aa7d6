package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"opsboard/internal/analytics"
	"opsboard/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReportsService renders the operations summary PDF for a filter scope.
type ReportsService struct {
	Dashboard DashboardService
	RequestID string
}

func (s ReportsService) OperationsPDF(f Filter) ([]byte, string, error) {
	dash, err := s.Dashboard.Dashboard(f)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "reports", "generate_operations",
		fmt.Sprintf("city=%s month=%s deliveries=%d", safe(f.City, "all"), safe(f.MonthKey, "all"), dash.Deliveries))
	return buildOperationsPDF(dash)
}

func buildOperationsPDF(dash Dashboard) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Operations Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "OPERATIONS REPORT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Generated : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "City      : "+safe(dash.Filter.City, "All"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Month     : "+safe(dash.Filter.MonthKey, "All"))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Deliveries: %d", dash.Deliveries))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Performance Benchmarks")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	for _, k := range dash.KPIs {
		arrow := "down"
		if k.MoMPercent > 0 {
			arrow = "up"
		}
		trend := fmt.Sprintf("MoM %s %.1f%%", arrow, abs(k.MoMPercent))
		if k.Improving {
			trend += " (improving)"
		}
		pdf.Cell(0, 6, fmt.Sprintf("%-24s %s   %s", k.Name, formatKPIValue(k), trend))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Average Delay by City")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, c := range dash.DelayByCity {
		pdf.Cell(0, 6, fmt.Sprintf("%-12s %8.2f min over %d deliveries", c.City, c.AvgDelayMinutes, c.Deliveries))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Monthly Trend")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, m := range dash.MonthlyTrend {
		pdf.Cell(0, 6, fmt.Sprintf("%-10s delay %7.2f min   cost/km %s", m.Label, m.AvgDelayMinutes, utils.FormatNaira(m.CostPerKm)))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("OPERATIONS_%s_%s.pdf",
		utils.SafeFilenamePart(safe(dash.Filter.City, "ALL")),
		utils.SafeFilenamePart(safe(dash.Filter.MonthKey, "ALL")))
	return buf.Bytes(), filename, nil
}

func formatKPIValue(k analytics.KPI) string {
	switch k.Name {
	case analytics.MetricCostPerKm:
		return utils.FormatNaira(k.Value) + "/km"
	case analytics.MetricDeliveriesPerVehicle:
		return fmt.Sprintf("%.0f", k.Value)
	default:
		v := fmt.Sprintf("%.2f", k.Value)
		if k.Unit == "%" {
			return v + "%"
		}
		return v + " " + k.Unit
	}
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
