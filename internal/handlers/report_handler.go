package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/report"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

const monthlyStatsMonths = 6

// ======================================================
// HANDLER
// ======================================================

type ReportHandler struct {
	reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *ReportHandler) DashboardStats(c *gin.Context) {
	stats, err := h.reports.Dashboard(c.Request.Context(), timezone.Now())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, stats)
}

func (h *ReportHandler) MonthlyStats(c *gin.Context) {
	months, err := h.reports.Monthly(c.Request.Context(), timezone.Now(), monthlyStatsMonths)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, months)
}

// ======================================================
// REPORTS (start_date..end_date, default: mês corrente até hoje)
// ======================================================

func (h *ReportHandler) period(c *gin.Context) (*report.Report, error) {
	now := timezone.Now()
	from, to, err := dateRange(c, "start_date", "end_date", startOfMonth(now), now)
	if err != nil {
		return nil, err
	}
	return h.reports.Period(c.Request.Context(), from, to)
}

func (h *ReportHandler) Reports(c *gin.Context) {
	r, err := h.period(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	logging.FromContext(c.Request.Context()).Info().
		Str("start_date", r.StartDate).
		Str("end_date", r.EndDate).
		Int("barbers", len(r.BarberStats)).
		Int("services", len(r.ServiceStats)).
		Msg("report loaded")

	httpresp.OK(c, r)
}

func (h *ReportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", report.FormatXLSX)
	if format != report.FormatXLSX && format != report.FormatCSV {
		httperr.Respond(c, httperr.ValidationDetails(map[string]string{"format": "oneof"}))
		return
	}

	r, err := h.period(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	// renderiza antes de escrever o status, para erros virarem envelope
	var buf bytes.Buffer
	if err := report.Write(&buf, r, format); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(r, format)))
	c.Data(http.StatusOK, report.ContentType(format), buf.Bytes())
}
