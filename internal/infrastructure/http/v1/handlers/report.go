package handlers

import (
	"github.com/gin-gonic/gin"

	"assettrack/internal/domain/report"
)

// ReportHandler serves the daily summary endpoint.
type ReportHandler struct {
	*BaseHandler
	reports *report.Service
}

// NewReportHandler creates a report handler.
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{BaseHandler: NewBaseHandler(), reports: reports}
}

// Daily handles GET /api/reports/daily?date=YYYY-MM-DD.
// Missing date defaults to the current civil date.
func (h *ReportHandler) Daily(c *gin.Context) {
	daily, err := h.reports.Daily(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, daily)
}
