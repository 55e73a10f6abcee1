package handlers

import (
	"net/http"

	"traindesk/internal/common"
	"traindesk/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers serves generated usage exports
type ReportHandlers struct {
	reportSvc services.ReportService
}

// NewReportHandlers creates a new report handlers instance
func NewReportHandlers(reportSvc services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportSvc: reportSvc}
}

// LicenseUsage generates the license usage CSV for a school and returns a
// time-limited download URL.
func (h *ReportHandlers) LicenseUsage(c echo.Context) error {
	companyID, err := common.ParseIDParam(c.QueryParam("company_id"), "company_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	url, err := h.reportSvc.LicenseUsageReport(c.Request().Context(), companyID)
	if err != nil {
		return common.SendServerError(c, "Failed to generate license usage report")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"company_id":   companyID,
		"download_url": url,
	})
}
