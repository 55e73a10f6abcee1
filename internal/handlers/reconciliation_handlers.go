package handlers

import (
	"net/http"

	"traindesk/internal/common"
	"traindesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReconciliationHandlers exposes the seat-leak queue to the dashboard
type ReconciliationHandlers struct {
	reconRepo repositories.ReconciliationRepository
}

// NewReconciliationHandlers creates a new reconciliation handlers instance
func NewReconciliationHandlers(reconRepo repositories.ReconciliationRepository) *ReconciliationHandlers {
	return &ReconciliationHandlers{reconRepo: reconRepo}
}

// ListOpen returns unresolved seat-consumed-without-enrollment incidents.
func (h *ReconciliationHandlers) ListOpen(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := common.ValidatePaginationParams(intQuery(c, "limit"), intQuery(c, "offset"))

	recs, err := h.reconRepo.ListOpen(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list reconciliations")
	}
	count, err := h.reconRepo.CountOpen(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to count reconciliations")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reconciliations": recs,
		"open_total":      count,
		"limit":           limit,
		"offset":          offset,
	})
}

// Resolve marks one incident as manually handled.
func (h *ReconciliationHandlers) Resolve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "reconciliation id must be a UUID")
	}

	if err := h.reconRepo.Resolve(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to resolve reconciliation")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":       id,
		"resolved": true,
	})
}
