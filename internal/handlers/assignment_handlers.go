package handlers

import (
	"errors"
	"net/http"

	"traindesk/internal/common"
	"traindesk/internal/models"
	"traindesk/internal/repositories"
	"traindesk/internal/services"

	"github.com/labstack/echo/v4"
)

// AssignmentHandlers handles seat-gated enrollment requests
type AssignmentHandlers struct {
	assignmentSvc services.AssignmentService
	auditRepo     repositories.AssignmentAuditRepository
}

// NewAssignmentHandlers creates a new assignment handlers instance
func NewAssignmentHandlers(assignmentSvc services.AssignmentService, auditRepo repositories.AssignmentAuditRepository) *AssignmentHandlers {
	return &AssignmentHandlers{
		assignmentSvc: assignmentSvc,
		auditRepo:     auditRepo,
	}
}

// CreateAssignmentRequest represents one assignment request payload
type CreateAssignmentRequest struct {
	UserID    int64 `json:"user_id" validate:"required"`
	CourseID  int64 `json:"course_id" validate:"required"`
	CompanyID int64 `json:"company_id" validate:"required"`
	RoleID    int64 `json:"role_id"`
}

// CreateAssignment runs one allocate-then-enroll orchestration and maps the
// discriminated outcome onto a status code the dashboard can categorize.
func (h *AssignmentHandlers) CreateAssignment(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.UserID <= 0 || req.CourseID <= 0 || req.CompanyID <= 0 {
		return common.SendValidationError(c, "assignment", "user_id, course_id and company_id must be positive")
	}

	result, err := h.assignmentSvc.Assign(ctx, models.Assignment{
		UserID:    req.UserID,
		CourseID:  req.CourseID,
		CompanyID: req.CompanyID,
		RoleID:    req.RoleID,
	})
	if err != nil {
		if errors.Is(err, services.ErrAssignmentInFlight) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("IN_FLIGHT", err.Error(), nil))
		}
		return common.SendServerError(c, "Assignment could not be started")
	}

	return c.JSON(statusForOutcome(result.Outcome), result)
}

// BulkAssignmentRequest represents a bulk assignment payload
type BulkAssignmentRequest struct {
	Assignments []CreateAssignmentRequest `json:"assignments" validate:"required"`
}

// CreateAssignmentsBulk processes assignments sequentially; each item in the
// response carries its own outcome. 207 signals a mixed result set.
func (h *AssignmentHandlers) CreateAssignmentsBulk(c echo.Context) error {
	ctx := c.Request().Context()

	var req BulkAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.Assignments) == 0 {
		return common.SendValidationError(c, "assignments", "at least one assignment is required")
	}
	if len(req.Assignments) > 100 {
		return common.SendValidationError(c, "assignments", "cannot process more than 100 assignments per request")
	}

	assignments := make([]models.Assignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		assignments = append(assignments, models.Assignment{
			UserID:    a.UserID,
			CourseID:  a.CourseID,
			CompanyID: a.CompanyID,
			RoleID:    a.RoleID,
		})
	}

	items := h.assignmentSvc.AssignBulk(ctx, assignments)

	allOK := true
	for _, item := range items {
		if item.Error != "" || item.Result == nil || !item.Result.Success() {
			allOK = false
			break
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, map[string]interface{}{
		"items": items,
	})
}

// ListRecentAssignments returns the audit trail of assignment outcomes.
func (h *AssignmentHandlers) ListRecentAssignments(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := common.ValidatePaginationParams(intQuery(c, "limit"), intQuery(c, "offset"))

	records, err := h.auditRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list assignment history")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"assignments": records,
		"limit":       limit,
		"offset":      offset,
	})
}

// statusForOutcome maps terminal outcomes to status codes. Inconsistent gets
// a 500 with the outcome in the body so the UI renders it loudly instead of
// as a generic retryable error.
func statusForOutcome(outcome services.AssignmentOutcome) int {
	switch outcome {
	case services.OutcomeComplete, services.OutcomeAlreadyEnrolled:
		return http.StatusOK
	case services.OutcomePreconditionFailed:
		return http.StatusConflict
	case services.OutcomeSeatReservationFailed:
		return http.StatusBadGateway
	case services.OutcomeInconsistent:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
