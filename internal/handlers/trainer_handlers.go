package handlers

import (
	"net/http"

	"traindesk/internal/common"
	"traindesk/internal/services"

	"github.com/labstack/echo/v4"
)

// TrainerHandlers handles trainer-to-course assignment requests
type TrainerHandlers struct {
	trainerSvc services.TrainerService
}

// NewTrainerHandlers creates a new trainer handlers instance
func NewTrainerHandlers(trainerSvc services.TrainerService) *TrainerHandlers {
	return &TrainerHandlers{trainerSvc: trainerSvc}
}

// ListTrainers returns the trainers shown for a course, including the
// global pool.
func (h *TrainerHandlers) ListTrainers(c echo.Context) error {
	courseID, err := common.ParseIDParam(c.Param("id"), "course id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	trainers, err := h.trainerSvc.ListForCourse(c.Request().Context(), courseID)
	if err != nil {
		return common.SendServerError(c, "Failed to list trainers")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"course_id": courseID,
		"trainers":  trainers,
	})
}

// AssignTrainerRequest represents the trainer assignment payload
type AssignTrainerRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// AssignTrainer gives a user the trainer role on a course.
func (h *TrainerHandlers) AssignTrainer(c echo.Context) error {
	courseID, err := common.ParseIDParam(c.Param("id"), "course id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req AssignTrainerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.UserID <= 0 {
		return common.SendValidationError(c, "user_id", "must be positive")
	}

	if err := h.trainerSvc.Assign(c.Request().Context(), courseID, req.UserID); err != nil {
		return common.SendServerError(c, "Failed to assign trainer")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"course_id": courseID,
		"user_id":   req.UserID,
	})
}

// UnassignTrainer removes the trainer role from a user on a course.
func (h *TrainerHandlers) UnassignTrainer(c echo.Context) error {
	courseID, err := common.ParseIDParam(c.Param("id"), "course id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	userID, err := common.ParseIDParam(c.Param("userId"), "user id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.trainerSvc.Unassign(c.Request().Context(), courseID, userID); err != nil {
		return common.SendServerError(c, "Failed to unassign trainer")
	}
	return c.NoContent(http.StatusNoContent)
}
