package handlers

import (
	"net/http"
	"strconv"

	"traindesk/internal/common"
	"traindesk/internal/models"
	"traindesk/internal/services"

	"github.com/labstack/echo/v4"
)

// CourseHandlers handles course catalog and content management requests
type CourseHandlers struct {
	courseSvc     services.CourseService
	enrollmentSvc services.EnrollmentService
}

// NewCourseHandlers creates a new course handlers instance
func NewCourseHandlers(courseSvc services.CourseService, enrollmentSvc services.EnrollmentService) *CourseHandlers {
	return &CourseHandlers{
		courseSvc:     courseSvc,
		enrollmentSvc: enrollmentSvc,
	}
}

// ListCourses returns the course catalog.
func (h *CourseHandlers) ListCourses(c echo.Context) error {
	courses, err := h.courseSvc.List(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list courses")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"courses": courses,
	})
}

// GetCourse returns one course by id.
func (h *CourseHandlers) GetCourse(c echo.Context) error {
	courseID, err := common.ParseIDParam(c.Param("id"), "course id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	course, err := h.courseSvc.GetByID(c.Request().Context(), courseID)
	if err != nil {
		return common.SendNotFoundError(c, "Course")
	}
	return c.JSON(http.StatusOK, course)
}

// UpdateCourseRequest represents the course update payload
type UpdateCourseRequest struct {
	FullName  string `json:"fullname"`
	ShortName string `json:"shortname"`
	Summary   string `json:"summary"`
}

// UpdateCourse updates course metadata in the LMS.
func (h *CourseHandlers) UpdateCourse(c echo.Context) error {
	courseID, err := common.ParseIDParam(c.Param("id"), "course id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.FullName == "" && req.ShortName == "" && req.Summary == "" {
		return common.SendValidationError(c, "course", "nothing to update")
	}

	course := &models.Course{
		ID:        courseID,
		FullName:  req.FullName,
		ShortName: req.ShortName,
		Summary:   req.Summary,
	}
	if err := h.courseSvc.Update(c.Request().Context(), course); err != nil {
		return common.SendServerError(c, "Failed to update course")
	}
	return c.JSON(http.StatusOK, course)
}

// ListEnrollments returns the assigned-users view for a course.
func (h *CourseHandlers) ListEnrollments(c echo.Context) error {
	courseID, err := common.ParseIDParam(c.Param("id"), "course id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	users, err := h.enrollmentSvc.EnrolledUsers(c.Request().Context(), courseID)
	if err != nil {
		return common.SendServerError(c, "Failed to list enrollments")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"course_id":   courseID,
		"enrollments": users,
	})
}

// intQuery reads an integer query parameter, zero when absent or malformed.
func intQuery(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
