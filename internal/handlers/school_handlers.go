package handlers

import (
	"net/http"

	"traindesk/internal/common"
	"traindesk/internal/services"

	"github.com/labstack/echo/v4"
)

// SchoolHandlers handles school listing and license management requests
type SchoolHandlers struct {
	schoolSvc  services.SchoolService
	licenseSvc services.LicenseService
}

// NewSchoolHandlers creates a new school handlers instance
func NewSchoolHandlers(schoolSvc services.SchoolService, licenseSvc services.LicenseService) *SchoolHandlers {
	return &SchoolHandlers{
		schoolSvc:  schoolSvc,
		licenseSvc: licenseSvc,
	}
}

// ListSchools returns all schools.
func (h *SchoolHandlers) ListSchools(c echo.Context) error {
	schools, err := h.schoolSvc.List(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list schools")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"schools": schools,
	})
}

// ListSchoolLicenses returns the license records for one school.
func (h *SchoolHandlers) ListSchoolLicenses(c echo.Context) error {
	schoolID, err := common.ParseIDParam(c.Param("id"), "school id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	licenses, err := h.licenseSvc.ListForCompany(c.Request().Context(), schoolID)
	if err != nil {
		return common.SendServerError(c, "Failed to list licenses")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"school_id": schoolID,
		"licenses":  licenses,
	})
}

// AssignCourseRequest represents the assign-course-to-school payload
type AssignCourseRequest struct {
	CourseID   int64 `json:"course_id" validate:"required"`
	Allocation int   `json:"allocation" validate:"required,min=1"`
	Expiry     int64 `json:"expiry"` // unix seconds; zero is rejected (the registry treats it as already expired)
}

// AssignCourse grants a school access to a course by creating a license.
func (h *SchoolHandlers) AssignCourse(c echo.Context) error {
	schoolID, err := common.ParseIDParam(c.Param("id"), "school id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req AssignCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.CourseID <= 0 {
		return common.SendValidationError(c, "course_id", "must be positive")
	}
	if req.Allocation <= 0 {
		return common.SendValidationError(c, "allocation", "must be positive")
	}
	if req.Expiry <= 0 {
		return common.SendValidationError(c, "expiry", "must be a future unix timestamp; the registry treats zero as already expired")
	}

	license, err := h.licenseSvc.CreateForSchool(c.Request().Context(), schoolID, req.CourseID, req.Allocation, req.Expiry)
	if err != nil {
		return common.SendServerError(c, "Failed to create license")
	}
	return c.JSON(http.StatusCreated, license)
}

// ResolveLicense reports which license an assignment for the given scope
// would draw from, and why it is or is not usable.
func (h *SchoolHandlers) ResolveLicense(c echo.Context) error {
	companyID, err := common.ParseIDParam(c.QueryParam("company_id"), "company_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	courseID, err := common.ParseIDParam(c.QueryParam("course_id"), "course_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	license, status, err := h.licenseSvc.Resolve(c.Request().Context(), companyID, courseID)
	if err != nil {
		return common.SendServerError(c, "License lookup failed")
	}

	resp := map[string]interface{}{
		"status": status.String(),
	}
	if license != nil {
		resp["license"] = license
		resp["available"] = license.Available()
	}
	return c.JSON(http.StatusOK, resp)
}
