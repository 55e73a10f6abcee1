package moodle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"traindesk/internal/config"
	"traindesk/internal/models"
)

// API is the web-service surface the rest of the application depends on.
// Implemented by Client against a live Moodle/IOMAD instance and by mocks in
// tests.
type API interface {
	// License registry
	GetLicenses(ctx context.Context, companyID int64) ([]models.License, error)
	CreateLicense(ctx context.Context, license *models.License) (int64, error)
	AllocateLicense(ctx context.Context, licenseID, userID, courseID int64) error

	// Enrollment
	EnrolUser(ctx context.Context, roleID, userID, courseID int64) error
	EnrolledUsers(ctx context.Context, courseID int64) ([]models.EnrolledUser, error)

	// Catalog and roles
	Courses(ctx context.Context) ([]models.Course, error)
	CourseByID(ctx context.Context, courseID int64) (*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	Companies(ctx context.Context) ([]models.School, error)
	AssignCourseRole(ctx context.Context, roleID, userID, courseID int64) error
	UnassignCourseRole(ctx context.Context, roleID, userID, courseID int64) error
}

// APIError is an error object the LMS embeds in an HTTP 200 body. Presence of
// one is a failure regardless of status code.
type APIError struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
	DebugInfo string `json:"debuginfo,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("moodle error %s: %s", e.ErrorCode, e.Message)
}

// Client handles REST communication with the Moodle web service endpoint.
// Every function goes through the single server.php endpoint, selected by the
// wsfunction parameter and authenticated by a token parameter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Moodle REST API client
func NewClient(cfg *config.MoodleConfig) *Client {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Calls.TimeoutSeconds) * time.Second,
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.Moodle.BaseURL, "/"),
		token:      cfg.Moodle.Token,
		httpClient: httpClient,
	}
}

// call performs one web-service function call and decodes the response into
// out (which may be nil for functions that return null).
func (c *Client) call(ctx context.Context, wsfunction string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("wstoken", c.token)
	params.Set("wsfunction", wsfunction)
	params.Set("moodlewsrestformat", "json")

	endpoint := c.baseURL + "/webservice/rest/server.php"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s: %w", wsfunction, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", wsfunction, resp.StatusCode, string(body))
	}

	if apiErr := embeddedError(body); apiErr != nil {
		return apiErr
	}

	if out != nil {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || string(trimmed) == "null" {
			return nil
		}
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", wsfunction, err)
		}
	}

	return nil
}

// embeddedError detects the exception object Moodle returns with HTTP 200.
func embeddedError(body []byte) *APIError {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(trimmed, &apiErr); err != nil {
		return nil
	}
	if apiErr.Exception == "" && apiErr.ErrorCode == "" {
		return nil
	}
	if apiErr.ErrorCode == "" {
		apiErr.ErrorCode = apiErr.Exception
	}
	return &apiErr
}
