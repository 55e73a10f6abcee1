package moodle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"traindesk/internal/config"
	"traindesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.MoodleConfig{}
	cfg.Moodle.BaseURL = server.URL
	cfg.Moodle.Token = "testtoken"
	cfg.Calls.TimeoutSeconds = 5

	return NewClient(cfg), server
}

func TestClient_CallWiring(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webservice/rest/server.php", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "testtoken", r.PostFormValue("wstoken"))
		assert.Equal(t, "block_iomad_company_admin_get_license_info", r.PostFormValue("wsfunction"))
		assert.Equal(t, "json", r.PostFormValue("moodlewsrestformat"))
		assert.Equal(t, "7", r.PostFormValue("companyid"))

		fmt.Fprint(w, `[]`)
	})

	licenses, err := client.GetLicenses(context.Background(), 7)
	assert.NoError(t, err)
	assert.Empty(t, licenses)
}

func TestClient_GetLicenses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "name": "Science license", "allocation": 10, "used": 4, "expirydate": 1893456000, "companyid": 7, "courseid": 42},
			{"id": 2, "name": "License for course 99 in school 7", "allocation": 5, "used": 0, "expirydate": 0}
		]`)
	})

	licenses, err := client.GetLicenses(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, licenses, 2)

	assert.Equal(t, int64(42), licenses[0].CourseID)
	assert.Equal(t, int64(1893456000), licenses[0].Expiry)

	// Legacy record: company defaults to the queried company, course comes
	// from the name pattern.
	assert.Equal(t, int64(7), licenses[1].CompanyID)
	assert.Equal(t, int64(99), licenses[1].CourseID)
	assert.Equal(t, int64(0), licenses[1].Expiry)
}

func TestClient_EmbeddedExceptionOn200(t *testing.T) {
	// Moodle reports failures as an exception object with HTTP 200; the
	// client must surface them as errors.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"exception": "moodle_exception", "errorcode": "invalidtoken", "message": "Invalid token - token not found"}`)
	})

	_, err := client.GetLicenses(context.Background(), 7)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalidtoken", apiErr.ErrorCode)
	assert.Contains(t, apiErr.Message, "Invalid token")
}

func TestClient_NonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetLicenses(context.Background(), 7)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_AllocateLicense(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "block_iomad_company_admin_allocate_licenses", r.PostFormValue("wsfunction"))
		assert.Equal(t, "2", r.PostFormValue("licenses[0][licenseid]"))
		assert.Equal(t, "101", r.PostFormValue("licenses[0][licenseuserid]"))
		assert.Equal(t, "42", r.PostFormValue("licenses[0][licensecourseid]"))

		// Allocation returns null on success.
		fmt.Fprint(w, `null`)
	})

	err := client.AllocateLicense(context.Background(), 2, 101, 42)
	assert.NoError(t, err)
}

func TestClient_CreateLicense(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "block_iomad_company_admin_create_licenses", r.PostFormValue("wsfunction"))
		assert.Equal(t, "License for course 42 in school 7", r.PostFormValue("licenses[0][name]"))
		assert.Equal(t, "42", r.PostFormValue("licenses[0][courses][0][courseid]"))

		fmt.Fprint(w, `[{"id": 11}]`)
	})

	license := &models.License{
		Name:       "License for course 42 in school 7",
		CompanyID:  7,
		CourseID:   42,
		Allocation: 25,
		Expiry:     1893456000,
	}
	id, err := client.CreateLicense(context.Background(), license)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestClient_EnrolUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "enrol_manual_enrol_users", r.PostFormValue("wsfunction"))
		assert.Equal(t, "5", r.PostFormValue("enrolments[0][roleid]"))
		assert.Equal(t, "101", r.PostFormValue("enrolments[0][userid]"))
		assert.Equal(t, "42", r.PostFormValue("enrolments[0][courseid]"))

		fmt.Fprint(w, `null`)
	})

	err := client.EnrolUser(context.Background(), 5, 101, 42)
	assert.NoError(t, err)
}

func TestClient_EnrolledUsers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "core_enrol_get_enrolled_users", r.PostFormValue("wsfunction"))

		fmt.Fprint(w, `[
			{"id": 101, "username": "jane.doe", "roles": [{"roleid": 5, "shortname": "student"}]},
			{"id": 9, "username": "lead.trainer", "roles": [{"roleid": 3, "shortname": "editingteacher"}]}
		]`)
	})

	users, err := client.EnrolledUsers(context.Background(), 42)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(5), users[0].Roles[0].ID)
	assert.Equal(t, "editingteacher", users[1].Roles[0].ShortName)
}
