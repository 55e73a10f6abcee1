package moodle

import (
	"context"
	"net/url"
	"strconv"

	"traindesk/internal/models"
)

// EnrolUser grants a user access to a course's content with the given role.
// Licensing bookkeeping is separate; this only commits the enrollment.
func (c *Client) EnrolUser(ctx context.Context, roleID, userID, courseID int64) error {
	params := url.Values{}
	params.Set("enrolments[0][roleid]", strconv.FormatInt(roleID, 10))
	params.Set("enrolments[0][userid]", strconv.FormatInt(userID, 10))
	params.Set("enrolments[0][courseid]", strconv.FormatInt(courseID, 10))

	return c.call(ctx, "enrol_manual_enrol_users", params, nil)
}

// EnrolledUsers returns the users currently enrolled in a course, with their
// course-level roles.
func (c *Client) EnrolledUsers(ctx context.Context, courseID int64) ([]models.EnrolledUser, error) {
	params := url.Values{}
	params.Set("courseid", strconv.FormatInt(courseID, 10))

	var users []models.EnrolledUser
	if err := c.call(ctx, "core_enrol_get_enrolled_users", params, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AssignCourseRole assigns a role to a user in a course context.
func (c *Client) AssignCourseRole(ctx context.Context, roleID, userID, courseID int64) error {
	params := url.Values{}
	params.Set("assignments[0][roleid]", strconv.FormatInt(roleID, 10))
	params.Set("assignments[0][userid]", strconv.FormatInt(userID, 10))
	params.Set("assignments[0][contextlevel]", "course")
	params.Set("assignments[0][instanceid]", strconv.FormatInt(courseID, 10))

	return c.call(ctx, "core_role_assign_roles", params, nil)
}

// UnassignCourseRole removes a role from a user in a course context.
func (c *Client) UnassignCourseRole(ctx context.Context, roleID, userID, courseID int64) error {
	params := url.Values{}
	params.Set("unassignments[0][roleid]", strconv.FormatInt(roleID, 10))
	params.Set("unassignments[0][userid]", strconv.FormatInt(userID, 10))
	params.Set("unassignments[0][contextlevel]", "course")
	params.Set("unassignments[0][instanceid]", strconv.FormatInt(courseID, 10))

	return c.call(ctx, "core_role_unassign_roles", params, nil)
}
