package moodle

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"traindesk/internal/models"
)

// courseInfo is the wire shape of one Moodle course.
type courseInfo struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullname"`
	ShortName  string `json:"shortname"`
	Summary    string `json:"summary"`
	CategoryID int64  `json:"categoryid"`
	Visible    int    `json:"visible"`
}

func (ci courseInfo) toModel() models.Course {
	return models.Course{
		ID:         ci.ID,
		FullName:   ci.FullName,
		ShortName:  ci.ShortName,
		Summary:    ci.Summary,
		CategoryID: ci.CategoryID,
		Visible:    ci.Visible != 0,
	}
}

// Courses lists the full course catalog.
func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var infos []courseInfo
	if err := c.call(ctx, "core_course_get_courses", nil, &infos); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(infos))
	for _, info := range infos {
		if info.ID == 1 {
			continue // site front page pseudo-course
		}
		courses = append(courses, info.toModel())
	}
	return courses, nil
}

// CourseByID fetches a single course.
func (c *Client) CourseByID(ctx context.Context, courseID int64) (*models.Course, error) {
	params := url.Values{}
	params.Set("field", "id")
	params.Set("value", strconv.FormatInt(courseID, 10))

	var resp struct {
		Courses []courseInfo `json:"courses"`
	}
	if err := c.call(ctx, "core_course_get_courses_by_field", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Courses) == 0 {
		return nil, fmt.Errorf("course %d not found", courseID)
	}
	course := resp.Courses[0].toModel()
	return &course, nil
}

// UpdateCourse updates course metadata (name and summary).
func (c *Client) UpdateCourse(ctx context.Context, course *models.Course) error {
	params := url.Values{}
	params.Set("courses[0][id]", strconv.FormatInt(course.ID, 10))
	if course.FullName != "" {
		params.Set("courses[0][fullname]", course.FullName)
	}
	if course.ShortName != "" {
		params.Set("courses[0][shortname]", course.ShortName)
	}
	if course.Summary != "" {
		params.Set("courses[0][summary]", course.Summary)
	}

	return c.call(ctx, "core_course_update_courses", params, nil)
}

// Companies lists the IOMAD companies (schools).
func (c *Client) Companies(ctx context.Context) ([]models.School, error) {
	var resp struct {
		Companies []struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			ShortName string `json:"shortname"`
			City      string `json:"city"`
			Country   string `json:"country"`
		} `json:"companies"`
	}
	if err := c.call(ctx, "block_iomad_company_admin_get_companies", nil, &resp); err != nil {
		return nil, err
	}

	schools := make([]models.School, 0, len(resp.Companies))
	for _, co := range resp.Companies {
		schools = append(schools, models.School{
			ID:        co.ID,
			Name:      co.Name,
			ShortName: co.ShortName,
			City:      co.City,
			Country:   co.Country,
		})
	}
	return schools, nil
}
