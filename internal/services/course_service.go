package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"traindesk/internal/caching"
	"traindesk/internal/models"
	"traindesk/internal/moodle"
)

const catalogCacheTTL = 10 * time.Minute

// CourseService exposes the course catalog and content-management operations
// backing the admin screens.
type CourseService interface {
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, courseID int64) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	RefreshCache(ctx context.Context) error
}

type courseService struct {
	api      moodle.API
	cacheSvc caching.CacheService
}

// NewCourseService creates a new CourseService instance
func NewCourseService(api moodle.API, cacheSvc caching.CacheService) CourseService {
	return &courseService{
		api:      api,
		cacheSvc: cacheSvc,
	}
}

func (s *courseService) List(ctx context.Context) ([]models.Course, error) {
	if cached, err := s.cacheSvc.GetCourses(ctx); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Course cache read failed: %v", err)
	}

	courses, err := s.api.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	if err := s.cacheSvc.SetCourses(ctx, courses, catalogCacheTTL); err != nil {
		log.Printf("Course cache write failed: %v", err)
	}

	return courses, nil
}

func (s *courseService) GetByID(ctx context.Context, courseID int64) (*models.Course, error) {
	return s.api.CourseByID(ctx, courseID)
}

func (s *courseService) Update(ctx context.Context, course *models.Course) error {
	if course.ID == 0 {
		return fmt.Errorf("course id is required")
	}
	if err := s.api.UpdateCourse(ctx, course); err != nil {
		return fmt.Errorf("failed to update course %d: %w", course.ID, err)
	}

	// Stale catalog entries would show the old names on the next load.
	if err := s.cacheSvc.Delete(ctx, "traindesk:courses"); err != nil {
		log.Printf("Course cache invalidation failed: %v", err)
	}
	return nil
}

// RefreshCache repopulates the catalog cache; used by the background job.
func (s *courseService) RefreshCache(ctx context.Context) error {
	courses, err := s.api.Courses(ctx)
	if err != nil {
		return err
	}
	return s.cacheSvc.SetCourses(ctx, courses, catalogCacheTTL)
}
