package services

import (
	"context"
	"fmt"
	"log"

	"traindesk/internal/caching"
	"traindesk/internal/models"
	"traindesk/internal/moodle"
)

// SchoolService lists the schools (IOMAD companies) licenses are scoped to.
type SchoolService interface {
	List(ctx context.Context) ([]models.School, error)
	GetByID(ctx context.Context, schoolID int64) (*models.School, error)
}

type schoolService struct {
	api      moodle.API
	cacheSvc caching.CacheService
}

// NewSchoolService creates a new SchoolService instance
func NewSchoolService(api moodle.API, cacheSvc caching.CacheService) SchoolService {
	return &schoolService{
		api:      api,
		cacheSvc: cacheSvc,
	}
}

func (s *schoolService) List(ctx context.Context) ([]models.School, error) {
	if cached, err := s.cacheSvc.GetSchools(ctx); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("School cache read failed: %v", err)
	}

	schools, err := s.api.Companies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schools: %w", err)
	}

	if err := s.cacheSvc.SetSchools(ctx, schools, catalogCacheTTL); err != nil {
		log.Printf("School cache write failed: %v", err)
	}

	return schools, nil
}

func (s *schoolService) GetByID(ctx context.Context, schoolID int64) (*models.School, error) {
	schools, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range schools {
		if schools[i].ID == schoolID {
			return &schools[i], nil
		}
	}
	return nil, fmt.Errorf("school %d not found", schoolID)
}
