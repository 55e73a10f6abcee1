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

// LicenseStatus classifies the result of a license lookup so callers can
// report why an assignment cannot proceed, not just that it cannot.
type LicenseStatus int

const (
	LicenseUsable LicenseStatus = iota
	LicenseNotFound
	LicenseExpired
	LicenseExhausted
)

func (s LicenseStatus) String() string {
	switch s {
	case LicenseUsable:
		return "usable"
	case LicenseNotFound:
		return "not_found"
	case LicenseExpired:
		return "expired"
	case LicenseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

const licenseCacheTTL = 2 * time.Minute

// LicenseService handles license lookup and seat allocation against the LMS
// registry. The registry owns the counts; this service never adjusts them
// locally.
type LicenseService interface {
	Resolve(ctx context.Context, companyID, courseID int64) (*models.License, LicenseStatus, error)
	AllocateSeat(ctx context.Context, companyID, licenseID, userID, courseID int64) error
	CreateForSchool(ctx context.Context, companyID, courseID int64, allocation int, expiry int64) (*models.License, error)
	ListForCompany(ctx context.Context, companyID int64) ([]models.License, error)
}

type licenseService struct {
	api      moodle.API
	cacheSvc caching.CacheService
}

// NewLicenseService creates a new LicenseService instance
func NewLicenseService(api moodle.API, cacheSvc caching.CacheService) LicenseService {
	return &licenseService{
		api:      api,
		cacheSvc: cacheSvc,
	}
}

// ListForCompany returns the company's licenses, served from cache when warm.
func (s *licenseService) ListForCompany(ctx context.Context, companyID int64) ([]models.License, error) {
	if cached, err := s.cacheSvc.GetCompanyLicenses(ctx, companyID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("License cache read failed for company %d: %v", companyID, err)
	}

	licenses, err := s.api.GetLicenses(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch licenses for company %d: %w", companyID, err)
	}

	if err := s.cacheSvc.SetCompanyLicenses(ctx, companyID, licenses, licenseCacheTTL); err != nil {
		log.Printf("License cache write failed for company %d: %v", companyID, err)
	}

	return licenses, nil
}

// Resolve finds the license applicable to (companyID, courseID). Among usable
// candidates the one with the most seats remaining wins, spreading usage
// across license records. When no candidate is usable the first scope match
// is still returned so the caller can report expired vs. exhausted instead
// of a bare not-found.
func (s *licenseService) Resolve(ctx context.Context, companyID, courseID int64) (*models.License, LicenseStatus, error) {
	licenses, err := s.ListForCompany(ctx, companyID)
	if err != nil {
		return nil, LicenseNotFound, err
	}

	var scoped []models.License
	for _, lic := range licenses {
		if lic.ScopeMatches(courseID) {
			scoped = append(scoped, lic)
		}
	}
	if len(scoped) == 0 {
		return nil, LicenseNotFound, nil
	}

	now := time.Now()
	var best *models.License
	for i := range scoped {
		if !scoped[i].Usable(now) {
			continue
		}
		if best == nil || scoped[i].Available() > best.Available() {
			best = &scoped[i]
		}
	}
	if best != nil {
		return best, LicenseUsable, nil
	}

	fallback := &scoped[0]
	if fallback.Expired(now) {
		return fallback, LicenseExpired, nil
	}
	return fallback, LicenseExhausted, nil
}

// AllocateSeat consumes one seat on a license. The call is not idempotent:
// the registry increments the used count on every accepted call. Any failure
// here must stop the caller from enrolling.
func (s *licenseService) AllocateSeat(ctx context.Context, companyID, licenseID, userID, courseID int64) error {
	if err := s.api.AllocateLicense(ctx, licenseID, userID, courseID); err != nil {
		return fmt.Errorf("failed to allocate seat on license %d: %w", licenseID, err)
	}

	// The cached used count is stale now.
	if err := s.cacheSvc.InvalidateCompanyLicenses(ctx, companyID); err != nil {
		log.Printf("License cache invalidation failed for company %d: %v", companyID, err)
	}

	return nil
}

// CreateForSchool creates a license granting a school access to a course.
// The legacy name pattern is kept so older registry consumers can still
// discover the scope.
func (s *licenseService) CreateForSchool(ctx context.Context, companyID, courseID int64, allocation int, expiry int64) (*models.License, error) {
	if allocation <= 0 {
		return nil, fmt.Errorf("allocation must be positive")
	}

	license := &models.License{
		Name:       fmt.Sprintf("License for course %d in school %d", courseID, companyID),
		CompanyID:  companyID,
		CourseID:   courseID,
		Allocation: allocation,
		Expiry:     expiry,
	}

	id, err := s.api.CreateLicense(ctx, license)
	if err != nil {
		return nil, fmt.Errorf("failed to create license: %w", err)
	}
	license.ID = id

	if err := s.cacheSvc.InvalidateCompanyLicenses(ctx, companyID); err != nil {
		log.Printf("License cache invalidation failed for company %d: %v", companyID, err)
	}

	return license, nil
}
