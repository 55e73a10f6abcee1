package services

import (
	"context"
	"time"

	"traindesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock LMS API

type MockMoodleAPI struct {
	mock.Mock
}

func (m *MockMoodleAPI) GetLicenses(ctx context.Context, companyID int64) ([]models.License, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.License), args.Error(1)
}

func (m *MockMoodleAPI) CreateLicense(ctx context.Context, license *models.License) (int64, error) {
	args := m.Called(ctx, license)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMoodleAPI) AllocateLicense(ctx context.Context, licenseID, userID, courseID int64) error {
	args := m.Called(ctx, licenseID, userID, courseID)
	return args.Error(0)
}

func (m *MockMoodleAPI) EnrolUser(ctx context.Context, roleID, userID, courseID int64) error {
	args := m.Called(ctx, roleID, userID, courseID)
	return args.Error(0)
}

func (m *MockMoodleAPI) EnrolledUsers(ctx context.Context, courseID int64) ([]models.EnrolledUser, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EnrolledUser), args.Error(1)
}

func (m *MockMoodleAPI) Courses(ctx context.Context) ([]models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *MockMoodleAPI) CourseByID(ctx context.Context, courseID int64) (*models.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockMoodleAPI) UpdateCourse(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockMoodleAPI) Companies(ctx context.Context) ([]models.School, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.School), args.Error(1)
}

func (m *MockMoodleAPI) AssignCourseRole(ctx context.Context, roleID, userID, courseID int64) error {
	args := m.Called(ctx, roleID, userID, courseID)
	return args.Error(0)
}

func (m *MockMoodleAPI) UnassignCourseRole(ctx context.Context, roleID, userID, courseID int64) error {
	args := m.Called(ctx, roleID, userID, courseID)
	return args.Error(0)
}

// Mock cache service

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetCompanyLicenses(ctx context.Context, companyID int64) ([]models.License, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.License), args.Error(1)
}

func (m *MockCacheService) SetCompanyLicenses(ctx context.Context, companyID int64, licenses []models.License, ttl time.Duration) error {
	args := m.Called(ctx, companyID, licenses, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateCompanyLicenses(ctx context.Context, companyID int64) error {
	args := m.Called(ctx, companyID)
	return args.Error(0)
}

func (m *MockCacheService) GetCourses(ctx context.Context) ([]models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *MockCacheService) SetCourses(ctx context.Context, courses []models.Course, ttl time.Duration) error {
	args := m.Called(ctx, courses, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetSchools(ctx context.Context) ([]models.School, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.School), args.Error(1)
}

func (m *MockCacheService) SetSchools(ctx context.Context, schools []models.School, ttl time.Duration) error {
	args := m.Called(ctx, schools, ttl)
	return args.Error(0)
}

func (m *MockCacheService) AcquireAssignmentLock(ctx context.Context, userID, courseID int64, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, userID, courseID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ReleaseAssignmentLock(ctx context.Context, userID, courseID int64) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Mock license service

type MockLicenseService struct {
	mock.Mock
}

func (m *MockLicenseService) Resolve(ctx context.Context, companyID, courseID int64) (*models.License, LicenseStatus, error) {
	args := m.Called(ctx, companyID, courseID)
	var lic *models.License
	if args.Get(0) != nil {
		lic = args.Get(0).(*models.License)
	}
	return lic, args.Get(1).(LicenseStatus), args.Error(2)
}

func (m *MockLicenseService) AllocateSeat(ctx context.Context, companyID, licenseID, userID, courseID int64) error {
	args := m.Called(ctx, companyID, licenseID, userID, courseID)
	return args.Error(0)
}

func (m *MockLicenseService) CreateForSchool(ctx context.Context, companyID, courseID int64, allocation int, expiry int64) (*models.License, error) {
	args := m.Called(ctx, companyID, courseID, allocation, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.License), args.Error(1)
}

func (m *MockLicenseService) ListForCompany(ctx context.Context, companyID int64) ([]models.License, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.License), args.Error(1)
}

// Mock enrollment service

type MockEnrollmentService struct {
	mock.Mock
}

func (m *MockEnrollmentService) Enroll(ctx context.Context, roleID, userID, courseID int64) error {
	args := m.Called(ctx, roleID, userID, courseID)
	return args.Error(0)
}

func (m *MockEnrollmentService) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentService) EnrolledUsers(ctx context.Context, courseID int64) ([]models.EnrolledUser, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EnrolledUser), args.Error(1)
}

// Mock course service

type MockCourseService struct {
	mock.Mock
}

func (m *MockCourseService) List(ctx context.Context) ([]models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *MockCourseService) GetByID(ctx context.Context, courseID int64) (*models.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseService) Update(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseService) RefreshCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock repositories

type MockAssignmentAuditRepo struct {
	mock.Mock
}

func (m *MockAssignmentAuditRepo) Create(ctx context.Context, record *models.AssignmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAssignmentAuditRepo) ListByCourse(ctx context.Context, courseID int64, limit, offset int) ([]*models.AssignmentRecord, error) {
	args := m.Called(ctx, courseID, limit, offset)
	return args.Get(0).([]*models.AssignmentRecord), args.Error(1)
}

func (m *MockAssignmentAuditRepo) ListRecent(ctx context.Context, limit, offset int) ([]*models.AssignmentRecord, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.AssignmentRecord), args.Error(1)
}

type MockReconciliationRepo struct {
	mock.Mock
}

func (m *MockReconciliationRepo) Create(ctx context.Context, rec *models.Reconciliation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReconciliationRepo) ListOpen(ctx context.Context, limit, offset int) ([]*models.Reconciliation, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepo) Resolve(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReconciliationRepo) CountOpen(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
