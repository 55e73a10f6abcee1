package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"traindesk/internal/caching"
	"traindesk/internal/common"
	"traindesk/internal/models"
	"traindesk/internal/repositories"
)

// ErrAssignmentInFlight reports that an assignment for the same
// (user, course) pair is already running. The duplicate is rejected before
// any registry call because seat allocation is not idempotent.
var ErrAssignmentInFlight = errors.New("assignment for this user and course is already in progress")

// AssignmentOutcome is the terminal state of one assignment attempt.
type AssignmentOutcome string

const (
	// OutcomeComplete: seat allocated and enrollment committed.
	OutcomeComplete AssignmentOutcome = "complete"
	// OutcomeAlreadyEnrolled: the user already had access; normalized to a
	// success-class outcome.
	OutcomeAlreadyEnrolled AssignmentOutcome = "already_enrolled"
	// OutcomePreconditionFailed: no usable license; nothing was mutated.
	OutcomePreconditionFailed AssignmentOutcome = "precondition_failed"
	// OutcomeSeatReservationFailed: the allocator call failed; enrollment
	// was never attempted and no rollback is needed.
	OutcomeSeatReservationFailed AssignmentOutcome = "seat_reservation_failed"
	// OutcomeInconsistent: a seat was consumed but enrollment failed. The
	// seat stays consumed (the registry already counted it) and the incident
	// goes to the reconciliation queue for manual handling.
	OutcomeInconsistent AssignmentOutcome = "inconsistent"
)

// AssignmentResult is the discriminated outcome of one assignment attempt.
type AssignmentResult struct {
	Outcome        AssignmentOutcome `json:"outcome"`
	LicenseID      int64             `json:"license_id,omitempty"`
	LicenseStatus  string            `json:"license_status,omitempty"`
	SeatsRemaining int               `json:"seats_remaining"`
	Detail         string            `json:"detail,omitempty"`
}

// Success reports whether the outcome grants the user course access.
func (r *AssignmentResult) Success() bool {
	return r.Outcome == OutcomeComplete || r.Outcome == OutcomeAlreadyEnrolled
}

// BulkAssignmentItem pairs one assignment request with its result.
type BulkAssignmentItem struct {
	Assignment models.Assignment `json:"assignment"`
	Result     *AssignmentResult `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

const assignmentLockTTL = 2 * time.Minute

// AssignmentService orchestrates seat allocation followed by enrollment for
// single (user, course) pairs. Steps are strictly sequential, there are no
// automatic retries, and the registry remains the sole arbiter of seat
// counts.
type AssignmentService interface {
	Assign(ctx context.Context, assignment models.Assignment) (*AssignmentResult, error)
	AssignBulk(ctx context.Context, assignments []models.Assignment) []BulkAssignmentItem
}

type assignmentService struct {
	licenseSvc    LicenseService
	enrollmentSvc EnrollmentService
	cacheSvc      caching.CacheService
	auditRepo     repositories.AssignmentAuditRepository
	reconRepo     repositories.ReconciliationRepository
	studentRoleID int64
}

// NewAssignmentService creates a new AssignmentService instance
func NewAssignmentService(
	licenseSvc LicenseService,
	enrollmentSvc EnrollmentService,
	cacheSvc caching.CacheService,
	auditRepo repositories.AssignmentAuditRepository,
	reconRepo repositories.ReconciliationRepository,
	studentRoleID int64,
) AssignmentService {
	return &assignmentService{
		licenseSvc:    licenseSvc,
		enrollmentSvc: enrollmentSvc,
		cacheSvc:      cacheSvc,
		auditRepo:     auditRepo,
		reconRepo:     reconRepo,
		studentRoleID: studentRoleID,
	}
}

// Assign runs one seat-gated enrollment: resolve license, allocate a seat,
// commit enrollment. A failure before the seat is consumed leaves nothing to
// undo; a failure after it is a distinct inconsistent terminal state.
func (s *assignmentService) Assign(ctx context.Context, assignment models.Assignment) (*AssignmentResult, error) {
	if assignment.UserID == 0 || assignment.CourseID == 0 || assignment.CompanyID == 0 {
		return nil, fmt.Errorf("user_id, course_id and company_id are required")
	}
	if assignment.RoleID == 0 {
		assignment.RoleID = s.studentRoleID
	}

	acquired, err := s.cacheSvc.AcquireAssignmentLock(ctx, assignment.UserID, assignment.CourseID, assignmentLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire assignment guard: %w", err)
	}
	if !acquired {
		return nil, ErrAssignmentInFlight
	}
	defer func() {
		if err := s.cacheSvc.ReleaseAssignmentLock(context.WithoutCancel(ctx), assignment.UserID, assignment.CourseID); err != nil {
			log.Printf("Failed to release assignment guard for user %d course %d: %v", assignment.UserID, assignment.CourseID, err)
		}
	}()

	license, status, err := s.licenseSvc.Resolve(ctx, assignment.CompanyID, assignment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("license lookup failed: %w", err)
	}

	if status != LicenseUsable {
		result := &AssignmentResult{
			Outcome:       OutcomePreconditionFailed,
			LicenseStatus: status.String(),
			Detail:        fmt.Sprintf("no usable license for course %d in school %d: %s", assignment.CourseID, assignment.CompanyID, status),
		}
		if license != nil {
			result.LicenseID = license.ID
			result.SeatsRemaining = license.Available()
		}
		s.record(ctx, assignment, result)
		return result, nil
	}

	seatsBefore := license.Available()

	if err := s.licenseSvc.AllocateSeat(ctx, assignment.CompanyID, license.ID, assignment.UserID, assignment.CourseID); err != nil {
		// Nothing was mutated as far as we know; enrollment must not run.
		result := &AssignmentResult{
			Outcome:        OutcomeSeatReservationFailed,
			LicenseID:      license.ID,
			LicenseStatus:  status.String(),
			SeatsRemaining: seatsBefore,
			Detail:         err.Error(),
		}
		s.record(ctx, assignment, result)
		return result, nil
	}

	seatsAfter := seatsBefore - 1
	if seatsAfter < 0 {
		seatsAfter = 0
	}

	err = s.enrollmentSvc.Enroll(ctx, assignment.RoleID, assignment.UserID, assignment.CourseID)
	switch {
	case err == nil:
		result := &AssignmentResult{
			Outcome:        OutcomeComplete,
			LicenseID:      license.ID,
			SeatsRemaining: seatsAfter,
		}
		s.record(ctx, assignment, result)
		return result, nil

	case errors.Is(err, ErrAlreadyEnrolled):
		result := &AssignmentResult{
			Outcome:        OutcomeAlreadyEnrolled,
			LicenseID:      license.ID,
			SeatsRemaining: seatsAfter,
			Detail:         "user already had access; seat allocation stands",
		}
		s.record(ctx, assignment, result)
		return result, nil

	default:
		// The seat was consumed but access was not granted. Do not roll the
		// counter back: the registry's used count was in fact incremented.
		result := &AssignmentResult{
			Outcome:        OutcomeInconsistent,
			LicenseID:      license.ID,
			SeatsRemaining: seatsAfter,
			Detail:         err.Error(),
		}
		s.record(ctx, assignment, result)
		s.enqueueReconciliation(ctx, assignment, license.ID, err)
		return result, nil
	}
}

// AssignBulk processes pairs one after another. There is no atomicity or
// ordering guarantee across pairs; each entry carries its own outcome.
func (s *assignmentService) AssignBulk(ctx context.Context, assignments []models.Assignment) []BulkAssignmentItem {
	items := make([]BulkAssignmentItem, 0, len(assignments))
	for _, assignment := range assignments {
		item := BulkAssignmentItem{Assignment: assignment}
		result, err := s.Assign(ctx, assignment)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Result = result
		}
		items = append(items, item)
	}
	return items
}

// record writes the audit row for a terminal outcome. Audit failures are
// logged, not propagated; the assignment outcome already happened.
func (s *assignmentService) record(ctx context.Context, assignment models.Assignment, result *AssignmentResult) {
	actor, _ := common.GetUserIDFromContext(ctx)
	record := &models.AssignmentRecord{
		UserID:    assignment.UserID,
		CourseID:  assignment.CourseID,
		CompanyID: assignment.CompanyID,
		LicenseID: result.LicenseID,
		Outcome:   string(result.Outcome),
		Detail:    result.Detail,
		Actor:     actor,
	}
	if err := s.auditRepo.Create(ctx, record); err != nil {
		log.Printf("Failed to write assignment audit for user %d course %d: %v", assignment.UserID, assignment.CourseID, err)
	}
}

func (s *assignmentService) enqueueReconciliation(ctx context.Context, assignment models.Assignment, licenseID int64, cause error) {
	rec := &models.Reconciliation{
		UserID:    assignment.UserID,
		CourseID:  assignment.CourseID,
		CompanyID: assignment.CompanyID,
		LicenseID: licenseID,
		Reason:    cause.Error(),
	}
	if err := s.reconRepo.Create(ctx, rec); err != nil {
		log.Printf("CRITICAL: seat consumed without enrollment for user %d course %d license %d, and the reconciliation row could not be written: %v",
			assignment.UserID, assignment.CourseID, licenseID, err)
	}
}
