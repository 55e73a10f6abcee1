package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"traindesk/internal/models"
	"traindesk/internal/moodle"
)

// ErrAlreadyEnrolled reports that the user already has access to the course.
// Callers treat it as success, not failure.
var ErrAlreadyEnrolled = errors.New("user is already enrolled in the course")

// EnrollmentService commits course access grants in the LMS, independent of
// license bookkeeping.
type EnrollmentService interface {
	Enroll(ctx context.Context, roleID, userID, courseID int64) error
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
	EnrolledUsers(ctx context.Context, courseID int64) ([]models.EnrolledUser, error)
}

type enrollmentService struct {
	api moodle.API
}

// NewEnrollmentService creates a new EnrollmentService instance
func NewEnrollmentService(api moodle.API) EnrollmentService {
	return &enrollmentService{api: api}
}

// Enroll grants the user access to the course. The LMS reports re-enrollment
// of an existing member with an error whose message does not say so clearly,
// so on any enrollment failure the current state is verified before the
// error is propagated: if the user turns out to be enrolled, the result is
// ErrAlreadyEnrolled.
func (s *enrollmentService) Enroll(ctx context.Context, roleID, userID, courseID int64) error {
	err := s.api.EnrolUser(ctx, roleID, userID, courseID)
	if err == nil {
		return nil
	}

	enrolled, checkErr := s.IsEnrolled(ctx, userID, courseID)
	if checkErr != nil {
		log.Printf("Enrollment verification failed for user %d course %d: %v", userID, courseID, checkErr)
		return fmt.Errorf("failed to enroll user %d in course %d: %w", userID, courseID, err)
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	return fmt.Errorf("failed to enroll user %d in course %d: %w", userID, courseID, err)
}

// IsEnrolled reports whether the user currently appears in the course's
// enrolled-users list.
func (s *enrollmentService) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	users, err := s.api.EnrolledUsers(ctx, courseID)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

// EnrolledUsers returns the assigned-users view for a course.
func (s *enrollmentService) EnrolledUsers(ctx context.Context, courseID int64) ([]models.EnrolledUser, error) {
	return s.api.EnrolledUsers(ctx, courseID)
}
