package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is one enrollment request for a single (user, course) pair.
// It only lives for the duration of one orchestration call.
type Assignment struct {
	UserID    int64 `json:"user_id" validate:"required"`
	CourseID  int64 `json:"course_id" validate:"required"`
	CompanyID int64 `json:"company_id" validate:"required"`
	RoleID    int64 `json:"role_id"` // defaults to the student role when zero
}

// AssignmentRecord is the persisted audit row for one terminal assignment
// outcome.
type AssignmentRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CourseID  int64     `json:"course_id" db:"course_id"`
	CompanyID int64     `json:"company_id" db:"company_id"`
	LicenseID int64     `json:"license_id" db:"license_id"`
	Outcome   string    `json:"outcome" db:"outcome"`
	Detail    string    `json:"detail" db:"detail"`
	// Actor is the dashboard admin (JWT subject) who triggered the
	// assignment; empty for unauthenticated or internal callers.
	Actor     string    `json:"actor" db:"actor"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Reconciliation is a seat-consumed-but-not-enrolled incident awaiting manual
// resolution. These represent billed seats without course access and are
// surfaced separately from ordinary failures.
type Reconciliation struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	CourseID   int64      `json:"course_id" db:"course_id"`
	CompanyID  int64      `json:"company_id" db:"company_id"`
	LicenseID  int64      `json:"license_id" db:"license_id"`
	Reason     string     `json:"reason" db:"reason"`
	Resolved   bool       `json:"resolved" db:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at" db:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
