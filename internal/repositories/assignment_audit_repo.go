package repositories

import (
	"context"

	"traindesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories need. pgxmock
// satisfies it too.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type AssignmentAuditRepository interface {
	Create(ctx context.Context, record *models.AssignmentRecord) error
	ListByCourse(ctx context.Context, courseID int64, limit, offset int) ([]*models.AssignmentRecord, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*models.AssignmentRecord, error)
}

type assignmentAuditRepo struct {
	db Database
}

func NewAssignmentAuditRepo(db Database) AssignmentAuditRepository {
	return &assignmentAuditRepo{db: db}
}

func (r *assignmentAuditRepo) Create(ctx context.Context, record *models.AssignmentRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	query := `
		INSERT INTO assignment_audit (id, user_id, course_id, company_id, license_id, outcome, detail, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, record.ID, record.UserID, record.CourseID, record.CompanyID, record.LicenseID, record.Outcome, record.Detail, record.Actor)
	return err
}

func (r *assignmentAuditRepo) ListByCourse(ctx context.Context, courseID int64, limit, offset int) ([]*models.AssignmentRecord, error) {
	query := `
		SELECT id, user_id, course_id, company_id, license_id, outcome, detail, actor, created_at
		FROM assignment_audit
		WHERE course_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, courseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssignmentRecords(rows)
}

func (r *assignmentAuditRepo) ListRecent(ctx context.Context, limit, offset int) ([]*models.AssignmentRecord, error) {
	query := `
		SELECT id, user_id, course_id, company_id, license_id, outcome, detail, actor, created_at
		FROM assignment_audit
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssignmentRecords(rows)
}

func scanAssignmentRecords(rows pgx.Rows) ([]*models.AssignmentRecord, error) {
	var records []*models.AssignmentRecord
	for rows.Next() {
		record := &models.AssignmentRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.CourseID, &record.CompanyID, &record.LicenseID, &record.Outcome, &record.Detail, &record.Actor, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
