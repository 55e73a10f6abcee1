package repositories

import (
	"context"

	"traindesk/internal/models"

	"github.com/google/uuid"
)

type ReconciliationRepository interface {
	Create(ctx context.Context, rec *models.Reconciliation) error
	ListOpen(ctx context.Context, limit, offset int) ([]*models.Reconciliation, error)
	Resolve(ctx context.Context, id uuid.UUID) error
	CountOpen(ctx context.Context) (int, error)
}

type reconciliationRepo struct {
	db Database
}

func NewReconciliationRepo(db Database) ReconciliationRepository {
	return &reconciliationRepo{db: db}
}

func (r *reconciliationRepo) Create(ctx context.Context, rec *models.Reconciliation) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	query := `
		INSERT INTO reconciliations (id, user_id, course_id, company_id, license_id, reason, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
	`
	_, err := r.db.Exec(ctx, query, rec.ID, rec.UserID, rec.CourseID, rec.CompanyID, rec.LicenseID, rec.Reason)
	return err
}

func (r *reconciliationRepo) ListOpen(ctx context.Context, limit, offset int) ([]*models.Reconciliation, error) {
	query := `
		SELECT id, user_id, course_id, company_id, license_id, reason, resolved, resolved_at, created_at
		FROM reconciliations
		WHERE resolved = FALSE
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.Reconciliation
	for rows.Next() {
		rec := &models.Reconciliation{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.CourseID, &rec.CompanyID, &rec.LicenseID, &rec.Reason, &rec.Resolved, &rec.ResolvedAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *reconciliationRepo) Resolve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE reconciliations
		SET resolved = TRUE, resolved_at = NOW()
		WHERE id = $1 AND resolved = FALSE
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *reconciliationRepo) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reconciliations WHERE resolved = FALSE`).Scan(&count)
	return count, err
}
