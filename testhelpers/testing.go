package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"traindesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=traindesk_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestAuditRecord inserts one assignment audit row for testing
func SetupTestAuditRecord(t *testing.T, db *TestDB, outcome string) *models.AssignmentRecord {
	t.Helper()

	rec := &models.AssignmentRecord{
		ID:        uuid.New(),
		UserID:    101,
		CourseID:  202,
		CompanyID: 7,
		LicenseID: 42,
		Outcome:   outcome,
		Detail:    "test record",
		Actor:     "admin@test",
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO assignment_audit (id, user_id, course_id, company_id, license_id, outcome, detail, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		rec.ID, rec.UserID, rec.CourseID, rec.CompanyID, rec.LicenseID, rec.Outcome, rec.Detail, rec.Actor, rec.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test audit record: %v", err)
	}

	return rec
}

// SetupTestReconciliation inserts one open reconciliation row for testing
func SetupTestReconciliation(t *testing.T, db *TestDB) *models.Reconciliation {
	t.Helper()

	rec := &models.Reconciliation{
		ID:        uuid.New(),
		UserID:    101,
		CourseID:  202,
		CompanyID: 7,
		LicenseID: 42,
		Reason:    "seat consumed without enrollment",
		Resolved:  false,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO reconciliations (id, user_id, course_id, company_id, license_id, reason, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		rec.ID, rec.UserID, rec.CourseID, rec.CompanyID, rec.LicenseID, rec.Reason, rec.Resolved, rec.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test reconciliation: %v", err)
	}

	return rec
}
