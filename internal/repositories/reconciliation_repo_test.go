package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"traindesk/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReconciliationRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ReconciliationRepository
	context context.Context
}

func (suite *ReconciliationRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewReconciliationRepo(mock)
	suite.context = context.Background()
}

func (suite *ReconciliationRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestReconciliationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationRepoTestSuite))
}

func (suite *ReconciliationRepoTestSuite) TestCreate_Success() {
	rec := &models.Reconciliation{
		ID:        uuid.New(),
		UserID:    101,
		CourseID:  42,
		CompanyID: 7,
		LicenseID: 2,
		Reason:    "enrolment plugin disabled",
	}

	suite.mock.ExpectExec(`
		INSERT INTO reconciliations \(id, user_id, course_id, company_id, license_id, reason, resolved, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, FALSE, NOW\(\)\)
	`).WithArgs(rec.ID, rec.UserID, rec.CourseID, rec.CompanyID, rec.LicenseID, rec.Reason).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, rec)
	assert.NoError(suite.T(), err)
}

func (suite *ReconciliationRepoTestSuite) TestListOpen_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "user_id", "course_id", "company_id", "license_id", "reason", "resolved", "resolved_at", "created_at"}).
		AddRow(uuid.New(), int64(101), int64(42), int64(7), int64(2), "enrolment plugin disabled", false, nil, now)

	suite.mock.ExpectQuery(`
		SELECT id, user_id, course_id, company_id, license_id, reason, resolved, resolved_at, created_at
		FROM reconciliations
		WHERE resolved = FALSE
		ORDER BY created_at ASC
		LIMIT \$1 OFFSET \$2
	`).WithArgs(50, 0).
		WillReturnRows(rows)

	recs, err := suite.repo.ListOpen(suite.context, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), recs, 1)
	assert.False(suite.T(), recs[0].Resolved)
	assert.Nil(suite.T(), recs[0].ResolvedAt)
}

func (suite *ReconciliationRepoTestSuite) TestResolve_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`
		UPDATE reconciliations
		SET resolved = TRUE, resolved_at = NOW\(\)
		WHERE id = \$1 AND resolved = FALSE
	`).WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Resolve(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *ReconciliationRepoTestSuite) TestResolve_AlreadyResolved() {
	id := uuid.New()

	suite.mock.ExpectExec(`
		UPDATE reconciliations
		SET resolved = TRUE, resolved_at = NOW\(\)
		WHERE id = \$1 AND resolved = FALSE
	`).WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	// Resolving twice is a no-op, not an error.
	err := suite.repo.Resolve(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *ReconciliationRepoTestSuite) TestCountOpen() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reconciliations WHERE resolved = FALSE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := suite.repo.CountOpen(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, count)
}

func (suite *ReconciliationRepoTestSuite) TestCountOpen_DatabaseError() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reconciliations WHERE resolved = FALSE`).
		WillReturnError(errors.New("database connection failed"))

	_, err := suite.repo.CountOpen(suite.context)
	assert.Error(suite.T(), err)
}
