package services

import (
	"context"
	"errors"
	"testing"

	"traindesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type EnrollmentServiceTestSuite struct {
	suite.Suite
	api     *MockMoodleAPI
	svc     EnrollmentService
	context context.Context
}

func (suite *EnrollmentServiceTestSuite) SetupTest() {
	suite.api = new(MockMoodleAPI)
	suite.svc = NewEnrollmentService(suite.api)
	suite.context = context.Background()
}

func TestEnrollmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentServiceTestSuite))
}

func (suite *EnrollmentServiceTestSuite) TestEnroll_Success() {
	suite.api.On("EnrolUser", suite.context, int64(5), int64(101), int64(42)).Return(nil)

	err := suite.svc.Enroll(suite.context, 5, 101, 42)
	assert.NoError(suite.T(), err)
	suite.api.AssertNotCalled(suite.T(), "EnrolledUsers")
}

func (suite *EnrollmentServiceTestSuite) TestEnroll_AlreadyEnrolledNormalized() {
	// The LMS rejects re-enrollment with an opaque error; the membership
	// check turns it into ErrAlreadyEnrolled.
	suite.api.On("EnrolUser", suite.context, int64(5), int64(101), int64(42)).
		Return(errors.New("invalid parameter value detected"))
	suite.api.On("EnrolledUsers", suite.context, int64(42)).Return([]models.EnrolledUser{
		{ID: 101, Username: "existing.student"},
	}, nil)

	err := suite.svc.Enroll(suite.context, 5, 101, 42)
	assert.ErrorIs(suite.T(), err, ErrAlreadyEnrolled)
}

func (suite *EnrollmentServiceTestSuite) TestEnroll_GenuineFailure() {
	suite.api.On("EnrolUser", suite.context, int64(5), int64(101), int64(42)).
		Return(errors.New("enrolment plugin disabled"))
	suite.api.On("EnrolledUsers", suite.context, int64(42)).Return([]models.EnrolledUser{
		{ID: 202, Username: "someone.else"},
	}, nil)

	err := suite.svc.Enroll(suite.context, 5, 101, 42)
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrAlreadyEnrolled)
	assert.Contains(suite.T(), err.Error(), "enrolment plugin disabled")
}

func (suite *EnrollmentServiceTestSuite) TestEnroll_VerificationAlsoFails() {
	// When the membership check itself fails the original error wins.
	suite.api.On("EnrolUser", suite.context, int64(5), int64(101), int64(42)).
		Return(errors.New("gateway timeout"))
	suite.api.On("EnrolledUsers", suite.context, int64(42)).Return(nil, errors.New("gateway timeout"))

	err := suite.svc.Enroll(suite.context, 5, 101, 42)
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrAlreadyEnrolled)
}

func (suite *EnrollmentServiceTestSuite) TestIsEnrolled() {
	suite.api.On("EnrolledUsers", suite.context, int64(42)).Return([]models.EnrolledUser{
		{ID: 101}, {ID: 202},
	}, nil)

	enrolled, err := suite.svc.IsEnrolled(suite.context, 101, 42)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), enrolled)

	enrolled, err = suite.svc.IsEnrolled(suite.context, 303, 42)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), enrolled)
}
