package services

import (
	"context"
	"fmt"

	"traindesk/internal/models"
	"traindesk/internal/moodle"
)

// TrainerService manages trainer (teacher-role) assignments on courses.
type TrainerService interface {
	Assign(ctx context.Context, courseID, userID int64) error
	Unassign(ctx context.Context, courseID, userID int64) error
	ListForCourse(ctx context.Context, courseID int64) ([]models.Trainer, error)
}

type trainerService struct {
	api           moodle.API
	courseSvc     CourseService
	trainerRoleID int64
}

// NewTrainerService creates a new TrainerService instance
func NewTrainerService(api moodle.API, courseSvc CourseService, trainerRoleID int64) TrainerService {
	return &trainerService{
		api:           api,
		courseSvc:     courseSvc,
		trainerRoleID: trainerRoleID,
	}
}

func (s *trainerService) Assign(ctx context.Context, courseID, userID int64) error {
	if err := s.api.AssignCourseRole(ctx, s.trainerRoleID, userID, courseID); err != nil {
		return fmt.Errorf("failed to assign trainer %d to course %d: %w", userID, courseID, err)
	}
	return nil
}

func (s *trainerService) Unassign(ctx context.Context, courseID, userID int64) error {
	if err := s.api.UnassignCourseRole(ctx, s.trainerRoleID, userID, courseID); err != nil {
		return fmt.Errorf("failed to unassign trainer %d from course %d: %w", userID, courseID, err)
	}
	return nil
}

// ListForCourse returns the course's trainers plus every trainer known on any
// other course, flagged Global. Whether trainers should instead be scoped by
// school or category is an open requirements question; until it is decided
// the dashboard keeps showing the complete trainer pool on every course.
func (s *trainerService) ListForCourse(ctx context.Context, courseID int64) ([]models.Trainer, error) {
	direct, err := s.trainersOn(ctx, courseID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(direct))
	trainers := make([]models.Trainer, 0, len(direct))
	for _, t := range direct {
		seen[t.ID] = true
		trainers = append(trainers, t)
	}

	courses, err := s.courseSvc.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, course := range courses {
		if course.ID == courseID {
			continue
		}
		others, err := s.trainersOn(ctx, course.ID)
		if err != nil {
			// One unreadable course should not empty the whole view.
			continue
		}
		for _, t := range others {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			t.Global = true
			trainers = append(trainers, t)
		}
	}

	return trainers, nil
}

func (s *trainerService) trainersOn(ctx context.Context, courseID int64) ([]models.Trainer, error) {
	users, err := s.api.EnrolledUsers(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var trainers []models.Trainer
	for _, u := range users {
		for _, role := range u.Roles {
			if role.ID == s.trainerRoleID {
				trainers = append(trainers, models.Trainer{
					ID:        u.ID,
					FirstName: u.FirstName,
					LastName:  u.LastName,
					Email:     u.Email,
				})
				break
			}
		}
	}
	return trainers, nil
}
