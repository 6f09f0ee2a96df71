package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/lifecycle"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

// weightTolerance absorbs accumulated floating-point rounding so a course
// whose weights legitimately sum to 1.0 is not rejected.
const weightTolerance = 1e-9

// AssignmentService owns assignment CRUD, the weight cap and the assignment
// status machine.
type AssignmentService interface {
	Create(ctx context.Context, instructorID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, assignmentID, instructorID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	ChangeStatus(ctx context.Context, assignmentID, instructorID uint, newStatus string) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, assignmentID, instructorID uint) error
	Get(ctx context.Context, assignmentID uint) (dto.AssignmentResponse, error)
	ListByCourse(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds an assignment service.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		courses:     courses,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

// validateWeight enforces the course-wide cap: the sum of points_weight over
// non-deleted assignments, with the edited row excluded and the candidate
// added, must not exceed 1. Application-level on purpose; the exclude-self
// semantics need knowledge of which row is being replaced.
func (s *assignmentService) validateWeight(ctx context.Context, courseID uint, candidate float64, excludeID uint) error {
	total, err := s.assignments.SumWeights(ctx, courseID, excludeID)
	if err != nil {
		return err
	}
	if total+candidate > 1.0+weightTolerance {
		return apperr.Newf(apperr.CodeWeightExceeded,
			"assignment weights would sum to %.4f, exceeding 1.0", total+candidate)
	}

	return nil
}

func (s *assignmentService) Create(ctx context.Context, instructorID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	course, err := s.loadOwnedCourse(ctx, payload.CourseID, instructorID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if course.IsArchived() {
		return dto.AssignmentResponse{}, apperr.New(apperr.CodeCourseArchived, "course is archived")
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, apperr.Wrap(apperr.CodeValidation, "invalid due date", err)
	}

	if err := s.validateWeight(ctx, course.ID, payload.PointsWeight, 0); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		CourseID:          course.ID,
		Title:             strings.TrimSpace(payload.Title),
		Description:       strings.TrimSpace(payload.Description),
		DueDate:           dueDate,
		PointsWeight:      payload.PointsWeight,
		Status:            models.AssignmentStatusDraft,
		AllowLate:         payload.AllowLate,
		AllowResubmission: payload.AllowResubmission,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", course.ID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, assignmentID, instructorID uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.loadOwned(ctx, assignmentID, instructorID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, apperr.Wrap(apperr.CodeValidation, "invalid due date", err)
		}
		assignment.DueDate = dueDate
	}
	if payload.PointsWeight != nil && *payload.PointsWeight != assignment.PointsWeight {
		if err := s.validateWeight(ctx, assignment.CourseID, *payload.PointsWeight, assignment.ID); err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.PointsWeight = *payload.PointsWeight
	}
	if payload.AllowLate != nil {
		assignment.AllowLate = *payload.AllowLate
	}
	if payload.AllowResubmission != nil {
		assignment.AllowResubmission = *payload.AllowResubmission
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

// ChangeStatus drives the assignment status machine. Publishing requires the
// due date to be strictly in the future at the moment of transition.
func (s *assignmentService) ChangeStatus(ctx context.Context, assignmentID, instructorID uint, newStatus string) (dto.AssignmentResponse, error) {
	assignment, err := s.loadOwned(ctx, assignmentID, instructorID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if !lifecycle.Assignments.CanTransition(assignment.Status, newStatus) {
		return dto.AssignmentResponse{}, apperr.Newf(apperr.CodeInvalidTransition,
			"assignment cannot move from %s to %s", assignment.Status, newStatus)
	}

	now := s.now()
	switch newStatus {
	case models.AssignmentStatusPublished:
		if !assignment.DueDate.After(now) {
			return dto.AssignmentResponse{}, apperr.New(apperr.CodeValidation,
				"due date must be in the future to publish")
		}
		assignment.PublishedAt = &now
	case models.AssignmentStatusClosed:
		assignment.ClosedAt = &now
	}

	previous := assignment.Status
	assignment.Status = newStatus
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Str("from", previous).
		Str("to", newStatus).
		Msg("assignment status changed")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, assignmentID, instructorID uint) error {
	assignment, err := s.loadOwned(ctx, assignmentID, instructorID)
	if err != nil {
		return err
	}

	if err := s.assignments.SoftDelete(ctx, assignment.ID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "assignment not found")
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) Get(ctx context.Context, assignmentID uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, apperr.New(apperr.CodeNotFound, "assignment not found")
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) loadOwned(ctx context.Context, assignmentID, instructorID uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, apperr.New(apperr.CodeNotFound, "assignment not found")
		}
		return models.Assignment{}, err
	}

	if _, err := s.loadOwnedCourse(ctx, assignment.CourseID, instructorID); err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (s *assignmentService) loadOwnedCourse(ctx context.Context, courseID, instructorID uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, apperr.New(apperr.CodeNotFound, "course not found")
		}
		return models.Course{}, err
	}
	if course.OwnerID != instructorID {
		return models.Course{}, apperr.New(apperr.CodePermissionDenied, "course belongs to another instructor")
	}

	return course, nil
}
