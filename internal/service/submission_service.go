package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

// SubmissionService owns the submit path: deadline evaluation, lateness
// flagging and the resubmission policy.
type SubmissionService interface {
	Submit(ctx context.Context, learnerID uint, payload dto.SubmitRequest) (dto.SubmissionResponse, error)
	ListOwn(ctx context.Context, learnerID uint) ([]dto.SubmissionResponse, error)
	ListForAssignment(ctx context.Context, assignmentID, instructorID uint) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService builds a submission service.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit hands in work. The row for a (learner, assignment) pair is created
// once and rewritten in place on resubmission; lateness is computed against
// the due date at this moment and stored as an immutable fact.
func (s *submissionService) Submit(ctx context.Context, learnerID uint, payload dto.SubmitRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, apperr.New(apperr.CodeNotFound, "assignment not found")
		}
		return dto.SubmissionResponse{}, err
	}

	switch assignment.Status {
	case models.AssignmentStatusPublished:
	case models.AssignmentStatusDraft:
		// Drafts are invisible to learners.
		return dto.SubmissionResponse{}, apperr.New(apperr.CodeNotFound, "assignment not found")
	default:
		return dto.SubmissionResponse{}, apperr.New(apperr.CodeInvalidTransition, "assignment is closed")
	}

	enrolled, err := s.enrollments.HasActive(ctx, learnerID, assignment.CourseID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !enrolled {
		return dto.SubmissionResponse{}, apperr.New(apperr.CodePermissionDenied, "not enrolled in this course")
	}

	now := s.now()
	late := assignment.IsPastDue(now)
	if late && !assignment.AllowLate {
		return dto.SubmissionResponse{}, apperr.New(apperr.CodeDeadlinePassed, "deadline has passed and late submissions are not accepted")
	}

	content := s.sanitizer.Sanitize(strings.TrimSpace(payload.Content))
	if content == "" {
		return dto.SubmissionResponse{}, apperr.New(apperr.CodeValidation, "submission content is empty")
	}

	existing, err := s.submissions.GetByAssignmentAndLearner(ctx, assignment.ID, learnerID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission := models.Submission{
			AssignmentID: assignment.ID,
			LearnerID:    learnerID,
			Content:      content,
			Link:         strings.TrimSpace(payload.Link),
			Status:       models.SubmissionStatusSubmitted,
			IsLate:       late,
			SubmittedAt:  now,
		}
		if err := s.submissions.Create(ctx, &submission); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Concurrent first submit for the same pair; fall through to
				// the resubmission rules on the row that won.
				return s.resubmit(ctx, assignment, learnerID, content, payload.Link, late, now)
			}
			return dto.SubmissionResponse{}, err
		}
		s.logger.Info().Uint("submission_id", submission.ID).Uint("assignment_id", assignment.ID).Bool("late", late).Msg("submission created")
		return dto.NewSubmissionResponse(submission), nil
	case err != nil:
		return dto.SubmissionResponse{}, err
	}

	return s.overwrite(ctx, assignment, existing, content, payload.Link, late, now)
}

func (s *submissionService) resubmit(ctx context.Context, assignment models.Assignment, learnerID uint, content, link string, late bool, now time.Time) (dto.SubmissionResponse, error) {
	existing, err := s.submissions.GetByAssignmentAndLearner(ctx, assignment.ID, learnerID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return s.overwrite(ctx, assignment, existing, content, link, late, now)
}

// overwrite applies the resubmission policy: allowed when the assignment
// permits it, or when an instructor explicitly requested resubmission, which
// overrides the assignment-level flag. A permitted overwrite always re-enters
// the ungraded state.
func (s *submissionService) overwrite(ctx context.Context, assignment models.Assignment, existing models.Submission, content, link string, late bool, now time.Time) (dto.SubmissionResponse, error) {
	requested := existing.Status == models.SubmissionStatusResubmissionRequired
	if !assignment.AllowResubmission && !requested {
		return dto.SubmissionResponse{}, apperr.New(apperr.CodeResubmissionNotAllowed, "assignment does not allow resubmission")
	}

	existing.Content = content
	existing.Link = strings.TrimSpace(link)
	existing.Status = models.SubmissionStatusSubmitted
	existing.IsLate = late
	existing.Score = nil
	existing.Feedback = nil
	existing.GradedAt = nil
	existing.SubmittedAt = now

	if err := s.submissions.Update(ctx, &existing); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", existing.ID).Bool("late", late).Bool("requested", requested).Msg("submission replaced")

	return dto.NewSubmissionResponse(existing), nil
}

func (s *submissionService) ListOwn(ctx context.Context, learnerID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, assignmentID, instructorID uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "assignment not found")
		}
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, assignment.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "course not found")
		}
		return nil, err
	}
	if course.OwnerID != instructorID {
		return nil, apperr.New(apperr.CodePermissionDenied, "course belongs to another instructor")
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
