package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/events"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

// EnrollmentService owns the learner/course relationship: idempotent
// enrollment, cancellation, reactivation and the learner-facing listings.
type EnrollmentService interface {
	Enroll(ctx context.Context, learnerID, courseID uint) (dto.EnrollmentResponse, error)
	Cancel(ctx context.Context, learnerID, courseID uint) (dto.EnrollmentResponse, error)
	ListAvailable(ctx context.Context, learnerID uint, filter repository.CourseFilter) (dto.CourseListResponse, error)
	ListEnrolled(ctx context.Context, learnerID uint) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService builds an enrollment service.
func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		publisher:   publisher,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

// Enroll is idempotent: an existing active enrollment returns success, a
// cancelled one is reactivated in place, and a unique-key violation from a
// concurrent enroll is treated as the other request having won the same
// outcome.
func (s *enrollmentService) Enroll(ctx context.Context, learnerID, courseID uint) (dto.EnrollmentResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, apperr.New(apperr.CodeNotFound, "course not found")
		}
		return dto.EnrollmentResponse{}, err
	}

	// Archived is a terminal state distinct from never-published.
	if course.IsArchived() {
		return dto.EnrollmentResponse{}, apperr.New(apperr.CodeCourseArchived, "course is archived")
	}
	if !course.IsPublished() {
		return dto.EnrollmentResponse{}, apperr.New(apperr.CodeCourseNotPublished, "course is not open for enrollment")
	}

	existing, err := s.enrollments.GetByLearnerAndCourse(ctx, learnerID, courseID)
	switch {
	case err == nil && existing.IsActive():
		return dto.NewEnrollmentResponse(existing), nil
	case err == nil:
		// Cancelled row: reactivate rather than insert a duplicate.
		if err := s.checkCapacity(ctx, course); err != nil {
			return dto.EnrollmentResponse{}, err
		}
		existing.Status = models.EnrollmentStatusActive
		existing.EnrolledAt = s.now()
		if err := s.enrollments.Update(ctx, &existing); err != nil {
			return dto.EnrollmentResponse{}, err
		}
		if err := s.courses.AdjustEnrollmentCount(ctx, courseID, 1); err != nil {
			s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to bump enrollment count")
		}
		s.emitEnrolled(ctx, existing, true)
		return dto.NewEnrollmentResponse(existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dto.EnrollmentResponse{}, err
	}

	if err := s.checkCapacity(ctx, course); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		LearnerID:  learnerID,
		CourseID:   courseID,
		Status:     models.EnrollmentStatusActive,
		EnrolledAt: s.now(),
	}

	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race with a concurrent enroll; the end state is the
			// one the caller asked for, so report success.
			won, loadErr := s.enrollments.GetByLearnerAndCourse(ctx, learnerID, courseID)
			if loadErr != nil {
				return dto.EnrollmentResponse{}, loadErr
			}
			return dto.NewEnrollmentResponse(won), nil
		}
		return dto.EnrollmentResponse{}, err
	}

	if err := s.courses.AdjustEnrollmentCount(ctx, courseID, 1); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to bump enrollment count")
	}
	s.emitEnrolled(ctx, enrollment, false)

	s.logger.Info().Uint("learner_id", learnerID).Uint("course_id", courseID).Msg("learner enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Cancel(ctx context.Context, learnerID, courseID uint) (dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, apperr.New(apperr.CodeNotEnrolled, "not enrolled in this course")
		}
		return dto.EnrollmentResponse{}, err
	}
	if !enrollment.IsActive() {
		return dto.EnrollmentResponse{}, apperr.New(apperr.CodeNotEnrolled, "not enrolled in this course")
	}

	enrollment.Status = models.EnrollmentStatusCancelled
	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if err := s.courses.AdjustEnrollmentCount(ctx, courseID, -1); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to drop enrollment count")
	}

	s.logger.Info().Uint("learner_id", learnerID).Uint("course_id", courseID).Msg("enrollment cancelled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ListAvailable(ctx context.Context, learnerID uint, filter repository.CourseFilter) (dto.CourseListResponse, error) {
	courses, total, err := s.courses.ListPublished(ctx, filter)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}

	enrolled, err := s.enrollments.ActiveCourseIDs(ctx, learnerID, ids)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	annotated := make([]dto.AvailableCourseResponse, 0, len(courses))
	for _, course := range courses {
		annotated = append(annotated, dto.AvailableCourseResponse{
			CourseResponse: dto.NewCourseResponse(course),
			Enrolled:       enrolled[course.ID],
		})
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}

	return dto.CourseListResponse{
		Courses:  annotated,
		Total:    total,
		Page:     page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *enrollmentService) ListEnrolled(ctx context.Context, learnerID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	// A soft-deleted course drops out of the preload; hide its enrollment too.
	visible := enrollments[:0]
	for _, enrollment := range enrollments {
		if enrollment.Course != nil {
			visible = append(visible, enrollment)
		}
	}

	return dto.NewEnrollmentResponseSlice(visible), nil
}

// checkCapacity is the fast-path, user-facing capacity rejection. The unique
// index on (learner_id, course_id) keeps the race window convergent; a hard
// capacity guarantee additionally needs a check constraint in the store.
func (s *enrollmentService) checkCapacity(ctx context.Context, course models.Course) error {
	if course.Capacity == nil {
		return nil
	}

	active, err := s.enrollments.CountActiveByCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	if !course.HasCapacityFor(int(active)) {
		return apperr.Newf(apperr.CodeCapacityExceeded, "course is full (%d seats)", *course.Capacity)
	}

	return nil
}

func (s *enrollmentService) emitEnrolled(ctx context.Context, enrollment models.Enrollment, reactivated bool) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.SubjectEnrollmentCreated, enrollment.ID, map[string]interface{}{
		"learner_id":  enrollment.LearnerID,
		"course_id":   enrollment.CourseID,
		"reactivated": reactivated,
	})
}
