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
	"github.com/campushq/lms-api/internal/events"
	"github.com/campushq/lms-api/internal/lifecycle"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

// CourseService owns the course lifecycle: creation, updates, the status
// machine and soft deletion.
type CourseService interface {
	Create(ctx context.Context, instructorID uint, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, courseID, instructorID uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	ChangeStatus(ctx context.Context, courseID, instructorID uint, newStatus string) (dto.CourseResponse, error)
	Delete(ctx context.Context, courseID, instructorID uint) error
	Get(ctx context.Context, courseID uint) (dto.CourseResponse, error)
	ListOwned(ctx context.Context, instructorID uint) ([]dto.CourseResponse, error)
}

type courseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	taxonomy    repository.TaxonomyRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCourseService builds a course service.
func NewCourseService(
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	taxonomy repository.TaxonomyRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	publisher events.Publisher,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:     courses,
		enrollments: enrollments,
		taxonomy:    taxonomy,
		validator:   validate,
		activity:    activity,
		publisher:   publisher,
		logger:      logger.With().Str("component", "course_service").Logger(),
		now:         time.Now,
	}
}

func (s *courseService) Create(ctx context.Context, instructorID uint, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	title := strings.TrimSpace(payload.Title)
	taken, err := s.courses.TitleTaken(ctx, instructorID, title, 0)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	if taken {
		return dto.CourseResponse{}, apperr.Newf(apperr.CodeDuplicate, "course title %q already used", title)
	}

	if err := s.checkTaxonomy(ctx, payload.CategoryID, payload.DifficultyID); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		OwnerID:      instructorID,
		Title:        title,
		Description:  strings.TrimSpace(payload.Description),
		CategoryID:   payload.CategoryID,
		DifficultyID: payload.DifficultyID,
		Capacity:     payload.Capacity,
		Status:       models.CourseStatusDraft,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, apperr.Newf(apperr.CodeDuplicate, "course title %q already used", title)
		}
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("instructor_id", instructorID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, courseID, instructorID uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.loadOwned(ctx, courseID, instructorID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.Title != nil {
		title := strings.TrimSpace(*payload.Title)
		if title != course.Title {
			taken, err := s.courses.TitleTaken(ctx, instructorID, title, course.ID)
			if err != nil {
				return dto.CourseResponse{}, err
			}
			if taken {
				return dto.CourseResponse{}, apperr.Newf(apperr.CodeDuplicate, "course title %q already used", title)
			}
		}
		course.Title = title
	}

	if payload.Description != nil {
		course.Description = strings.TrimSpace(*payload.Description)
	}

	if err := s.checkTaxonomy(ctx, payload.CategoryID, payload.DifficultyID); err != nil {
		return dto.CourseResponse{}, err
	}
	if payload.CategoryID != nil {
		course.CategoryID = payload.CategoryID
	}
	if payload.DifficultyID != nil {
		course.DifficultyID = payload.DifficultyID
	}
	if payload.Capacity != nil {
		course.Capacity = payload.Capacity
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(course), nil
}

// ChangeStatus drives the course status machine. The published -> archived
// transition cascades: every published assignment in the course is closed in
// the same request.
func (s *courseService) ChangeStatus(ctx context.Context, courseID, instructorID uint, newStatus string) (dto.CourseResponse, error) {
	course, err := s.loadOwned(ctx, courseID, instructorID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if !lifecycle.Courses.CanTransition(course.Status, newStatus) {
		return dto.CourseResponse{}, apperr.Newf(apperr.CodeInvalidTransition,
			"course cannot move from %s to %s", course.Status, newStatus)
	}

	now := s.now()
	previous := course.Status

	switch newStatus {
	case models.CourseStatusPublished:
		if strings.TrimSpace(course.Title) == "" || strings.TrimSpace(course.Description) == "" {
			return dto.CourseResponse{}, apperr.New(apperr.CodeValidation,
				"course needs a title and description before publishing")
		}
		course.PublishedAt = &now
	case models.CourseStatusArchived:
		course.ArchivedAt = &now
	case models.CourseStatusDraft:
		// Re-entering draft clears the archival mark.
		course.ArchivedAt = nil
	}

	course.Status = newStatus

	// Archiving flips the course and closes its published assignments in one
	// repository transaction, so a failed cascade rolls the status back too.
	var closed int64
	if newStatus == models.CourseStatusArchived {
		closed, err = s.courses.Archive(ctx, &course, now)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		if s.publisher != nil {
			s.publisher.Publish(ctx, events.SubjectCourseArchived, course.ID, map[string]interface{}{
				"closed_assignments": closed,
			})
		}
	} else if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	if s.activity != nil {
		id := course.ID
		s.activity.Record(ctx, ActivityEntry{
			ActorID:    instructorID,
			ActorRole:  models.RoleInstructor,
			Action:     "course.status_changed",
			EntityType: "course",
			EntityID:   &id,
			Metadata: map[string]interface{}{
				"from": previous,
				"to":   newStatus,
			},
		})
	}

	s.logger.Info().
		Uint("course_id", course.ID).
		Str("from", previous).
		Str("to", newStatus).
		Int64("closed_assignments", closed).
		Msg("course status changed")

	return dto.NewCourseResponse(course), nil
}

// Delete soft-deletes a course that currently has no active enrollments.
// Courses with learners must be archived instead.
func (s *courseService) Delete(ctx context.Context, courseID, instructorID uint) error {
	course, err := s.loadOwned(ctx, courseID, instructorID)
	if err != nil {
		return err
	}

	active, err := s.enrollments.CountActiveByCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperr.Newf(apperr.CodeHasActiveEnrollments,
			"course has %d active enrollments; archive it instead", active)
	}

	if err := s.courses.SoftDelete(ctx, course.ID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeNotFound, "course not found")
		}
		return err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course deleted")
	return nil
}

func (s *courseService) Get(ctx context.Context, courseID uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, apperr.New(apperr.CodeNotFound, "course not found")
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) ListOwned(ctx context.Context, instructorID uint) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListByOwner(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) loadOwned(ctx context.Context, courseID, instructorID uint) (models.Course, error) {
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

func (s *courseService) checkTaxonomy(ctx context.Context, categoryID, difficultyID *uint) error {
	if categoryID != nil {
		category, err := s.taxonomy.GetCategory(ctx, *categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeValidation, "category does not exist")
			}
			return err
		}
		if !category.IsActive {
			return apperr.New(apperr.CodeValidation, "category is inactive")
		}
	}
	if difficultyID != nil {
		difficulty, err := s.taxonomy.GetDifficulty(ctx, *difficultyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeValidation, "difficulty does not exist")
			}
			return err
		}
		if !difficulty.IsActive {
			return apperr.New(apperr.CodeValidation, "difficulty is inactive")
		}
	}

	return nil
}
