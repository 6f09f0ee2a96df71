package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/events"
	"github.com/campushq/lms-api/internal/lifecycle"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

// GradingService grades submissions and aggregates weighted course totals.
type GradingService interface {
	Grade(ctx context.Context, instructorID, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error)
	ComputeCourseTotal(ctx context.Context, learnerID, courseID uint) (dto.CourseTotalResponse, error)
	LearnerReport(ctx context.Context, learnerID uint) (dto.LearnerReportResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	cache       *redis.Client
	cacheTTL    time.Duration
	activity    ActivityRecorder
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService builds the grading service. cache may be nil, which
// disables report caching.
func NewGradingService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	validate *validator.Validate,
	cache *redis.Client,
	cacheTTL time.Duration,
	activity ActivityRecorder,
	publisher events.Publisher,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		submissions: submissions,
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		cache:       cache,
		cacheTTL:    cacheTTL,
		activity:    activity,
		publisher:   publisher,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

// Grade applies an instructor decision. action=grade finalizes the score;
// action=resubmission_required clears it and reopens the submission for the
// learner regardless of the assignment's resubmission flag. A graded
// submission cannot be graded again; it must be reopened first.
func (s *gradingService) Grade(ctx context.Context, instructorID, submissionID uint, payload dto.GradeRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/campushq/lms-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.decide")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.instructor_id", int64(instructorID)),
		attribute.String("grading.action", payload.Action),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, apperr.New(apperr.CodeNotFound, "submission not found")
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if submission.Assignment == nil || submission.Assignment.Course == nil {
		span.SetStatus(codes.Error, "submission_orphaned")
		return dto.SubmissionResponse{}, apperr.New(apperr.CodeNotFound, "submission not found")
	}
	if submission.Assignment.Course.OwnerID != instructorID {
		span.SetStatus(codes.Error, "not_owner")
		return dto.SubmissionResponse{}, apperr.New(apperr.CodePermissionDenied, "course belongs to another instructor")
	}

	switch payload.Action {
	case dto.GradeActionGrade:
		err = s.applyGrade(&submission, payload)
	case dto.GradeActionResubmissionRequired:
		err = s.applyResubmissionRequest(&submission, payload)
	default:
		err = apperr.Newf(apperr.CodeValidation, "unknown action %q", payload.Action)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperr.CodeOf(err)))
		return dto.SubmissionResponse{}, err
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	s.invalidateReport(ctx, submission.LearnerID)

	if s.activity != nil {
		id := submission.ID
		s.activity.Record(ctx, ActivityEntry{
			ActorID:    instructorID,
			ActorRole:  models.RoleInstructor,
			Action:     "submission." + payload.Action,
			EntityType: "submission",
			EntityID:   &id,
			Metadata: map[string]interface{}{
				"learner_id":    submission.LearnerID,
				"assignment_id": submission.AssignmentID,
				"status":        submission.Status,
			},
		})
	}

	if s.publisher != nil && payload.Action == dto.GradeActionGrade {
		s.publisher.Publish(ctx, events.SubjectSubmissionGraded, submission.ID, map[string]interface{}{
			"learner_id":    submission.LearnerID,
			"assignment_id": submission.AssignmentID,
			"score":         submission.Score,
		})
	}

	span.SetAttributes(attribute.String("grading.status", submission.Status))

	return dto.NewSubmissionResponse(submission), nil
}

func (s *gradingService) applyGrade(submission *models.Submission, payload dto.GradeRequest) error {
	if submission.IsGraded() {
		return apperr.New(apperr.CodeInvalidTransition,
			"submission is already graded; request resubmission to reopen it")
	}
	if !lifecycle.Submissions.CanTransition(submission.Status, models.SubmissionStatusGraded) {
		return apperr.Newf(apperr.CodeInvalidTransition,
			"submission in state %s cannot be graded", submission.Status)
	}
	if payload.Score == nil {
		return apperr.New(apperr.CodeValidation, "score is required to grade")
	}
	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	if feedback == "" {
		return apperr.New(apperr.CodeValidation, "feedback is required to grade")
	}

	score := *payload.Score
	now := s.now()
	submission.Score = &score
	submission.Feedback = &feedback
	submission.Status = models.SubmissionStatusGraded
	submission.GradedAt = &now

	return nil
}

func (s *gradingService) applyResubmissionRequest(submission *models.Submission, payload dto.GradeRequest) error {
	if !lifecycle.Submissions.CanTransition(submission.Status, models.SubmissionStatusResubmissionRequired) {
		return apperr.Newf(apperr.CodeInvalidTransition,
			"submission in state %s cannot be reopened", submission.Status)
	}

	submission.Status = models.SubmissionStatusResubmissionRequired
	submission.Score = nil
	submission.GradedAt = nil
	if feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback)); feedback != "" {
		submission.Feedback = &feedback
	}

	return nil
}

// ComputeCourseTotal returns the weighted running total for one learner in
// one course. The denominator is the weight graded so far, not the full
// course weight, so ungraded work does not count as zero. TotalScore is nil
// until at least one assignment has been graded.
func (s *gradingService) ComputeCourseTotal(ctx context.Context, learnerID, courseID uint) (dto.CourseTotalResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseTotalResponse{}, apperr.New(apperr.CodeNotFound, "course not found")
		}
		return dto.CourseTotalResponse{}, err
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID,
		models.AssignmentStatusPublished, models.AssignmentStatusClosed)
	if err != nil {
		return dto.CourseTotalResponse{}, err
	}

	ids := make([]uint, 0, len(assignments))
	weights := make(map[uint]float64, len(assignments))
	counted := 0
	for _, assignment := range assignments {
		// A closed assignment that was never published (draft -> closed)
		// accepted no submissions, so it does not belong in the total.
		if assignment.Status == models.AssignmentStatusClosed && assignment.PublishedAt == nil {
			continue
		}
		ids = append(ids, assignment.ID)
		weights[assignment.ID] = assignment.PointsWeight
		counted++
	}

	submissions, err := s.submissions.ListByLearnerAndAssignments(ctx, learnerID, ids)
	if err != nil {
		return dto.CourseTotalResponse{}, err
	}

	total := dto.CourseTotalResponse{
		CourseID:         courseID,
		AssignmentsCount: counted,
	}

	var weightedSum, gradedWeight float64
	for _, submission := range submissions {
		if !submission.IsGraded() || submission.Score == nil {
			continue
		}
		weight := weights[submission.AssignmentID]
		weightedSum += *submission.Score * weight / 100
		gradedWeight += weight
		total.GradedCount++
	}

	if total.GradedCount > 0 && gradedWeight > 0 {
		score := weightedSum / gradedWeight * 100
		total.TotalScore = &score
	}

	return total, nil
}

// LearnerReport aggregates the learner's grades across all actively enrolled
// courses, with a flat per-assignment row list. Cached per learner.
func (s *gradingService) LearnerReport(ctx context.Context, learnerID uint) (dto.LearnerReportResponse, error) {
	cacheKey := s.reportCacheKey(learnerID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var report dto.LearnerReportResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &report); unmarshalErr == nil {
				s.logger.Debug().Uint("learner_id", learnerID).Msg("grade report cache hit")
				return report, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read grade report cache")
		}
	}

	enrollments, err := s.enrollments.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		return dto.LearnerReportResponse{}, err
	}

	report := dto.LearnerReportResponse{
		LearnerID: learnerID,
		Courses:   make([]dto.LearnerCourseReport, 0, len(enrollments)),
		Grades:    []dto.GradeRow{},
	}

	for _, enrollment := range enrollments {
		if enrollment.Course == nil {
			continue
		}

		total, err := s.ComputeCourseTotal(ctx, learnerID, enrollment.CourseID)
		if err != nil {
			return dto.LearnerReportResponse{}, err
		}

		report.Courses = append(report.Courses, dto.LearnerCourseReport{
			CourseTotalResponse: total,
			CourseTitle:         enrollment.Course.Title,
		})

		rows, err := s.gradeRows(ctx, learnerID, *enrollment.Course)
		if err != nil {
			return dto.LearnerReportResponse{}, err
		}
		report.Grades = append(report.Grades, rows...)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store grade report cache")
			}
		}
	}

	return report, nil
}

func (s *gradingService) gradeRows(ctx context.Context, learnerID uint, course models.Course) ([]dto.GradeRow, error) {
	assignments, err := s.assignments.ListByCourse(ctx, course.ID,
		models.AssignmentStatusPublished, models.AssignmentStatusClosed)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(assignments))
	byID := make(map[uint]models.Assignment, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.ID)
		byID[assignment.ID] = assignment
	}

	submissions, err := s.submissions.ListByLearnerAndAssignments(ctx, learnerID, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.GradeRow, 0, len(submissions))
	for _, submission := range submissions {
		assignment := byID[submission.AssignmentID]
		rows = append(rows, dto.GradeRow{
			SubmissionID:          submission.ID,
			AssignmentTitle:       assignment.Title,
			AssignmentDescription: assignment.Description,
			CourseTitle:           course.Title,
			Score:                 submission.Score,
			Feedback:              submission.Feedback,
			IsLate:                submission.IsLate,
			AllowResubmission:     assignment.AllowResubmission,
			Status:                submission.Status,
			PointsWeight:          assignment.PointsWeight,
		})
	}

	return rows, nil
}

func (s *gradingService) reportCacheKey(learnerID uint) string {
	return fmt.Sprintf("grades:learner:%d", learnerID)
}

func (s *gradingService) invalidateReport(ctx context.Context, learnerID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.reportCacheKey(learnerID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("learner_id", learnerID).Msg("failed to invalidate grade report cache")
	}
}
