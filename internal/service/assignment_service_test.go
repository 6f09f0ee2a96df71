package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/models"
)

type assignmentServiceFixture struct {
	courses     *memoryCourseRepo
	assignments *memoryAssignmentRepo
	service     AssignmentService
}

func newAssignmentServiceFixture(t *testing.T) *assignmentServiceFixture {
	t.Helper()

	courses := newMemoryCourseRepo()
	assignments := newMemoryAssignmentRepo()

	return &assignmentServiceFixture{
		courses:     courses,
		assignments: assignments,
		service: NewAssignmentService(
			assignments,
			courses,
			validator.New(validator.WithRequiredStructEnabled()),
			testLogger(),
		),
	}
}

func (fx *assignmentServiceFixture) seedCourse(t *testing.T, status string) models.Course {
	t.Helper()

	course := models.Course{
		OwnerID:     1,
		Title:       "Systems Programming",
		Description: "Low-level work in a high-level language.",
		Status:      status,
	}
	require.NoError(t, fx.courses.Create(context.Background(), &course))
	return course
}

func futureDue() string {
	return time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
}

func TestAssignmentCreateRejectsWeightOverCap(t *testing.T) {
	fx := newAssignmentServiceFixture(t)
	ctx := context.Background()
	course := fx.seedCourse(t, models.CourseStatusPublished)

	_, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Homework 1",
		DueDate:      futureDue(),
		PointsWeight: 0.5,
	})
	require.NoError(t, err)

	_, err = fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Homework 2",
		DueDate:      futureDue(),
		PointsWeight: 0.6,
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeWeightExceeded, apperr.CodeOf(err))

	// 0.5 + 0.5 lands exactly on the cap and is allowed.
	_, err = fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Homework 2",
		DueDate:      futureDue(),
		PointsWeight: 0.5,
	})
	require.NoError(t, err)
}

func TestAssignmentWeightToleratesFloatAccumulation(t *testing.T) {
	fx := newAssignmentServiceFixture(t)
	ctx := context.Background()
	course := fx.seedCourse(t, models.CourseStatusPublished)

	// Ten times 0.1 does not sum to exactly 1.0 in binary floating point.
	for i := 0; i < 10; i++ {
		_, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
			CourseID:     course.ID,
			Title:        "Weekly quiz",
			DueDate:      futureDue(),
			PointsWeight: 0.1,
		})
		require.NoError(t, err, "quiz %d", i+1)
	}

	_, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "One quiz too many",
		DueDate:      futureDue(),
		PointsWeight: 0.1,
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeWeightExceeded, apperr.CodeOf(err))
}

func TestAssignmentUpdateWeightExcludesSelf(t *testing.T) {
	fx := newAssignmentServiceFixture(t)
	ctx := context.Background()
	course := fx.seedCourse(t, models.CourseStatusPublished)

	created, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Project",
		DueDate:      futureDue(),
		PointsWeight: 0.6,
	})
	require.NoError(t, err)

	// Raising 0.6 to 0.8 must not count the old 0.6 against the cap.
	weight := 0.8
	updated, err := fx.service.Update(ctx, created.ID, 1, dto.AssignmentUpdateRequest{PointsWeight: &weight})
	require.NoError(t, err)
	require.InDelta(t, 0.8, updated.PointsWeight, 1e-12)

	_, err = fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Final",
		DueDate:      futureDue(),
		PointsWeight: 0.3,
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeWeightExceeded, apperr.CodeOf(err))
}

func TestAssignmentCreateRejectsArchivedCourse(t *testing.T) {
	fx := newAssignmentServiceFixture(t)
	ctx := context.Background()
	course := fx.seedCourse(t, models.CourseStatusArchived)

	_, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID: course.ID,
		Title:    "Too late",
		DueDate:  futureDue(),
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeCourseArchived, apperr.CodeOf(err))
}

func TestAssignmentPublishRequiresFutureDueDate(t *testing.T) {
	fx := newAssignmentServiceFixture(t)
	ctx := context.Background()
	course := fx.seedCourse(t, models.CourseStatusPublished)

	created, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Homework",
		DueDate:      futureDue(),
		PointsWeight: 0.2,
	})
	require.NoError(t, err)

	// Force the due date into the past behind the service's back.
	stored, err := fx.assignments.GetByID(ctx, created.ID)
	require.NoError(t, err)
	stored.DueDate = time.Now().Add(-time.Hour)
	require.NoError(t, fx.assignments.Update(ctx, &stored))

	_, err = fx.service.ChangeStatus(ctx, created.ID, 1, models.AssignmentStatusPublished)
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	stored.DueDate = time.Now().Add(time.Hour)
	require.NoError(t, fx.assignments.Update(ctx, &stored))

	published, err := fx.service.ChangeStatus(ctx, created.ID, 1, models.AssignmentStatusPublished)
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
}

func TestAssignmentStatusMachine(t *testing.T) {
	fx := newAssignmentServiceFixture(t)
	ctx := context.Background()
	course := fx.seedCourse(t, models.CourseStatusPublished)

	created, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Essay",
		DueDate:      futureDue(),
		PointsWeight: 0.2,
	})
	require.NoError(t, err)

	// Draft can be closed directly without being published.
	closed, err := fx.service.ChangeStatus(ctx, created.ID, 1, models.AssignmentStatusClosed)
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	// Closed is terminal.
	_, err = fx.service.ChangeStatus(ctx, created.ID, 1, models.AssignmentStatusPublished)
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))
	_, err = fx.service.ChangeStatus(ctx, created.ID, 1, models.AssignmentStatusDraft)
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))
}

func TestAssignmentSoftDeleteFreesWeight(t *testing.T) {
	fx := newAssignmentServiceFixture(t)
	ctx := context.Background()
	course := fx.seedCourse(t, models.CourseStatusPublished)

	created, err := fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Big project",
		DueDate:      futureDue(),
		PointsWeight: 0.9,
	})
	require.NoError(t, err)

	_, err = fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Second project",
		DueDate:      futureDue(),
		PointsWeight: 0.5,
	})
	require.Error(t, err)

	require.NoError(t, fx.service.Delete(ctx, created.ID, 1))

	_, err = fx.service.Create(ctx, 1, dto.AssignmentCreateRequest{
		CourseID:     course.ID,
		Title:        "Second project",
		DueDate:      futureDue(),
		PointsWeight: 0.5,
	})
	require.NoError(t, err)
}
