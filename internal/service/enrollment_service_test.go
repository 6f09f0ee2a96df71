package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/events"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

type enrollmentServiceFixture struct {
	courses     *memoryCourseRepo
	enrollments *memoryEnrollmentRepo
	publisher   *recordedPublisher
	service     EnrollmentService
}

func newEnrollmentServiceFixture(t *testing.T) *enrollmentServiceFixture {
	t.Helper()

	courses := newMemoryCourseRepo()
	enrollments := newMemoryEnrollmentRepo(courses)
	publisher := &recordedPublisher{}

	return &enrollmentServiceFixture{
		courses:     courses,
		enrollments: enrollments,
		publisher:   publisher,
		service:     NewEnrollmentService(enrollments, courses, publisher, testLogger()),
	}
}

func (fx *enrollmentServiceFixture) seedCourse(t *testing.T, status string, capacity *int) models.Course {
	t.Helper()

	course := models.Course{
		OwnerID:     1,
		Title:       "Go in Production",
		Description: "From hello world to on-call.",
		Status:      status,
		Capacity:    capacity,
	}
	require.NoError(t, fx.courses.Create(context.Background(), &course))
	return course
}

func TestEnrollRequiresPublishedCourse(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	draft := fx.seedCourse(t, models.CourseStatusDraft, nil)
	_, err := fx.service.Enroll(ctx, 10, draft.ID)
	require.Error(t, err)
	require.Equal(t, apperr.CodeCourseNotPublished, apperr.CodeOf(err))
}

func TestEnrollIntoArchivedCourseIsDistinctError(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	archived := fx.seedCourse(t, models.CourseStatusArchived, nil)
	_, err := fx.service.Enroll(ctx, 10, archived.ID)
	require.Error(t, err)
	require.Equal(t, apperr.CodeCourseArchived, apperr.CodeOf(err))
}

func TestEnrollIsIdempotent(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	course := fx.seedCourse(t, models.CourseStatusPublished, nil)

	first, err := fx.service.Enroll(ctx, 10, course.ID)
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, first.Status)

	second, err := fx.service.Enroll(ctx, 10, course.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	count, err := fx.enrollments.CountActiveByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// Only the first enroll publishes an event.
	require.Len(t, fx.publisher.events, 1)
	require.Equal(t, events.SubjectEnrollmentCreated, fx.publisher.events[0].Subject)
}

func TestEnrollReactivatesCancelledRowInPlace(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	course := fx.seedCourse(t, models.CourseStatusPublished, nil)

	first, err := fx.service.Enroll(ctx, 10, course.ID)
	require.NoError(t, err)

	cancelled, err := fx.service.Cancel(ctx, 10, course.ID)
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusCancelled, cancelled.Status)

	again, err := fx.service.Enroll(ctx, 10, course.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, models.EnrollmentStatusActive, again.Status)
	require.True(t, again.EnrolledAt.After(first.EnrolledAt) || again.EnrolledAt.Equal(first.EnrolledAt))
}

func TestEnrollRejectsWhenCourseFull(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	capacity := 1
	course := fx.seedCourse(t, models.CourseStatusPublished, &capacity)

	_, err := fx.service.Enroll(ctx, 10, course.ID)
	require.NoError(t, err)

	_, err = fx.service.Enroll(ctx, 11, course.ID)
	require.Error(t, err)
	require.Equal(t, apperr.CodeCapacityExceeded, apperr.CodeOf(err))

	// Cancelling frees the seat.
	_, err = fx.service.Cancel(ctx, 10, course.ID)
	require.NoError(t, err)
	_, err = fx.service.Enroll(ctx, 11, course.ID)
	require.NoError(t, err)
}

func TestCancelWithoutActiveEnrollment(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	course := fx.seedCourse(t, models.CourseStatusPublished, nil)

	_, err := fx.service.Cancel(ctx, 10, course.ID)
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotEnrolled, apperr.CodeOf(err))

	// Cancelling twice fails the second time.
	_, err = fx.service.Enroll(ctx, 10, course.ID)
	require.NoError(t, err)
	_, err = fx.service.Cancel(ctx, 10, course.ID)
	require.NoError(t, err)
	_, err = fx.service.Cancel(ctx, 10, course.ID)
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotEnrolled, apperr.CodeOf(err))
}

func TestListAvailableAnnotatesEnrollment(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	first := fx.seedCourse(t, models.CourseStatusPublished, nil)
	second := models.Course{
		OwnerID: 2, Title: "Kubernetes Basics", Status: models.CourseStatusPublished,
	}
	require.NoError(t, fx.courses.Create(ctx, &second))
	fx.seedCourse(t, models.CourseStatusDraft, nil)

	_, err := fx.service.Enroll(ctx, 10, first.ID)
	require.NoError(t, err)

	listing, err := fx.service.ListAvailable(ctx, 10, repository.CourseFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.EqualValues(t, 2, listing.Total)
	require.Len(t, listing.Courses, 2)

	byID := make(map[uint]bool, len(listing.Courses))
	for _, course := range listing.Courses {
		byID[course.ID] = course.Enrolled
	}
	require.True(t, byID[first.ID])
	require.False(t, byID[second.ID])
}

func TestListEnrolledHidesDeletedCourses(t *testing.T) {
	fx := newEnrollmentServiceFixture(t)
	ctx := context.Background()

	course := fx.seedCourse(t, models.CourseStatusPublished, nil)
	_, err := fx.service.Enroll(ctx, 10, course.ID)
	require.NoError(t, err)

	enrolled, err := fx.service.ListEnrolled(ctx, 10)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	require.NotNil(t, enrolled[0].Course)

	require.NoError(t, fx.courses.SoftDelete(ctx, course.ID, enrolled[0].EnrolledAt))

	enrolled, err = fx.service.ListEnrolled(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, enrolled)
}
