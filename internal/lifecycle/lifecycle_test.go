package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campushq/lms-api/internal/models"
)

func TestTableRejectsSelfTransitions(t *testing.T) {
	table := NewTable([2]string{"a", "b"}, [2]string{"a", "a"})

	require.True(t, table.CanTransition("a", "b"))
	require.False(t, table.CanTransition("a", "a"), "self transitions are never allowed, even when declared")
	require.False(t, table.CanTransition("b", "a"))
	require.False(t, table.CanTransition("unknown", "b"))
}

func TestCourseTable(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.CourseStatusDraft, models.CourseStatusPublished, true},
		{models.CourseStatusPublished, models.CourseStatusArchived, true},
		{models.CourseStatusPublished, models.CourseStatusDraft, true},
		{models.CourseStatusArchived, models.CourseStatusDraft, true},
		{models.CourseStatusDraft, models.CourseStatusArchived, false},
		{models.CourseStatusArchived, models.CourseStatusPublished, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, Courses.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAssignmentTableClosedIsTerminal(t *testing.T) {
	require.True(t, Assignments.CanTransition(models.AssignmentStatusDraft, models.AssignmentStatusClosed))
	require.True(t, Assignments.CanTransition(models.AssignmentStatusPublished, models.AssignmentStatusClosed))
	require.Empty(t, Assignments.Targets(models.AssignmentStatusClosed))
}

func TestSubmissionTableReopenPaths(t *testing.T) {
	require.True(t, Submissions.CanTransition(models.SubmissionStatusGraded, models.SubmissionStatusResubmissionRequired))
	require.True(t, Submissions.CanTransition(models.SubmissionStatusResubmissionRequired, models.SubmissionStatusSubmitted))
	require.False(t, Submissions.CanTransition(models.SubmissionStatusResubmissionRequired, models.SubmissionStatusGraded))
}

func TestReportTableTerminalStates(t *testing.T) {
	require.True(t, Reports.CanTransition(models.ReportStatusOpen, models.ReportStatusUnderReview))
	require.True(t, Reports.CanTransition(models.ReportStatusUnderReview, models.ReportStatusResolved))
	require.True(t, Reports.CanTransition(models.ReportStatusUnderReview, models.ReportStatusDismissed))
	require.Empty(t, Reports.Targets(models.ReportStatusResolved))
	require.Empty(t, Reports.Targets(models.ReportStatusDismissed))
	require.False(t, Reports.CanTransition(models.ReportStatusOpen, models.ReportStatusResolved))
}
