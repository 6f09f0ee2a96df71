package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

func newReportServiceFixture(t *testing.T) (*memoryReportRepo, *recordedActivity, ReportService) {
	t.Helper()

	repo := newMemoryReportRepo()
	activity := &recordedActivity{}
	svc := NewReportService(repo, validator.New(validator.WithRequiredStructEnabled()), activity, testLogger())
	return repo, activity, svc
}

func fileReport(t *testing.T, svc ReportService) dto.ReportResponse {
	t.Helper()

	report, err := svc.File(context.Background(), 10, dto.ReportCreateRequest{
		SubjectType: models.ReportSubjectCourse,
		SubjectID:   3,
		Reason:      "This course description contains offensive language.",
	})
	require.NoError(t, err)
	return report
}

func TestReportFileStartsOpen(t *testing.T) {
	_, _, svc := newReportServiceFixture(t)

	report := fileReport(t, svc)
	require.Equal(t, models.ReportStatusOpen, report.Status)
	require.EqualValues(t, 10, report.ReporterID)
}

func TestReportFileValidatesSubjectAndReason(t *testing.T) {
	_, _, svc := newReportServiceFixture(t)
	ctx := context.Background()

	_, err := svc.File(ctx, 10, dto.ReportCreateRequest{
		SubjectType: "invoice", SubjectID: 3, Reason: "A long enough reason to pass length validation.",
	})
	require.Error(t, err)

	_, err = svc.File(ctx, 10, dto.ReportCreateRequest{
		SubjectType: models.ReportSubjectUser, SubjectID: 3, Reason: "short",
	})
	require.Error(t, err)
}

func TestReportDecisionWorkflow(t *testing.T) {
	_, activity, svc := newReportServiceFixture(t)
	ctx := context.Background()

	report := fileReport(t, svc)

	// open -> resolved skips review.
	_, err := svc.Decide(ctx, 5, report.ID, dto.ReportDecisionRequest{
		Status: models.ReportStatusResolved, ResolutionNote: "Cleaned up.",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))

	reviewing, err := svc.Decide(ctx, 5, report.ID, dto.ReportDecisionRequest{Status: models.ReportStatusUnderReview})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusUnderReview, reviewing.Status)
	require.NotNil(t, reviewing.ReviewedBy)
	require.EqualValues(t, 5, *reviewing.ReviewedBy)

	// Terminal decisions need a resolution note.
	_, err = svc.Decide(ctx, 5, report.ID, dto.ReportDecisionRequest{Status: models.ReportStatusDismissed})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	resolved, err := svc.Decide(ctx, 5, report.ID, dto.ReportDecisionRequest{
		Status: models.ReportStatusResolved, ResolutionNote: "Course owner edited the description.",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, resolved.ResolutionNote)

	// Resolved is terminal.
	_, err = svc.Decide(ctx, 5, report.ID, dto.ReportDecisionRequest{Status: models.ReportStatusUnderReview})
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidTransition, apperr.CodeOf(err))

	require.Len(t, activity.entries, 2)
	require.Equal(t, "report.under_review", activity.entries[0].Action)
	require.Equal(t, "report.resolved", activity.entries[1].Action)
}

func TestReportListFiltersByStatus(t *testing.T) {
	_, _, svc := newReportServiceFixture(t)
	ctx := context.Background()

	first := fileReport(t, svc)
	fileReport(t, svc)

	_, err := svc.Decide(ctx, 5, first.ID, dto.ReportDecisionRequest{Status: models.ReportStatusUnderReview})
	require.NoError(t, err)

	open := models.ReportStatusOpen
	listing, err := svc.List(ctx, repository.ReportFilter{Status: &open, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, listing.Total)
	require.Len(t, listing.Reports, 1)
	require.Equal(t, models.ReportStatusOpen, listing.Reports[0].Status)
}

func TestReportGetUnknownID(t *testing.T) {
	_, _, svc := newReportServiceFixture(t)

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
