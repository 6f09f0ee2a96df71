package lifecycle

import "github.com/campushq/lms-api/internal/models"

// Courses is the course status table. The published -> archived transition
// carries the assignment-closing cascade, executed by the course service.
var Courses = NewTable(
	[2]string{models.CourseStatusDraft, models.CourseStatusPublished},
	[2]string{models.CourseStatusPublished, models.CourseStatusArchived},
	[2]string{models.CourseStatusPublished, models.CourseStatusDraft},
	[2]string{models.CourseStatusArchived, models.CourseStatusDraft},
)

// Assignments is the assignment status table.
var Assignments = NewTable(
	[2]string{models.AssignmentStatusDraft, models.AssignmentStatusPublished},
	[2]string{models.AssignmentStatusPublished, models.AssignmentStatusClosed},
	[2]string{models.AssignmentStatusDraft, models.AssignmentStatusClosed},
)

// Submissions is the submission status table. A fresh submit re-enters
// "submitted" from either graded state via the resubmission path, which the
// submission service gates on the assignment policy.
var Submissions = NewTable(
	[2]string{models.SubmissionStatusSubmitted, models.SubmissionStatusGraded},
	[2]string{models.SubmissionStatusSubmitted, models.SubmissionStatusResubmissionRequired},
	[2]string{models.SubmissionStatusGraded, models.SubmissionStatusResubmissionRequired},
	[2]string{models.SubmissionStatusResubmissionRequired, models.SubmissionStatusSubmitted},
	[2]string{models.SubmissionStatusGraded, models.SubmissionStatusSubmitted},
)

// Reports is the moderation status table.
var Reports = NewTable(
	[2]string{models.ReportStatusOpen, models.ReportStatusUnderReview},
	[2]string{models.ReportStatusUnderReview, models.ReportStatusResolved},
	[2]string{models.ReportStatusUnderReview, models.ReportStatusDismissed},
)
