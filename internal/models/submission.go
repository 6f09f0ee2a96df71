package models

import "time"

// Submission statuses.
const (
	SubmissionStatusSubmitted            = "submitted"
	SubmissionStatusGraded               = "graded"
	SubmissionStatusResubmissionRequired = "resubmission_required"
)

// Submission is a learner's work on one assignment. At most one row exists
// per (learner, assignment); a resubmission rewrites the row in place.
// IsLate is recorded at submission time and never recomputed.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_assignment_learner" json:"assignment_id"`
	LearnerID    uint       `gorm:"not null;uniqueIndex:idx_assignment_learner" json:"learner_id"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Link         string     `gorm:"size:512" json:"link"`
	Status       string     `gorm:"size:32;not null;default:submitted" json:"status"`
	IsLate       bool       `gorm:"not null;default:false" json:"is_late"`
	Score        *float64   `json:"score"`
	Feedback     *string    `gorm:"type:text" json:"feedback"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	GradedAt     *time.Time `json:"graded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Assignment *Assignment `json:"assignment,omitempty"`
}

// IsGraded reports whether the submission carries a final score.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
