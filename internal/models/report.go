package models

import "time"

// Report statuses. Reports move open -> under_review -> resolved|dismissed;
// the workflow never touches academic tables.
const (
	ReportStatusOpen        = "open"
	ReportStatusUnderReview = "under_review"
	ReportStatusResolved    = "resolved"
	ReportStatusDismissed   = "dismissed"
)

// Report subject types.
const (
	ReportSubjectCourse     = "course"
	ReportSubjectSubmission = "submission"
	ReportSubjectUser       = "user"
)

// Report is a user-filed moderation request handled by operators.
type Report struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ReporterID     uint       `gorm:"not null;index" json:"reporter_id"`
	SubjectType    string     `gorm:"size:32;not null" json:"subject_type"`
	SubjectID      uint       `gorm:"not null" json:"subject_id"`
	Reason         string     `gorm:"type:text;not null" json:"reason"`
	Status         string     `gorm:"size:32;not null;default:open" json:"status"`
	ResolutionNote *string    `gorm:"type:text" json:"resolution_note"`
	ReviewedBy     *uint      `json:"reviewed_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ResolvedAt     *time.Time `json:"resolved_at"`
}

// IsTerminal reports whether the moderation decision is final.
func (r Report) IsTerminal() bool {
	return r.Status == ReportStatusResolved || r.Status == ReportStatusDismissed
}
