package models

import "time"

// Assignment statuses.
const (
	AssignmentStatusDraft     = "draft"
	AssignmentStatusPublished = "published"
	AssignmentStatusClosed    = "closed"
)

// Assignment is graded work inside a course. PointsWeight is the fractional
// contribution (0..1) to the course total; the sum over a course's non-deleted
// assignments never exceeds 1.
type Assignment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CourseID          uint       `gorm:"not null;index" json:"course_id"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	DueDate           time.Time  `gorm:"not null" json:"due_date"`
	PointsWeight      float64    `gorm:"not null" json:"points_weight"`
	Status            string     `gorm:"size:32;not null;default:draft" json:"status"`
	AllowLate         bool       `gorm:"not null;default:false" json:"allow_late"`
	AllowResubmission bool       `gorm:"not null;default:false" json:"allow_resubmission"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	PublishedAt       *time.Time `json:"published_at"`
	ClosedAt          *time.Time `json:"closed_at"`
	DeletedAt         *time.Time `gorm:"index" json:"-"`

	Course *Course `json:"course,omitempty"`
}

// IsPastDue returns true when the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}

// AcceptsSubmissions reports whether learners may currently submit.
func (a Assignment) AcceptsSubmissions() bool {
	return a.Status == AssignmentStatusPublished && a.DeletedAt == nil
}
