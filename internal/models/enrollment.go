package models

import "time"

// Enrollment statuses.
const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCancelled = "cancelled"
)

// Enrollment links a learner to a course. The unique index on
// (learner_id, course_id) keeps one row per pair regardless of status and is
// the authoritative defense against concurrent double-enrolls; re-enrolling
// after cancellation reactivates that row instead of inserting a second one.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LearnerID  uint      `gorm:"not null;uniqueIndex:idx_learner_course" json:"learner_id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_learner_course" json:"course_id"`
	Status     string    `gorm:"size:32;not null;default:active" json:"status"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Course *Course `json:"course,omitempty"`
}

// IsActive reports whether the learner currently holds the seat.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
