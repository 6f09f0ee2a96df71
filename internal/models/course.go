package models

import "time"

// Course statuses.
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

// Course is an instructor-owned unit of teaching that learners enroll into.
// A non-null DeletedAt hides the row from every query path.
type Course struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OwnerID         uint       `gorm:"not null;index" json:"owner_id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	CategoryID      *uint      `gorm:"index" json:"category_id"`
	DifficultyID    *uint      `gorm:"index" json:"difficulty_id"`
	Status          string     `gorm:"size:32;not null;default:draft" json:"status"`
	Capacity        *int       `json:"capacity"`
	EnrollmentCount int        `gorm:"not null;default:0" json:"enrollment_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at"`
	ArchivedAt      *time.Time `json:"archived_at"`
	DeletedAt       *time.Time `gorm:"index" json:"-"`

	Category   *Category   `json:"category,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
}

// IsPublished reports whether learners can currently enroll.
func (c Course) IsPublished() bool {
	return c.Status == CourseStatusPublished
}

// IsArchived reports whether the course reached its terminal read-only state.
func (c Course) IsArchived() bool {
	return c.Status == CourseStatusArchived
}

// HasCapacityFor reports whether one more active enrollment fits. A nil
// Capacity means unlimited.
func (c Course) HasCapacityFor(activeCount int) bool {
	if c.Capacity == nil {
		return true
	}
	return activeCount < *c.Capacity
}
