package models

import "time"

// Role values mirror the claims issued by the external identity provider.
const (
	RoleInstructor = "instructor"
	RoleLearner    = "learner"
	RoleOperator   = "operator"
)

// User is a locally mirrored account record. Authentication happens at the
// identity provider; this row only anchors foreign keys and display data.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
