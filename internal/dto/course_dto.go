package dto

import (
	"time"

	"github.com/campushq/lms-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Description  string `json:"description" validate:"omitempty,min=10"`
	CategoryID   *uint  `json:"category_id" validate:"omitempty,gt=0"`
	DifficultyID *uint  `json:"difficulty_id" validate:"omitempty,gt=0"`
	Capacity     *int   `json:"capacity" validate:"omitempty,gt=0"`
}

// CourseUpdateRequest describes the payload for updating a course.
type CourseUpdateRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description  *string `json:"description" validate:"omitempty,min=10"`
	CategoryID   *uint   `json:"category_id" validate:"omitempty,gt=0"`
	DifficultyID *uint   `json:"difficulty_id" validate:"omitempty,gt=0"`
	Capacity     *int    `json:"capacity" validate:"omitempty,gt=0"`
}

// CourseStatusRequest asks for a status transition.
type CourseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published archived"`
}

// CourseResponse is the serialized course returned to API clients.
type CourseResponse struct {
	ID              uint       `json:"id"`
	OwnerID         uint       `json:"owner_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CategoryID      *uint      `json:"category_id,omitempty"`
	Category        string     `json:"category,omitempty"`
	DifficultyID    *uint      `json:"difficulty_id,omitempty"`
	Difficulty      string     `json:"difficulty,omitempty"`
	Status          string     `json:"status"`
	Capacity        *int       `json:"capacity,omitempty"`
	EnrollmentCount int        `json:"enrollment_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
}

// AvailableCourseResponse annotates a published course with the requesting
// learner's enrollment state.
type AvailableCourseResponse struct {
	CourseResponse
	Enrolled bool `json:"enrolled"`
}

// CourseListResponse wraps a paginated course listing.
type CourseListResponse struct {
	Courses  []AvailableCourseResponse `json:"courses"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:              model.ID,
		OwnerID:         model.OwnerID,
		Title:           model.Title,
		Description:     model.Description,
		CategoryID:      model.CategoryID,
		DifficultyID:    model.DifficultyID,
		Status:          model.Status,
		Capacity:        model.Capacity,
		EnrollmentCount: model.EnrollmentCount,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		PublishedAt:     model.PublishedAt,
		ArchivedAt:      model.ArchivedAt,
	}
	if model.Category != nil {
		response.Category = model.Category.Name
	}
	if model.Difficulty != nil {
		response.Difficulty = model.Difficulty.Name
	}

	return response
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
