package dto

import (
	"time"

	"github.com/campushq/lms-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	CourseID          uint    `json:"course_id" validate:"required,gt=0"`
	Title             string  `json:"title" validate:"required,min=3,max=255"`
	Description       string  `json:"description" validate:"omitempty,min=10"`
	DueDate           string  `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	PointsWeight      float64 `json:"points_weight" validate:"gte=0,lte=1"`
	AllowLate         bool    `json:"allow_late"`
	AllowResubmission bool    `json:"allow_resubmission"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
type AssignmentUpdateRequest struct {
	Title             *string  `json:"title" validate:"omitempty,min=3,max=255"`
	Description       *string  `json:"description" validate:"omitempty,min=10"`
	DueDate           *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	PointsWeight      *float64 `json:"points_weight" validate:"omitempty,gte=0,lte=1"`
	AllowLate         *bool    `json:"allow_late"`
	AllowResubmission *bool    `json:"allow_resubmission"`
}

// AssignmentStatusRequest asks for a status transition.
type AssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published closed"`
}

// AssignmentResponse is the serialized assignment returned to API clients.
type AssignmentResponse struct {
	ID                uint       `json:"id"`
	CourseID          uint       `json:"course_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	DueDate           time.Time  `json:"due_date"`
	PointsWeight      float64    `json:"points_weight"`
	Status            string     `json:"status"`
	AllowLate         bool       `json:"allow_late"`
	AllowResubmission bool       `json:"allow_resubmission"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                model.ID,
		CourseID:          model.CourseID,
		Title:             model.Title,
		Description:       model.Description,
		DueDate:           model.DueDate,
		PointsWeight:      model.PointsWeight,
		Status:            model.Status,
		AllowLate:         model.AllowLate,
		AllowResubmission: model.AllowResubmission,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		PublishedAt:       model.PublishedAt,
		ClosedAt:          model.ClosedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
