package dto

import (
	"time"

	"github.com/campushq/lms-api/internal/models"
)

// SubmitRequest describes a learner handing in work for an assignment.
type SubmitRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	Content      string `json:"content" validate:"required,min=1"`
	Link         string `json:"link" validate:"omitempty,url,max=512"`
}

// SubmissionResponse is the serialized submission returned to API clients.
type SubmissionResponse struct {
	ID           uint                `json:"id"`
	AssignmentID uint                `json:"assignment_id"`
	LearnerID    uint                `json:"learner_id"`
	Content      string              `json:"content"`
	Link         string              `json:"link,omitempty"`
	Status       string              `json:"status"`
	IsLate       bool                `json:"is_late"`
	Score        *float64            `json:"score"`
	Feedback     *string             `json:"feedback"`
	SubmittedAt  time.Time           `json:"submitted_at"`
	GradedAt     *time.Time          `json:"graded_at"`
	Assignment   *AssignmentResponse `json:"assignment,omitempty"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		LearnerID:    model.LearnerID,
		Content:      model.Content,
		Link:         model.Link,
		Status:       model.Status,
		IsLate:       model.IsLate,
		Score:        model.Score,
		Feedback:     model.Feedback,
		SubmittedAt:  model.SubmittedAt,
		GradedAt:     model.GradedAt,
	}
	if model.Assignment != nil {
		assignment := NewAssignmentResponse(*model.Assignment)
		response.Assignment = &assignment
	}

	return response
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
