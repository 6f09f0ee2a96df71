package dto

import (
	"time"

	"github.com/campushq/lms-api/internal/models"
)

// EnrollmentResponse is the serialized enrollment returned to API clients.
type EnrollmentResponse struct {
	ID         uint            `json:"id"`
	LearnerID  uint            `json:"learner_id"`
	CourseID   uint            `json:"course_id"`
	Status     string          `json:"status"`
	EnrolledAt time.Time       `json:"enrolled_at"`
	Course     *CourseResponse `json:"course,omitempty"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	response := EnrollmentResponse{
		ID:         model.ID,
		LearnerID:  model.LearnerID,
		CourseID:   model.CourseID,
		Status:     model.Status,
		EnrolledAt: model.EnrolledAt,
	}
	if model.Course != nil {
		course := NewCourseResponse(*model.Course)
		response.Course = &course
	}

	return response
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
