package dto

import (
	"time"

	"github.com/campushq/lms-api/internal/models"
)

// ReportCreateRequest files a moderation report.
type ReportCreateRequest struct {
	SubjectType string `json:"subject_type" validate:"required,oneof=course submission user"`
	SubjectID   uint   `json:"subject_id" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"required,min=10,max=5000"`
}

// ReportDecisionRequest moves a report to a new moderation state.
type ReportDecisionRequest struct {
	Status         string `json:"status" validate:"required,oneof=under_review resolved dismissed"`
	ResolutionNote string `json:"resolution_note" validate:"omitempty,max=5000"`
}

// ReportResponse is the serialized report returned to operators.
type ReportResponse struct {
	ID             uint       `json:"id"`
	ReporterID     uint       `json:"reporter_id"`
	SubjectType    string     `json:"subject_type"`
	SubjectID      uint       `json:"subject_id"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ResolutionNote *string    `json:"resolution_note,omitempty"`
	ReviewedBy     *uint      `json:"reviewed_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// ReportListResponse wraps a paginated report listing.
type ReportListResponse struct {
	Reports  []ReportResponse `json:"reports"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// NewReportResponse converts a model into a DTO.
func NewReportResponse(model models.Report) ReportResponse {
	return ReportResponse{
		ID:             model.ID,
		ReporterID:     model.ReporterID,
		SubjectType:    model.SubjectType,
		SubjectID:      model.SubjectID,
		Reason:         model.Reason,
		Status:         model.Status,
		ResolutionNote: model.ResolutionNote,
		ReviewedBy:     model.ReviewedBy,
		CreatedAt:      model.CreatedAt,
		ResolvedAt:     model.ResolvedAt,
	}
}

// NewReportResponseSlice converts a slice of models into DTOs.
func NewReportResponseSlice(reports []models.Report) []ReportResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, NewReportResponse(report))
	}

	return responses
}
