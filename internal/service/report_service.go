package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/lifecycle"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

// ReportService handles the operator moderation workflow. It runs on the same
// transition-table mechanism as the academic entities but touches none of
// their tables.
type ReportService interface {
	File(ctx context.Context, reporterID uint, payload dto.ReportCreateRequest) (dto.ReportResponse, error)
	Decide(ctx context.Context, operatorID, reportID uint, payload dto.ReportDecisionRequest) (dto.ReportResponse, error)
	List(ctx context.Context, filter repository.ReportFilter) (dto.ReportListResponse, error)
	Get(ctx context.Context, reportID uint) (dto.ReportResponse, error)
}

type reportService struct {
	repo      repository.ReportRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReportService builds a report service.
func NewReportService(repo repository.ReportRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ReportService {
	return &reportService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "report_service").Logger(),
		now:       time.Now,
	}
}

func (s *reportService) File(ctx context.Context, reporterID uint, payload dto.ReportCreateRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	report := models.Report{
		ReporterID:  reporterID,
		SubjectType: payload.SubjectType,
		SubjectID:   payload.SubjectID,
		Reason:      strings.TrimSpace(payload.Reason),
		Status:      models.ReportStatusOpen,
	}

	if err := s.repo.Create(ctx, &report); err != nil {
		return dto.ReportResponse{}, err
	}

	s.logger.Info().Uint("report_id", report.ID).Str("subject_type", report.SubjectType).Msg("report filed")

	return dto.NewReportResponse(report), nil
}

// Decide moves a report through its status machine. Resolving or dismissing
// requires a resolution note; both are only reachable from under_review.
func (s *reportService) Decide(ctx context.Context, operatorID, reportID uint, payload dto.ReportDecisionRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, apperr.New(apperr.CodeNotFound, "report not found")
		}
		return dto.ReportResponse{}, err
	}

	if !lifecycle.Reports.CanTransition(report.Status, payload.Status) {
		return dto.ReportResponse{}, apperr.Newf(apperr.CodeInvalidTransition,
			"report cannot move from %s to %s", report.Status, payload.Status)
	}

	note := strings.TrimSpace(payload.ResolutionNote)
	terminal := payload.Status == models.ReportStatusResolved || payload.Status == models.ReportStatusDismissed
	if terminal && note == "" {
		return dto.ReportResponse{}, apperr.New(apperr.CodeValidation, "resolution note is required")
	}

	previous := report.Status
	report.Status = payload.Status
	report.ReviewedBy = &operatorID
	if terminal {
		now := s.now()
		report.ResolvedAt = &now
		report.ResolutionNote = &note
	}

	if err := s.repo.Update(ctx, &report); err != nil {
		return dto.ReportResponse{}, err
	}

	if s.activity != nil {
		id := report.ID
		s.activity.Record(ctx, ActivityEntry{
			ActorID:    operatorID,
			ActorRole:  models.RoleOperator,
			Action:     "report." + payload.Status,
			EntityType: "report",
			EntityID:   &id,
			Metadata: map[string]interface{}{
				"from": previous,
				"to":   payload.Status,
			},
		})
	}

	s.logger.Info().Uint("report_id", report.ID).Str("from", previous).Str("to", payload.Status).Msg("report decided")

	return dto.NewReportResponse(report), nil
}

func (s *reportService) List(ctx context.Context, filter repository.ReportFilter) (dto.ReportListResponse, error) {
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ReportListResponse{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}

	return dto.ReportListResponse{
		Reports:  dto.NewReportResponseSlice(reports),
		Total:    total,
		Page:     page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *reportService) Get(ctx context.Context, reportID uint) (dto.ReportResponse, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, apperr.New(apperr.CodeNotFound, "report not found")
		}
		return dto.ReportResponse{}, err
	}

	return dto.NewReportResponse(report), nil
}
