package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/repository"
	"github.com/campushq/lms-api/internal/service"
	"github.com/campushq/lms-api/internal/utils"
)

// ReportHandler exposes report filing and the operator moderation queue.
type ReportHandler struct {
	reports service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler builds a report handler instance.
func NewReportHandler(reports service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// RegisterAuthenticated attaches the filing route available to any signed-in user.
func (h *ReportHandler) RegisterAuthenticated(router fiber.Router) {
	router.Post("/reports", h.file)
}

// RegisterOperator attaches the moderation routes.
func (h *ReportHandler) RegisterOperator(router fiber.Router) {
	router.Get("/reports", h.list)
	router.Get("/reports/:id", h.get)
	router.Put("/reports/:id/decision", h.decide)
}

func (h *ReportHandler) file(c *fiber.Ctx) error {
	var payload dto.ReportCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.reports.File(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "report filed", report)
}

func (h *ReportHandler) list(c *fiber.Ctx) error {
	filter := repository.ReportFilter{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	reports, err := h.reports.List(c.Context(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "reports retrieved", reports)
}

func (h *ReportHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reports.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "report retrieved", report)
}

func (h *ReportHandler) decide(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ReportDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.reports.Decide(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "decision recorded", report)
}
