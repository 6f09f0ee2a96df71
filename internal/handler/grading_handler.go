package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/service"
	"github.com/campushq/lms-api/internal/utils"
)

// GradingHandler exposes the instructor grading endpoints.
type GradingHandler struct {
	grading     service.GradingService
	submissions service.SubmissionService
	logger      zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(grading service.GradingService, submissions service.SubmissionService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		grading:     grading,
		submissions: submissions,
		logger:      logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Get("/assignments/:id/submissions", h.listForAssignment)
	router.Put("/submissions/:id/grade", h.grade)
}

func (h *GradingHandler) listForAssignment(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submissions, err := h.submissions.ListForAssignment(c.Context(), assignmentID, userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *GradingHandler) grade(c *fiber.Ctx) error {
	submissionID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.grading.Grade(c.Context(), userIDFromContext(c), submissionID, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "grading decision applied", submission)
}
