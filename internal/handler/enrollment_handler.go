package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/repository"
	"github.com/campushq/lms-api/internal/service"
	"github.com/campushq/lms-api/internal/utils"
)

// EnrollmentHandler manages the learner-facing catalog and enrollment
// endpoints.
type EnrollmentHandler struct {
	service         service.EnrollmentService
	defaultPageSize int
	maxPageSize     int
	logger          zerolog.Logger
}

// NewEnrollmentHandler builds an enrollment handler instance.
func NewEnrollmentHandler(service service.EnrollmentService, defaultPageSize, maxPageSize int, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EnrollmentHandler) Register(router fiber.Router, enrollLimiter fiber.Handler) {
	router.Get("/courses", h.listAvailable)
	router.Get("/enrollments", h.listEnrolled)
	if enrollLimiter != nil {
		router.Post("/courses/:id/enroll", enrollLimiter, h.enroll)
	} else {
		router.Post("/courses/:id/enroll", h.enroll)
	}
	router.Delete("/courses/:id/enroll", h.cancel)
}

func (h *EnrollmentHandler) listAvailable(c *fiber.Ctx) error {
	pageSize := parseQueryInt(c, "page_size", h.defaultPageSize)
	if pageSize <= 0 {
		pageSize = h.defaultPageSize
	}
	if pageSize > h.maxPageSize {
		pageSize = h.maxPageSize
	}

	filter := repository.CourseFilter{
		CategoryID:   parseQueryUint(c, "category_id"),
		DifficultyID: parseQueryUint(c, "difficulty_id"),
		Page:         parseQueryInt(c, "page", 1),
		PageSize:     pageSize,
	}

	listing, err := h.service.ListAvailable(c.Context(), userIDFromContext(c), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "courses retrieved", listing)
}

func (h *EnrollmentHandler) listEnrolled(c *fiber.Ctx) error {
	enrollments, err := h.service.ListEnrolled(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	enrollment, err := h.service.Enroll(c.Context(), userIDFromContext(c), courseID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "enrolled", enrollment)
}

func (h *EnrollmentHandler) cancel(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	enrollment, err := h.service.Cancel(c.Context(), userIDFromContext(c), courseID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "enrollment cancelled", enrollment)
}
