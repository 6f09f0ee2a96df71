package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/service"
	"github.com/campushq/lms-api/internal/utils"
)

// ActivityHandler exposes the operator audit trail.
type ActivityHandler struct {
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewActivityHandler builds an activity handler instance.
func NewActivityHandler(activity service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		logger:   logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/activity", h.listRecent)
}

func (h *ActivityHandler) listRecent(c *fiber.Ctx) error {
	limit := parseQueryInt(c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entries, err := h.activity.ListRecent(c.Context(), limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activity retrieved", entries)
}
