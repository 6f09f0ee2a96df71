package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/utils"
)

var statusByCode = map[apperr.Code]int{
	apperr.CodeNotFound:               fiber.StatusNotFound,
	apperr.CodePermissionDenied:       fiber.StatusForbidden,
	apperr.CodeInvalidTransition:      fiber.StatusBadRequest,
	apperr.CodeValidation:             fiber.StatusBadRequest,
	apperr.CodeWeightExceeded:         fiber.StatusConflict,
	apperr.CodeCapacityExceeded:       fiber.StatusConflict,
	apperr.CodeDeadlinePassed:         fiber.StatusBadRequest,
	apperr.CodeDuplicate:              fiber.StatusConflict,
	apperr.CodeNotEnrolled:            fiber.StatusBadRequest,
	apperr.CodeCourseArchived:         fiber.StatusConflict,
	apperr.CodeCourseNotPublished:     fiber.StatusConflict,
	apperr.CodeResubmissionNotAllowed: fiber.StatusConflict,
	apperr.CodeHasActiveEnrollments:   fiber.StatusConflict,
}

// respondError translates service-layer failures into transport responses.
// Coded domain errors map to their HTTP status; validator errors become 400;
// anything else is an internal error.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var coded *apperr.Error
	if errors.As(err, &coded) {
		status, ok := statusByCode[coded.Code]
		if !ok {
			status = fiber.StatusBadRequest
		}
		return utils.SendErrorCode(c, status, string(coded.Code), coded.Message)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, string(apperr.CodeValidation), validationErrors.Error())
	}

	logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := c.Params(key)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) *uint {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil
	}
	result := uint(parsed)
	return &result
}

func parseQueryInt(c *fiber.Ctx, key string, fallback int) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
