package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/service"
	"github.com/campushq/lms-api/internal/utils"
)

// SeedHandler exposes development seeding endpoints. Requests carry the
// seed token in the X-Seed-Token header.
type SeedHandler struct {
	seeder service.SeedService
	logger zerolog.Logger
}

// NewSeedHandler builds a seed handler instance.
func NewSeedHandler(seeder service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		seeder: seeder,
		logger: logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register attaches the seeding routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/seed/users", h.seedUsers)
	router.Post("/seed/taxonomy", h.seedTaxonomy)
}

type seedUsersRequest struct {
	Users []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"users"`
}

type seedTaxonomyRequest struct {
	Categories   []string `json:"categories"`
	Difficulties []string `json:"difficulties"`
}

func (h *SeedHandler) seedUsers(c *fiber.Ctx) error {
	var payload seedUsersRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	users := make([]models.User, 0, len(payload.Users))
	for _, u := range payload.Users {
		users = append(users, models.User{Name: u.Name, Email: u.Email, Role: u.Role})
	}

	seeded, err := h.seeder.SeedUsers(c.Context(), c.Get("X-Seed-Token"), users)
	if err != nil {
		return h.respondSeedError(c, err)
	}

	return utils.SendSuccess(c, "users seeded", fiber.Map{"seeded": seeded})
}

func (h *SeedHandler) seedTaxonomy(c *fiber.Ctx) error {
	var payload seedTaxonomyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	seeded, err := h.seeder.SeedTaxonomy(c.Context(), c.Get("X-Seed-Token"), payload.Categories, payload.Difficulties)
	if err != nil {
		return h.respondSeedError(c, err)
	}

	return utils.SendSuccess(c, "taxonomy seeded", fiber.Map{"seeded": seeded})
}

func (h *SeedHandler) respondSeedError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid seed token")
	default:
		return respondError(c, h.logger, err)
	}
}
