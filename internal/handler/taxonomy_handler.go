package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/service"
	"github.com/campushq/lms-api/internal/utils"
)

// TaxonomyHandler exposes category and difficulty management. The read
// endpoints are public; mutation is registered on the operator group.
type TaxonomyHandler struct {
	taxonomy service.TaxonomyService
	logger   zerolog.Logger
}

// NewTaxonomyHandler builds a taxonomy handler instance.
func NewTaxonomyHandler(taxonomy service.TaxonomyService, logger zerolog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomy: taxonomy,
		logger:   logger.With().Str("component", "taxonomy_handler").Logger(),
	}
}

// RegisterPublic attaches the read-only listing routes.
func (h *TaxonomyHandler) RegisterPublic(router fiber.Router) {
	router.Get("/categories", h.listCategories)
	router.Get("/difficulties", h.listDifficulties)
}

// RegisterOperator attaches the mutation routes.
func (h *TaxonomyHandler) RegisterOperator(router fiber.Router) {
	router.Post("/categories", h.createCategory)
	router.Patch("/categories/:id", h.renameCategory)
	router.Put("/categories/:id/active", h.setCategoryActive)
	router.Post("/difficulties", h.createDifficulty)
	router.Patch("/difficulties/:id", h.renameDifficulty)
	router.Put("/difficulties/:id/active", h.setDifficultyActive)
}

func (h *TaxonomyHandler) listCategories(c *fiber.Ctx) error {
	onlyActive := c.QueryBool("active", true)

	categories, err := h.taxonomy.ListCategories(c.Context(), onlyActive)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "categories retrieved", categories)
}

func (h *TaxonomyHandler) createCategory(c *fiber.Ctx) error {
	var payload dto.CategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	category, err := h.taxonomy.CreateCategory(c.Context(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "category created", category)
}

func (h *TaxonomyHandler) renameCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	category, err := h.taxonomy.RenameCategory(c.Context(), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "category updated", category)
}

func (h *TaxonomyHandler) setCategoryActive(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActiveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	category, err := h.taxonomy.SetCategoryActive(c.Context(), id, payload.Active)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "category updated", category)
}

func (h *TaxonomyHandler) listDifficulties(c *fiber.Ctx) error {
	onlyActive := c.QueryBool("active", true)

	difficulties, err := h.taxonomy.ListDifficulties(c.Context(), onlyActive)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "difficulties retrieved", difficulties)
}

func (h *TaxonomyHandler) createDifficulty(c *fiber.Ctx) error {
	var payload dto.DifficultyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	difficulty, err := h.taxonomy.CreateDifficulty(c.Context(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "difficulty created", difficulty)
}

func (h *TaxonomyHandler) renameDifficulty(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DifficultyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	difficulty, err := h.taxonomy.RenameDifficulty(c.Context(), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "difficulty updated", difficulty)
}

func (h *TaxonomyHandler) setDifficultyActive(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActiveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	difficulty, err := h.taxonomy.SetDifficultyActive(c.Context(), id, payload.Active)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "difficulty updated", difficulty)
}
