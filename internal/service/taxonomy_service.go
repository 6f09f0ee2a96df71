package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/apperr"
	"github.com/campushq/lms-api/internal/dto"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

// TaxonomyService manages the operator-curated categories and difficulties.
type TaxonomyService interface {
	ListCategories(ctx context.Context, onlyActive bool) ([]dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, payload dto.CategoryRequest) (dto.CategoryResponse, error)
	RenameCategory(ctx context.Context, id uint, payload dto.CategoryRequest) (dto.CategoryResponse, error)
	SetCategoryActive(ctx context.Context, id uint, active bool) (dto.CategoryResponse, error)
	ListDifficulties(ctx context.Context, onlyActive bool) ([]dto.DifficultyResponse, error)
	CreateDifficulty(ctx context.Context, payload dto.DifficultyRequest) (dto.DifficultyResponse, error)
	RenameDifficulty(ctx context.Context, id uint, payload dto.DifficultyRequest) (dto.DifficultyResponse, error)
	SetDifficultyActive(ctx context.Context, id uint, active bool) (dto.DifficultyResponse, error)
}

type taxonomyService struct {
	repo      repository.TaxonomyRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTaxonomyService builds a taxonomy service.
func NewTaxonomyService(repo repository.TaxonomyRepository, validate *validator.Validate, logger zerolog.Logger) TaxonomyService {
	return &taxonomyService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "taxonomy_service").Logger(),
	}
}

func (s *taxonomyService) ListCategories(ctx context.Context, onlyActive bool) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx, onlyActive)
	if err != nil {
		return nil, err
	}

	return dto.NewCategoryResponseSlice(categories), nil
}

func (s *taxonomyService) CreateCategory(ctx context.Context, payload dto.CategoryRequest) (dto.CategoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CategoryResponse{}, err
	}

	category := models.Category{Name: strings.TrimSpace(payload.Name), IsActive: true}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CategoryResponse{}, apperr.Newf(apperr.CodeDuplicate, "category %q already exists", category.Name)
		}
		return dto.CategoryResponse{}, err
	}

	s.logger.Info().Uint("category_id", category.ID).Msg("category created")

	return dto.NewCategoryResponse(category), nil
}

func (s *taxonomyService) RenameCategory(ctx context.Context, id uint, payload dto.CategoryRequest) (dto.CategoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CategoryResponse{}, err
	}

	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, apperr.New(apperr.CodeNotFound, "category not found")
		}
		return dto.CategoryResponse{}, err
	}

	category.Name = strings.TrimSpace(payload.Name)
	if err := s.repo.UpdateCategory(ctx, &category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CategoryResponse{}, apperr.Newf(apperr.CodeDuplicate, "category %q already exists", category.Name)
		}
		return dto.CategoryResponse{}, err
	}

	return dto.NewCategoryResponse(category), nil
}

func (s *taxonomyService) SetCategoryActive(ctx context.Context, id uint, active bool) (dto.CategoryResponse, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, apperr.New(apperr.CodeNotFound, "category not found")
		}
		return dto.CategoryResponse{}, err
	}

	category.IsActive = active
	if err := s.repo.UpdateCategory(ctx, &category); err != nil {
		return dto.CategoryResponse{}, err
	}

	s.logger.Info().Uint("category_id", category.ID).Bool("active", active).Msg("category active flag changed")

	return dto.NewCategoryResponse(category), nil
}

func (s *taxonomyService) ListDifficulties(ctx context.Context, onlyActive bool) ([]dto.DifficultyResponse, error) {
	difficulties, err := s.repo.ListDifficulties(ctx, onlyActive)
	if err != nil {
		return nil, err
	}

	return dto.NewDifficultyResponseSlice(difficulties), nil
}

func (s *taxonomyService) CreateDifficulty(ctx context.Context, payload dto.DifficultyRequest) (dto.DifficultyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DifficultyResponse{}, err
	}

	difficulty := models.Difficulty{Name: strings.TrimSpace(payload.Name), Rank: payload.Rank, IsActive: true}
	if err := s.repo.CreateDifficulty(ctx, &difficulty); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.DifficultyResponse{}, apperr.Newf(apperr.CodeDuplicate, "difficulty %q already exists", difficulty.Name)
		}
		return dto.DifficultyResponse{}, err
	}

	s.logger.Info().Uint("difficulty_id", difficulty.ID).Msg("difficulty created")

	return dto.NewDifficultyResponse(difficulty), nil
}

func (s *taxonomyService) RenameDifficulty(ctx context.Context, id uint, payload dto.DifficultyRequest) (dto.DifficultyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DifficultyResponse{}, err
	}

	difficulty, err := s.repo.GetDifficulty(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DifficultyResponse{}, apperr.New(apperr.CodeNotFound, "difficulty not found")
		}
		return dto.DifficultyResponse{}, err
	}

	difficulty.Name = strings.TrimSpace(payload.Name)
	difficulty.Rank = payload.Rank
	if err := s.repo.UpdateDifficulty(ctx, &difficulty); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.DifficultyResponse{}, apperr.Newf(apperr.CodeDuplicate, "difficulty %q already exists", difficulty.Name)
		}
		return dto.DifficultyResponse{}, err
	}

	return dto.NewDifficultyResponse(difficulty), nil
}

func (s *taxonomyService) SetDifficultyActive(ctx context.Context, id uint, active bool) (dto.DifficultyResponse, error) {
	difficulty, err := s.repo.GetDifficulty(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DifficultyResponse{}, apperr.New(apperr.CodeNotFound, "difficulty not found")
		}
		return dto.DifficultyResponse{}, err
	}

	difficulty.IsActive = active
	if err := s.repo.UpdateDifficulty(ctx, &difficulty); err != nil {
		return dto.DifficultyResponse{}, err
	}

	s.logger.Info().Uint("difficulty_id", difficulty.ID).Bool("active", active).Msg("difficulty active flag changed")

	return dto.NewDifficultyResponse(difficulty), nil
}
