package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/models"
)

// TaxonomyRepository defines persistence operations for the shared
// category/difficulty taxonomy.
type TaxonomyRepository interface {
	ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	ListDifficulties(ctx context.Context, onlyActive bool) ([]models.Difficulty, error)
	GetDifficulty(ctx context.Context, id uint) (models.Difficulty, error)
	CreateDifficulty(ctx context.Context, difficulty *models.Difficulty) error
	UpdateDifficulty(ctx context.Context, difficulty *models.Difficulty) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository instantiates a GORM-backed repository.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *taxonomyRepository) GetCategory(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return models.Category{}, err
	}

	return category, nil
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *taxonomyRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *taxonomyRepository) ListDifficulties(ctx context.Context, onlyActive bool) ([]models.Difficulty, error) {
	query := r.db.WithContext(ctx).Model(&models.Difficulty{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var difficulties []models.Difficulty
	if err := query.Order("rank ASC").Find(&difficulties).Error; err != nil {
		return nil, err
	}

	return difficulties, nil
}

func (r *taxonomyRepository) GetDifficulty(ctx context.Context, id uint) (models.Difficulty, error) {
	var difficulty models.Difficulty
	if err := r.db.WithContext(ctx).First(&difficulty, id).Error; err != nil {
		return models.Difficulty{}, err
	}

	return difficulty, nil
}

func (r *taxonomyRepository) CreateDifficulty(ctx context.Context, difficulty *models.Difficulty) error {
	return r.db.WithContext(ctx).Create(difficulty).Error
}

func (r *taxonomyRepository) UpdateDifficulty(ctx context.Context, difficulty *models.Difficulty) error {
	return r.db.WithContext(ctx).Save(difficulty).Error
}
