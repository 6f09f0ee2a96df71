package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
// Every read excludes soft-deleted rows.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	ListByCourse(ctx context.Context, courseID uint, statuses ...string) ([]models.Assignment, error)
	SumWeights(ctx context.Context, courseID uint, excludeID uint) (float64, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	SoftDelete(ctx context.Context, id uint, at time.Time) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assignment{}).Where("deleted_at IS NULL")
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.base(ctx).Preload("Course").First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uint, statuses ...string) ([]models.Assignment, error) {
	query := r.base(ctx).Where("course_id = ?", courseID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var assignments []models.Assignment
	if err := query.Order("due_date ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) SumWeights(ctx context.Context, courseID uint, excludeID uint) (float64, error) {
	query := r.base(ctx).Where("course_id = ?", courseID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var total *float64
	if err := query.Select("SUM(points_weight)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}

	return *total, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	result := r.base(ctx).Where("id = ?", id).Update("deleted_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
