package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/models"
)

// CourseFilter describes pagination and taxonomy filters for course listings.
type CourseFilter struct {
	CategoryID   *uint
	DifficultyID *uint
	Page         int
	PageSize     int
}

// CourseRepository defines persistence operations for courses. Every read
// excludes soft-deleted rows.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	TitleTaken(ctx context.Context, ownerID uint, title string, excludeID uint) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SoftDelete(ctx context.Context, id uint, at time.Time) error
	Archive(ctx context.Context, course *models.Course, at time.Time) (int64, error)
	ListPublished(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Course, error)
	AdjustEnrollmentCount(ctx context.Context, id uint, delta int) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Course{}).Where("deleted_at IS NULL")
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.base(ctx).
		Preload("Category").
		Preload("Difficulty").
		First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) TitleTaken(ctx context.Context, ownerID uint, title string, excludeID uint) (bool, error) {
	query := r.base(ctx).Where("owner_id = ? AND title = ?", ownerID, title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	result := r.base(ctx).Where("id = ?", id).Update("deleted_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Archive persists the archived course and force-closes its published
// assignments in one transaction, so a failure on either write leaves both
// untouched and no learner ever sees a half-archived course.
func (r *courseRepository) Archive(ctx context.Context, course *models.Course, at time.Time) (int64, error) {
	var closed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(course).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Assignment{}).
			Where("course_id = ? AND status = ? AND deleted_at IS NULL", course.ID, models.AssignmentStatusPublished).
			Updates(map[string]interface{}{
				"status":     models.AssignmentStatusClosed,
				"closed_at":  at,
				"updated_at": at,
			})
		if result.Error != nil {
			return result.Error
		}
		closed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return closed, nil
}

func (r *courseRepository) ListPublished(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := r.base(ctx).Where("status = ?", models.CourseStatusPublished)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.DifficultyID != nil {
		query = query.Where("difficulty_id = ?", *filter.DifficultyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var courses []models.Course
	if err := query.
		Preload("Category").
		Preload("Difficulty").
		Order("published_at DESC").
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.base(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) AdjustEnrollmentCount(ctx context.Context, id uint, delta int) error {
	return r.base(ctx).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", delta)).Error
}
