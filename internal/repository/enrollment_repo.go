package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (models.Enrollment, error)
	CountActiveByCourse(ctx context.Context, courseID uint) (int64, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	ListActiveByLearner(ctx context.Context, learnerID uint) ([]models.Enrollment, error)
	ActiveCourseIDs(ctx context.Context, learnerID uint, courseIDs []uint) (map[uint]bool, error)
	HasActive(ctx context.Context, learnerID, courseID uint) (bool, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) ListActiveByLearner(ctx context.Context, learnerID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course", "deleted_at IS NULL").
		Where("learner_id = ? AND status = ?", learnerID, models.EnrollmentStatusActive).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ActiveCourseIDs returns which of the given courses the learner actively
// holds, for annotating listings without one query per row.
func (r *enrollmentRepository) ActiveCourseIDs(ctx context.Context, learnerID uint, courseIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(courseIDs))
	if len(courseIDs) == 0 {
		return result, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("learner_id = ? AND status = ? AND course_id IN ?", learnerID, models.EnrollmentStatusActive, courseIDs).
		Pluck("course_id", &ids).Error; err != nil {
		return nil, err
	}

	for _, id := range ids {
		result[id] = true
	}

	return result, nil
}

func (r *enrollmentRepository) HasActive(ctx context.Context, learnerID, courseID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("learner_id = ? AND course_id = ? AND status = ?", learnerID, courseID, models.EnrollmentStatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
