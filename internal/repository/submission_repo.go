package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/lms-api/internal/models"
)

// SubmissionRepository defines persistence operations for submissions.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error)
	ListByLearner(ctx context.Context, learnerID uint) ([]models.Submission, error)
	ListByLearnerAndAssignments(ctx context.Context, learnerID uint, assignmentIDs []uint) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates a GORM-backed repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Assignment", "deleted_at IS NULL").
		Preload("Assignment.Course", "deleted_at IS NULL")
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.base(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.base(ctx).
		Where("assignment_id = ? AND learner_id = ?", assignmentID, learnerID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.base(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByLearner(ctx context.Context, learnerID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.base(ctx).
		Where("learner_id = ?", learnerID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByLearnerAndAssignments(ctx context.Context, learnerID uint, assignmentIDs []uint) ([]models.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	var submissions []models.Submission
	if err := r.base(ctx).
		Where("learner_id = ? AND assignment_id IN ?", learnerID, assignmentIDs).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}
