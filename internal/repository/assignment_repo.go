package repository

import (
	"context"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"gorm.io/gorm"
)

// AssignmentRepository handles label-assignment data operations.
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *AssignmentRepository: repository instance bound to db.
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create appends an assignment row. No deduplication: submitting the
// same image/label/user twice produces two rows.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - assignment: assignment record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// CountByUser tallies assignment rows per user, sorted descending by
// count.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.UserScore: one row per user that has at least one assignment.
//   - error: non-nil if the query fails.
func (r *AssignmentRepository) CountByUser(ctx context.Context) ([]domain.UserScore, error) {
	var rows []domain.UserScore
	err := r.db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Select("users.name AS name, COUNT(assignments.id) AS total").
		Joins("JOIN users ON users.id = assignments.user_id").
		Group("users.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByLabel tallies assignment rows per label, optionally filtered to
// a single user.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userName: restrict the tally to this user; empty means all users.
// Returns:
//   - []domain.LabelCount: one row per label that has matching assignments.
//   - error: non-nil if the query fails.
func (r *AssignmentRepository) CountByLabel(ctx context.Context, userName string) ([]domain.LabelCount, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Select("labels.name AS label, COUNT(assignments.id) AS count").
		Joins("JOIN labels ON labels.id = assignments.label_id").
		Group("labels.name")
	if userName != "" {
		query = query.
			Joins("JOIN users ON users.id = assignments.user_id").
			Where("users.name = ?", userName)
	}

	var rows []domain.LabelCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestPerLabel retrieves, for each label with at least one assignment,
// the most recent assignment (highest id) with its image and label
// resolved. Labels with no assignments are omitted.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Assignment: latest assignment per label, ordered by label id.
//   - error: non-nil if the query fails.
func (r *AssignmentRepository) LatestPerLabel(ctx context.Context) ([]domain.Assignment, error) {
	latest := r.db.Model(&domain.Assignment{}).Select("MAX(id)").Group("label_id")

	var rows []domain.Assignment
	err := r.db.WithContext(ctx).
		Preload("Image").
		Preload("Label").
		Where("id IN (?)", latest).
		Order("label_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
