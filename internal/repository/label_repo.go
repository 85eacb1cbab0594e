package repository

import (
	"context"
	"errors"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"gorm.io/gorm"
)

// LabelRepository handles label vocabulary operations.
type LabelRepository struct {
	db *gorm.DB
}

// NewLabelRepository creates a new LabelRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *LabelRepository: repository instance bound to db.
func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// Ensure inserts a label if no row with that name exists. Idempotent.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: label name.
// Returns:
//   - *domain.Label: existing or newly created label.
//   - error: non-nil if the upsert fails.
func (r *LabelRepository) Ensure(ctx context.Context, name string) (*domain.Label, error) {
	label := domain.Label{Name: name}
	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// GetByName retrieves a label by name.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: label name.
// Returns:
//   - *domain.Label: label record, nil if no row matches.
//   - error: non-nil if the lookup fails.
func (r *LabelRepository) GetByName(ctx context.Context, name string) (*domain.Label, error) {
	var label domain.Label
	if err := r.db.WithContext(ctx).First(&label, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &label, nil
}

// List retrieves the full label vocabulary ordered by id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Label: all label rows.
//   - error: non-nil if the query fails.
func (r *LabelRepository) List(ctx context.Context) ([]domain.Label, error) {
	var labels []domain.Label
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}
