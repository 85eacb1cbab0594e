package repository

import (
	"context"
	"errors"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"gorm.io/gorm"
)

// ImageRepository handles image data operations.
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ImageRepository: repository instance bound to db.
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create inserts a new image record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - image: image record to persist.
// Returns:
//   - error: non-nil if the insert fails, including a uniqueness
//     violation on the content hash.
func (r *ImageRepository) Create(ctx context.Context, image *domain.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// GetByID retrieves an image by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image ID.
// Returns:
//   - *domain.Image: image record, nil if no row matches.
//   - error: non-nil if the lookup fails.
func (r *ImageRepository) GetByID(ctx context.Context, id uint) (*domain.Image, error) {
	var image domain.Image
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// GetByHash retrieves an image by its content hash for deduplication and
// blob lookup.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - hash: hex SHA-256 digest of the stored bytes.
// Returns:
//   - *domain.Image: image record, nil if no row matches.
//   - error: non-nil if the lookup fails.
func (r *ImageRepository) GetByHash(ctx context.Context, hash string) (*domain.Image, error) {
	var image domain.Image
	if err := r.db.WithContext(ctx).First(&image, "hash = ?", hash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// ExistsByHash checks if an image with the given content hash exists.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - hash: hex SHA-256 digest of the stored bytes.
// Returns:
//   - bool: true if a record exists.
//   - error: non-nil if the lookup fails.
func (r *ImageRepository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Image{}).Where("hash = ?", hash).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FirstUnclassified retrieves the lowest-id image with no assignment rows.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.Image: image record, nil when every image is classified.
//   - error: non-nil if the query fails.
func (r *ImageRepository) FirstUnclassified(ctx context.Context) (*domain.Image, error) {
	classified := r.db.Model(&domain.Assignment{}).Distinct("image_id")

	var image domain.Image
	err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", classified).
		Order("id ASC").
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// NextAfter retrieves the first image with an id greater than afterID,
// regardless of classification status. This is the skip-forward mode of
// the browse endpoint.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - afterID: exclusive lower bound on image id.
// Returns:
//   - *domain.Image: image record, nil when no higher id exists.
//   - error: non-nil if the query fails.
func (r *ImageRepository) NextAfter(ctx context.Context, afterID uint) (*domain.Image, error) {
	var image domain.Image
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// Count returns the total number of images.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of image rows.
//   - error: non-nil if the query fails.
func (r *ImageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Image{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountClassified returns the number of distinct images that have at
// least one assignment.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of classified images.
//   - error: non-nil if the query fails.
func (r *ImageRepository) CountClassified(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Distinct("image_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
