package repository

import (
	"context"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"gorm.io/gorm"
)

// UserRepository handles user data operations.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *UserRepository: repository instance bound to db.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure inserts a user if absent and returns the row either way.
// Idempotent; users are created lazily on first label submission.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: user name.
// Returns:
//   - *domain.User: existing or newly created user.
//   - error: non-nil if the upsert fails.
func (r *UserRepository) Ensure(ctx context.Context, name string) (*domain.User, error) {
	user := domain.User{Name: name}
	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all known users ordered by id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.User: all user rows.
//   - error: non-nil if the query fails.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
