package ports

import (
	"context"

	"github.com/nexustools/datameq-cli/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, user domain.User) error
	// Update applies fn to the stored record as one read-modify-write.
	// Counter increments go through here; a Save computed from an earlier
	// GetByID can lose a concurrent write.
	Update(ctx context.Context, id domain.UserID, fn func(*domain.User) error) error
}
