package ports

import (
	"context"

	"github.com/nexustools/datameq-cli/internal/domain"
)

// ActivityRepository keeps the bounded, most-recent-first allocation history.
// Append enforces the domain.ActivityLogCap bound.
type ActivityRepository interface {
	List(ctx context.Context) ([]domain.ActivityEntry, error)
	Append(ctx context.Context, entry domain.ActivityEntry) error
}
