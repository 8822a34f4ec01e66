package ports

import (
	"context"

	"github.com/nexustools/datameq-cli/internal/domain"
)

// PoolStore is the authoritative inventory of allocatable lines. Every line
// is handed out at most once: Take must run the length check and the prefix
// removal for both pools as one serialized transaction, and leave both pools
// untouched when either is short.
type PoolStore interface {
	Lines(ctx context.Context, name domain.PoolName) ([]string, error)
	Lengths(ctx context.Context) (data1 int, data2 int, err error)
	Append(ctx context.Context, name domain.PoolName, lines []string) error
	Clear(ctx context.Context, name domain.PoolName) error
	// Take removes the first count1 lines of data1 and the first count2
	// lines of data2. When either pool has fewer lines than requested it
	// returns *domain.InventoryError carrying the lengths observed inside
	// the transaction.
	Take(ctx context.Context, count1, count2 int) (picks1, picks2 []string, err error)
}
