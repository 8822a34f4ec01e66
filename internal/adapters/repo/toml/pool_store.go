package toml

import (
	"context"
	"fmt"

	"github.com/nexustools/datameq-cli/internal/domain"
	"github.com/nexustools/datameq-cli/internal/ports"
)

type poolStore struct {
	store *Store
}

var _ ports.PoolStore = poolStore{}

func (p poolStore) Lines(ctx context.Context, name domain.PoolName) ([]string, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrPoolNotFound, name)
	}

	file, err := p.store.view(ctx)
	if err != nil {
		return nil, err
	}

	lines := file.poolLines(name)
	out := make([]string, len(lines))
	copy(out, lines)

	return out, nil
}

func (p poolStore) Lengths(ctx context.Context) (int, int, error) {
	file, err := p.store.view(ctx)
	if err != nil {
		return 0, 0, err
	}

	return len(file.Pools.Data1), len(file.Pools.Data2), nil
}

func (p poolStore) Append(ctx context.Context, name domain.PoolName, lines []string) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrPoolNotFound, name)
	}

	return p.store.update(ctx, func(file *fileSchema) error {
		file.setPoolLines(name, append(file.poolLines(name), lines...))
		return nil
	})
}

func (p poolStore) Clear(ctx context.Context, name domain.PoolName) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrPoolNotFound, name)
	}

	return p.store.update(ctx, func(file *fileSchema) error {
		file.setPoolLines(name, nil)
		return nil
	})
}

// Take is the one critical section of the system: length check and prefix
// removal for both pools happen against the same snapshot of the file, and
// the result is committed with a single atomic rename. A short pool fails
// the whole take before anything is written, so the other pool keeps its
// lines.
func (p poolStore) Take(ctx context.Context, count1, count2 int) ([]string, []string, error) {
	if count1 < 0 || count2 < 0 {
		return nil, nil, fmt.Errorf("%w: counts must be non-negative", domain.ErrInvalidRequest)
	}

	var picks1, picks2 []string
	err := p.store.update(ctx, func(file *fileSchema) error {
		if len(file.Pools.Data1) < count1 || len(file.Pools.Data2) < count2 {
			return &domain.InventoryError{
				Data1Lines: len(file.Pools.Data1),
				Data2Lines: len(file.Pools.Data2),
			}
		}

		picks1 = append([]string(nil), file.Pools.Data1[:count1]...)
		picks2 = append([]string(nil), file.Pools.Data2[:count2]...)
		file.Pools.Data1 = append([]string(nil), file.Pools.Data1[count1:]...)
		file.Pools.Data2 = append([]string(nil), file.Pools.Data2[count2:]...)

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return picks1, picks2, nil
}
