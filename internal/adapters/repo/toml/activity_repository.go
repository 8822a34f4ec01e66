package toml

import (
	"context"

	"github.com/nexustools/datameq-cli/internal/domain"
	"github.com/nexustools/datameq-cli/internal/ports"
)

type activityRepository struct {
	store *Store
}

var _ ports.ActivityRepository = activityRepository{}

func (r activityRepository) List(ctx context.Context) ([]domain.ActivityEntry, error) {
	file, err := r.store.view(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ActivityEntry, 0, len(file.Activity))
	for _, entry := range file.Activity {
		entries = append(entries, fromActivitySchema(entry))
	}

	return entries, nil
}

func (r activityRepository) Append(ctx context.Context, entry domain.ActivityEntry) error {
	return r.store.update(ctx, func(file *fileSchema) error {
		current := make([]domain.ActivityEntry, 0, len(file.Activity))
		for _, existing := range file.Activity {
			current = append(current, fromActivitySchema(existing))
		}

		bounded := domain.PrependBounded(current, entry)

		file.Activity = make([]activitySchema, 0, len(bounded))
		for _, kept := range bounded {
			file.Activity = append(file.Activity, toActivitySchema(kept))
		}

		return nil
	})
}
