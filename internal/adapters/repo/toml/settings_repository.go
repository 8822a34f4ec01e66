package toml

import (
	"context"

	"github.com/nexustools/datameq-cli/internal/domain"
	"github.com/nexustools/datameq-cli/internal/ports"
)

type settingsRepository struct {
	store *Store
}

var _ ports.SettingsRepository = settingsRepository{}

func (r settingsRepository) Get(ctx context.Context) (domain.SystemSettings, error) {
	file, err := r.store.view(ctx)
	if err != nil {
		return domain.SystemSettings{}, err
	}

	return domain.SystemSettings{
		Locked:            file.Settings.Locked,
		AllowContribution: file.Settings.AllowContribution,
		Maintenance:       file.Settings.Maintenance,
	}, nil
}

func (r settingsRepository) Save(ctx context.Context, settings domain.SystemSettings) error {
	return r.store.update(ctx, func(file *fileSchema) error {
		file.Settings = settingsSchema{
			Locked:            settings.Locked,
			AllowContribution: settings.AllowContribution,
			Maintenance:       settings.Maintenance,
		}
		return nil
	})
}
