package ports

import (
	"context"

	"github.com/nexustools/datameq-cli/internal/domain"
)

type SettingsRepository interface {
	Get(ctx context.Context) (domain.SystemSettings, error)
	Save(ctx context.Context, settings domain.SystemSettings) error
}
