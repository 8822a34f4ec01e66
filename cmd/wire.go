package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	statusadapter "github.com/nexustools/datameq-cli/internal/adapters/render/status"
	tomlrepo "github.com/nexustools/datameq-cli/internal/adapters/repo/toml"
	"github.com/nexustools/datameq-cli/internal/application"
	"github.com/nexustools/datameq-cli/internal/domain"
	"github.com/nexustools/datameq-cli/internal/ports"
)

type app struct {
	service        *application.Service
	statusRenderer func(application.StatusReport, statusadapter.RenderOptions) (string, error)
	logLevel       zap.AtomicLevel
	actor          string
	now            func() time.Time
}

func (a *app) actorID() domain.UserID {
	return domain.UserID(a.actor)
}

func wireApp() (*app, error) {
	store, err := tomlrepo.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire store: %w", err)
	}

	// Warn by default so command output stays clean; --verbose drops the
	// level to debug.
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return &app{
		service: application.NewService(
			store.Users(),
			store.Pools(),
			store.Settings(),
			store.ActivityLog(),
			ports.SystemClock{},
			logger,
		),
		statusRenderer: statusadapter.Render,
		logLevel:       logConfig.Level,
		actor:          envOrDefault("DMQ_ACTOR", "admin-1"),
		now:            time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
