package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexustools/datameq-cli/internal/domain"
	"github.com/nexustools/datameq-cli/internal/ports"
)

type Service struct {
	users    ports.UserRepository
	pools    ports.PoolStore
	settings ports.SettingsRepository
	activity ports.ActivityRepository
	clock    ports.Clock
	logger   *zap.Logger
	newID    func() string
}

func NewService(users ports.UserRepository, pools ports.PoolStore, settings ports.SettingsRepository, activity ports.ActivityRepository, clock ports.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		users:    users,
		pools:    pools,
		settings: settings,
		activity: activity,
		clock:    clock,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Ingest appends the non-empty lines of cmd.Text to the named pool and
// returns how many lines were added. Non-admin actors need the contribution
// switch enabled.
func (s *Service) Ingest(ctx context.Context, cmd IngestCommand) (int, error) {
	actor, err := s.activeActor(ctx, cmd.ActorID)
	if err != nil {
		return 0, err
	}

	if !actor.IsAdmin() {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return 0, fmt.Errorf("load settings: %w", err)
		}
		if !settings.AllowContribution {
			return 0, domain.ErrContributionDisabled
		}
	}

	lines := domain.SplitLines(cmd.Text)
	if len(lines) == 0 {
		return 0, nil
	}

	if err := s.pools.Append(ctx, cmd.Pool, lines); err != nil {
		return 0, fmt.Errorf("append to pool %s: %w", cmd.Pool, err)
	}

	s.logger.Info("pool ingest",
		zap.String("actor", string(actor.ID)),
		zap.String("pool", string(cmd.Pool)),
		zap.Int("lines", len(lines)),
	)

	return len(lines), nil
}

func (s *Service) ClearPool(ctx context.Context, actorID domain.UserID, pool domain.PoolName) error {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return err
	}

	if err := s.pools.Clear(ctx, pool); err != nil {
		return fmt.Errorf("clear pool %s: %w", pool, err)
	}

	s.logger.Info("pool cleared",
		zap.String("actor", string(actor.ID)),
		zap.String("pool", string(pool)),
	)

	return nil
}

func (s *Service) PoolLengths(ctx context.Context) (PoolStatus, error) {
	data1, data2, err := s.pools.Lengths(ctx)
	if err != nil {
		return PoolStatus{}, fmt.Errorf("read pool lengths: %w", err)
	}

	return PoolStatus{Data1Lines: data1, Data2Lines: data2}, nil
}

func (s *Service) SetQuota(ctx context.Context, cmd SetQuotaCommand) error {
	if _, err := s.requireAdmin(ctx, cmd.ActorID); err != nil {
		return err
	}
	if cmd.MaxPerRequest <= 0 {
		return fmt.Errorf("%w: max per request must be positive", domain.ErrInvalidRequest)
	}
	if cmd.DailyLimit < 0 && cmd.DailyLimit != domain.UnlimitedDailyLimit {
		return fmt.Errorf("%w: daily limit must be non-negative or %d for unlimited", domain.ErrInvalidRequest, domain.UnlimitedDailyLimit)
	}

	err := s.users.Update(ctx, cmd.UserID, func(user *domain.User) error {
		user.Quota.DailyLimit = cmd.DailyLimit
		user.Quota.MaxPerRequest = cmd.MaxPerRequest
		return nil
	})
	if err != nil {
		return fmt.Errorf("update user quota: %w", err)
	}

	return nil
}

func (s *Service) ResetQuota(ctx context.Context, actorID, userID domain.UserID) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	err := s.users.Update(ctx, userID, func(user *domain.User) error {
		user.Quota.Reset()
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset user quota: %w", err)
	}

	return nil
}

func (s *Service) SetSystemLock(ctx context.Context, actorID domain.UserID, locked bool) error {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	settings.Locked = locked

	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.logger.Info("system lock changed",
		zap.String("actor", string(actor.ID)),
		zap.Bool("locked", locked),
	)

	return nil
}

func (s *Service) SetContribution(ctx context.Context, actorID domain.UserID, allowed bool) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	settings.AllowContribution = allowed

	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

func (s *Service) GetSettings(ctx context.Context) (domain.SystemSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.SystemSettings{}, fmt.Errorf("load settings: %w", err)
	}

	return settings, nil
}

// RecentActivity returns the bounded allocation history, newest first.
func (s *Service) RecentActivity(ctx context.Context) ([]domain.ActivityEntry, error) {
	entries, err := s.activity.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	return entries, nil
}

func (s *Service) AddUser(ctx context.Context, cmd AddUserCommand) (domain.User, error) {
	if _, err := s.requireAdmin(ctx, cmd.ActorID); err != nil {
		return domain.User{}, err
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleUser
	}

	user := domain.User{
		ID:     domain.UserID("user-" + s.newID()),
		Name:   cmd.Name,
		Email:  cmd.Email,
		Role:   role,
		Status: domain.StatusActive,
		Quota:  domain.DefaultQuota(),
	}

	if err := user.Validate(); err != nil {
		return domain.User{}, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// Status assembles the full read model for rendering.
func (s *Service) Status(ctx context.Context) (StatusReport, error) {
	pools, err := s.PoolLengths(ctx)
	if err != nil {
		return StatusReport{}, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return StatusReport{}, fmt.Errorf("load settings: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return StatusReport{}, fmt.Errorf("list users: %w", err)
	}

	entries, err := s.activity.List(ctx)
	if err != nil {
		return StatusReport{}, fmt.Errorf("list activity: %w", err)
	}

	return StatusReport{
		Pools:    pools,
		Settings: settings,
		Users:    users,
		Activity: entries,
	}, nil
}

func (s *Service) requireAdmin(ctx context.Context, id domain.UserID) (domain.User, error) {
	actor, err := s.activeActor(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !actor.IsAdmin() {
		return domain.User{}, fmt.Errorf("%w: %s is %s", domain.ErrNotAuthorized, actor.ID, actor.Role)
	}

	return actor, nil
}

func (s *Service) activeActor(ctx context.Context, id domain.UserID) (domain.User, error) {
	actor, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get actor by id: %w", err)
	}
	if !actor.Active() {
		return domain.User{}, fmt.Errorf("%w: %s is %s", domain.ErrUserInactive, actor.ID, actor.Status)
	}

	return actor, nil
}
