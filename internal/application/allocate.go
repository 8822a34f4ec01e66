package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nexustools/datameq-cli/internal/domain"
)

// Allocate draws cmd.Count1 lines from data1 and cmd.Count2 from data2,
// merges them with the inserts, and charges the actor's quota. Validation
// (counts, lock, quota) produces no side effects; the two-pool take is one
// transaction against the pool store, and quota commit plus activity logging
// happen only after it succeeds.
func (s *Service) Allocate(ctx context.Context, cmd AllocateCommand) (domain.AllocationResult, error) {
	if cmd.Count1 < 0 || cmd.Count2 < 0 {
		return domain.AllocationResult{}, fmt.Errorf("%w: counts must be non-negative", domain.ErrInvalidRequest)
	}
	if cmd.Count1 == 0 && cmd.Count2 == 0 {
		return domain.AllocationResult{}, fmt.Errorf("%w: nothing requested", domain.ErrInvalidRequest)
	}

	actor, err := s.activeActor(ctx, cmd.ActorID)
	if err != nil {
		return domain.AllocationResult{}, err
	}

	exempt := domain.IsExemptFromQuota(actor)
	if !exempt {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return domain.AllocationResult{}, fmt.Errorf("load settings: %w", err)
		}
		if settings.Locked {
			return domain.AllocationResult{}, domain.ErrSystemLocked
		}
		if err := actor.Quota.CheckRequest(cmd.Count1 + cmd.Count2); err != nil {
			return domain.AllocationResult{}, err
		}
	}

	picks1, picks2, err := s.pools.Take(ctx, cmd.Count1, cmd.Count2)
	if err != nil {
		var inventoryErr *domain.InventoryError
		if errors.As(err, &inventoryErr) {
			s.logger.Info("allocation lost inventory race",
				zap.String("actor", string(actor.ID)),
				zap.Int("data1_lines", inventoryErr.Data1Lines),
				zap.Int("data2_lines", inventoryErr.Data2Lines),
			)
			return domain.AllocationResult{}, err
		}
		return domain.AllocationResult{}, fmt.Errorf("take from pools: %w", err)
	}

	combined := make([]string, 0, len(picks1)+len(picks2))
	combined = append(combined, picks1...)
	combined = append(combined, picks2...)

	lines := domain.Compose(combined, cmd.Inserts)
	result := domain.AllocationResult{
		Text:        strings.Join(lines, "\n"),
		Count1Drawn: len(picks1),
		Count2Drawn: len(picks2),
		Total:       len(lines),
	}

	if !exempt {
		if err := s.commitQuota(ctx, actor.ID, len(picks1), len(picks2)); err != nil {
			return domain.AllocationResult{}, err
		}
	}

	entry := domain.ActivityEntry{
		ID:             s.newID(),
		UserID:         actor.ID,
		UserName:       actor.Name,
		Count1:         len(picks1),
		Count2:         len(picks2),
		TotalGenerated: result.Total,
		Timestamp:      s.clock.Now(),
	}
	// The log is history, not a gate: the lines are already consumed and
	// charged, so a failed append must not discard the result.
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Warn("append activity entry failed",
			zap.String("actor", string(actor.ID)),
			zap.Error(err),
		)
	}

	s.logger.Info("allocation committed",
		zap.String("actor", string(actor.ID)),
		zap.Int("count1", len(picks1)),
		zap.Int("count2", len(picks2)),
		zap.Int("total", result.Total),
	)

	return result, nil
}

// commitQuota increments the actor's counters through the repository's
// atomic update, so overlapping allocations by the same user are both
// charged instead of the last writer winning.
func (s *Service) commitQuota(ctx context.Context, id domain.UserID, count1, count2 int) error {
	err := s.users.Update(ctx, id, func(user *domain.User) error {
		user.Quota.Commit(count1, count2)
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit quota: %w", err)
	}

	return nil
}
