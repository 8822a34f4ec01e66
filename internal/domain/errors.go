package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSystemLocked         = errors.New("allocation is locked by an administrator")
	ErrRequestTooLarge      = errors.New("requested total exceeds the per-request cap")
	ErrQuotaExceeded        = errors.New("requested total exceeds the remaining daily quota")
	ErrInvalidRequest       = errors.New("invalid allocation request")
	ErrInventoryChanged     = errors.New("pool inventory changed concurrently")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserInactive         = errors.New("user account is not active")
	ErrPoolNotFound         = errors.New("pool not found")
	ErrContributionDisabled = errors.New("pool contribution is disabled")
	ErrNotAuthorized        = errors.New("operation requires administrator role")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

// InventoryError reports that a take lost the race to another allocator.
// It carries the lengths observed inside the failed transaction so callers
// can refresh a stale cached view of the pools.
type InventoryError struct {
	Data1Lines int
	Data2Lines int
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("pool inventory changed concurrently (data1: %d lines, data2: %d lines remain)", e.Data1Lines, e.Data2Lines)
}

func (e *InventoryError) Is(target error) bool {
	return target == ErrInventoryChanged
}
