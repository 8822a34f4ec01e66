package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustools/datameq-cli/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	storePath := filepath.Join(t.TempDir(), "datameq.toml")
	config := viper.New()
	config.Set("store.path", storePath)

	store, err := NewStore(config)
	require.NoError(t, err)

	return store
}

func numberedLines(prefix string, n int) []string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("%s-%d", prefix, i))
	}
	return lines
}

func TestFreshStoreSeedsAdmin(t *testing.T) {
	store := newTestStore(t)

	admin, err := store.Users().GetByID(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, domain.StatusActive, admin.Status)
	assert.True(t, admin.Quota.Unlimited())
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	users := store.Users()

	alice := domain.User{
		ID:     "user-1",
		Name:   "Alice",
		Email:  "alice@example.com",
		Role:   domain.RoleUser,
		Status: domain.StatusActive,
		Quota:  domain.QuotaRecord{DailyLimit: 50, Used: 12, UsedFromPool1: 7, UsedFromPool2: 5, MaxPerRequest: 15},
	}

	require.NoError(t, users.Save(context.Background(), alice))

	got, err := users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	alice.Quota.Used = 20
	require.NoError(t, users.Save(context.Background(), alice))

	all, err := users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2) // seeded admin plus alice

	_, err = users.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserUpdateAppliesIncrementsAtomically(t *testing.T) {
	store := newTestStore(t)
	users := store.Users()
	ctx := context.Background()

	require.NoError(t, users.Save(ctx, domain.User{
		ID:     "user-1",
		Name:   "Alice",
		Role:   domain.RoleUser,
		Status: domain.StatusActive,
		Quota:  domain.DefaultQuota(),
	}))

	const increments = 20
	var wg sync.WaitGroup
	for i := 0; i < increments; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = users.Update(ctx, "user-1", func(user *domain.User) error {
				user.Quota.Commit(1, 0)
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, increments, got.Quota.Used)
	assert.Equal(t, increments, got.Quota.UsedFromPool1)
}

func TestUserUpdateUnknownUserAndAbort(t *testing.T) {
	store := newTestStore(t)
	users := store.Users()
	ctx := context.Background()

	err := users.Update(ctx, "ghost", func(*domain.User) error { return nil })
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// An error from fn aborts the transaction without writing.
	boom := errors.New("boom")
	err = users.Update(ctx, "admin-1", func(user *domain.User) error {
		user.Quota.Used = 999
		return boom
	})
	assert.ErrorIs(t, err, boom)

	admin, err := users.GetByID(ctx, "admin-1")
	require.NoError(t, err)
	assert.Zero(t, admin.Quota.Used)
}

func TestPoolAppendLinesAndClear(t *testing.T) {
	store := newTestStore(t)
	pools := store.Pools()
	ctx := context.Background()

	require.NoError(t, pools.Append(ctx, domain.PoolData1, []string{"a", "b"}))
	require.NoError(t, pools.Append(ctx, domain.PoolData1, []string{"c"}))
	require.NoError(t, pools.Append(ctx, domain.PoolData2, []string{"x"}))

	lines, err := pools.Lines(ctx, domain.PoolData1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)

	len1, len2, err := pools.Lengths(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, len1)
	assert.Equal(t, 1, len2)

	require.NoError(t, pools.Clear(ctx, domain.PoolData1))

	len1, len2, err = pools.Lengths(ctx)
	require.NoError(t, err)
	assert.Zero(t, len1)
	assert.Equal(t, 1, len2)
}

func TestPoolRejectsUnknownName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Pools().Lines(ctx, domain.PoolName("data3"))
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)

	err = store.Pools().Append(ctx, domain.PoolName(""), []string{"a"})
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestTakeRemovesPrefixFromBothPools(t *testing.T) {
	store := newTestStore(t)
	pools := store.Pools()
	ctx := context.Background()

	require.NoError(t, pools.Append(ctx, domain.PoolData1, []string{"a1", "a2", "a3"}))
	require.NoError(t, pools.Append(ctx, domain.PoolData2, []string{"b1", "b2"}))

	picks1, picks2, err := pools.Take(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, picks1)
	assert.Equal(t, []string{"b1"}, picks2)

	remaining1, err := pools.Lines(ctx, domain.PoolData1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a3"}, remaining1)

	remaining2, err := pools.Lines(ctx, domain.PoolData2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, remaining2)
}

func TestTakeShortPoolFailsWithoutPartialDraw(t *testing.T) {
	store := newTestStore(t)
	pools := store.Pools()
	ctx := context.Background()

	require.NoError(t, pools.Append(ctx, domain.PoolData1, numberedLines("a", 5)))
	require.NoError(t, pools.Append(ctx, domain.PoolData2, numberedLines("b", 8)))

	_, _, err := pools.Take(ctx, 5, 10)
	require.Error(t, err)

	var inventoryErr *domain.InventoryError
	require.ErrorAs(t, err, &inventoryErr)
	assert.Equal(t, 5, inventoryErr.Data1Lines)
	assert.Equal(t, 8, inventoryErr.Data2Lines)

	len1, len2, err := pools.Lengths(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, len1)
	assert.Equal(t, 8, len2)
}

func TestTakeRejectsNegativeCounts(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Pools().Take(context.Background(), -1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

// Concurrent takers must never receive the same line, and every line is
// either delivered exactly once or still in the pool.
func TestTakeConcurrentNoDoubleAllocation(t *testing.T) {
	store := newTestStore(t)
	pools := store.Pools()
	ctx := context.Background()

	const total = 60
	const workers = 10
	const perTake = 4

	require.NoError(t, pools.Append(ctx, domain.PoolData1, numberedLines("a", total)))

	var mu sync.Mutex
	delivered := make([]string, 0, total)
	failures := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				picks, _, err := pools.Take(ctx, perTake, 0)
				mu.Lock()
				if err != nil {
					failures++
				} else {
					delivered = append(delivered, picks...)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, len(delivered))
	for _, line := range delivered {
		_, dup := seen[line]
		require.False(t, dup, "line %s delivered twice", line)
		seen[line] = struct{}{}
	}

	len1, _, err := pools.Lengths(ctx)
	require.NoError(t, err)
	assert.Equal(t, total-len(delivered), len1, "conservation: delivered plus remaining must equal the initial inventory")
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	settings := store.Settings()
	ctx := context.Background()

	initial, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.False(t, initial.Locked)

	require.NoError(t, settings.Save(ctx, domain.SystemSettings{Locked: true, AllowContribution: true}))

	got, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Locked)
	assert.True(t, got.AllowContribution)
	assert.False(t, got.Maintenance)
}

func TestActivityAppendBoundsHistory(t *testing.T) {
	store := newTestStore(t)
	activity := store.ActivityLog()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 150; i++ {
		require.NoError(t, activity.Append(ctx, domain.ActivityEntry{
			ID:             fmt.Sprintf("entry-%d", i),
			UserID:         "user-1",
			UserName:       "Alice",
			Count1:         1,
			TotalGenerated: 1,
			Timestamp:      base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := activity.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, domain.ActivityLogCap)
	assert.Equal(t, "entry-149", entries[0].ID)
	assert.Equal(t, "entry-50", entries[domain.ActivityLogCap-1].ID)
	assert.Equal(t, base.Add(149*time.Second), entries[0].Timestamp)
}

func TestStoreRejectsNewerSchemaVersion(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	storePath := filepath.Join(t.TempDir(), "datameq.toml")
	require.NoError(t, os.WriteFile(storePath, []byte("version = 2\n"), 0o600))

	config := viper.New()
	config.Set("store.path", storePath)

	store, err := NewStore(config)
	require.NoError(t, err)

	_, _, err = store.Pools().Lengths(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store schema version")
}

// Another process holding the store's lock file must stall updates until it
// releases; the in-process mutex alone cannot see it.
func TestUpdateWaitsForStoreFileLock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	external := flock.New(store.lockPath)
	require.NoError(t, external.Lock())

	done := make(chan error, 1)
	go func() {
		done <- store.Pools().Append(ctx, domain.PoolData1, []string{"a"})
	}()

	select {
	case <-done:
		t.Fatal("update proceeded while the store file lock was held elsewhere")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, external.Unlock())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("update never acquired the released store file lock")
	}

	len1, _, err := store.Pools().Lengths(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, len1)
}

func TestStoreFilePermissions(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Pools().Append(context.Background(), domain.PoolData1, []string{"a"}))

	info, err := os.Stat(store.storePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
