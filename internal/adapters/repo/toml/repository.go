// Package toml persists the whole allocation state (pools, users, settings,
// activity log) in one versioned TOML file. All mutations are
// read-modify-write cycles under a per-path lock followed by an atomic
// rename, which makes the file the single transactional authority required
// for at-most-once line delivery.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/nexustools/datameq-cli/internal/domain"
	"github.com/nexustools/datameq-cli/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	storePathKey    = "store.path"
	storeFileMode   = 0o600
	storeDirMode    = 0o700
	storeConfigDir  = ".datameq"
	storeFile       = "datameq.toml"
	storeLockSuffix = ".lock"
	tempFilePattern = ".datameq-*.toml.tmp"
)

// Store owns the backing file. The port implementations returned by Users,
// Pools, Settings, and ActivityLog are views over the same lock and path, so
// cross-resource operations (a take followed by a quota save) serialize
// against each other. The in-process RWMutex serializes goroutines; an OS
// file lock next to the store serializes other processes, which the rename
// alone cannot (two processes can both read, both pass a length check, and
// the second rename silently drops the first write).
type Store struct {
	storePath string
	lockPath  string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, storeConfigDir, storeFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, storeConfigDir))
	cfg.SetDefault(storePathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	storePath := cfg.GetString(storePathKey)
	if storePath == "" {
		return nil, errors.New("store path is empty")
	}
	storePath, err = normalizeStorePath(storePath)
	if err != nil {
		return nil, err
	}

	// The lock file must be creatable before the first operation.
	if err := os.MkdirAll(filepath.Dir(storePath), storeDirMode); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	return &Store{
		storePath: storePath,
		lockPath:  storePath + storeLockSuffix,
		mu:        lockForPath(storePath),
	}, nil
}

func (s *Store) Users() ports.UserRepository {
	return userRepository{store: s}
}

func (s *Store) Pools() ports.PoolStore {
	return poolStore{store: s}
}

func (s *Store) Settings() ports.SettingsRepository {
	return settingsRepository{store: s}
}

func (s *Store) ActivityLog() ports.ActivityRepository {
	return activityRepository{store: s}
}

// view reads the decoded file under the read lock and a shared file lock.
func (s *Store) view(ctx context.Context) (fileSchema, error) {
	if err := ctx.Err(); err != nil {
		return fileSchema{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fileLock, err := s.acquireFileLock(true)
	if err != nil {
		return fileSchema{}, err
	}
	defer func() { _ = fileLock.Close() }()

	return s.readSchema()
}

// update runs fn against the decoded file under the write lock and persists
// the result atomically. An error from fn aborts without writing. The
// exclusive file lock is held across read, fn, and rename, so the
// read-modify-write is one critical section even against other processes.
func (s *Store) update(ctx context.Context, fn func(*fileSchema) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fileLock, err := s.acquireFileLock(false)
	if err != nil {
		return err
	}
	defer func() { _ = fileLock.Close() }()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	if err := fn(&file); err != nil {
		return err
	}

	return s.writeSchema(file)
}

// acquireFileLock blocks until the OS lock on the store's companion lock
// file is held. A fresh Flock per call keeps concurrent in-process readers
// from sharing unlock state.
func (s *Store) acquireFileLock(shared bool) (*flock.Flock, error) {
	fileLock := flock.New(s.lockPath)

	var err error
	if shared {
		err = fileLock.RLock()
	} else {
		err = fileLock.Lock()
	}
	if err != nil {
		return nil, storeUnavailable("acquire store file lock", err)
	}

	return fileLock, nil
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			file.seedAdmin()
			return file, nil
		}
		return fileSchema{}, storeUnavailable("read store file", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode store file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.storePath), storeDirMode); err != nil {
		return storeUnavailable("create store directory", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.storePath), tempFilePattern)
	if err != nil {
		return storeUnavailable("create temp store file", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return storeUnavailable("write temp store file", err)
	}

	if err := tempFile.Chmod(storeFileMode); err != nil {
		_ = tempFile.Close()
		return storeUnavailable("chmod temp store file", err)
	}

	if err := tempFile.Close(); err != nil {
		return storeUnavailable("close temp store file", err)
	}

	if err := os.Rename(tempName, s.storePath); err != nil {
		return storeUnavailable("replace store file", err)
	}

	cleanup = false

	return nil
}

// storeUnavailable tags I/O failures with the sentinel callers are expected
// to branch on, while keeping the underlying error inspectable.
func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStoreUnavailable, err))
}

func normalizeStorePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve store path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
