package toml

import (
	"fmt"
	"time"

	"github.com/nexustools/datameq-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int              `toml:"version"`
	Settings settingsSchema   `toml:"settings"`
	Users    []userSchema     `toml:"users"`
	Pools    poolsSchema      `toml:"pools"`
	Activity []activitySchema `toml:"activity"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

// seedAdmin initializes a fresh store with one unlimited administrator, so
// the CLI is usable before any other account exists.
func (s *fileSchema) seedAdmin() {
	if len(s.Users) > 0 {
		return
	}

	s.Users = []userSchema{{
		ID:     "admin-1",
		Name:   "Super Admin",
		Email:  "admin@localhost",
		Role:   string(domain.RoleAdmin),
		Status: string(domain.StatusActive),
		Quota: quotaSchema{
			DailyLimit:    domain.UnlimitedDailyLimit,
			MaxPerRequest: 0,
		},
	}}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported store schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type settingsSchema struct {
	Locked            bool `toml:"locked"`
	AllowContribution bool `toml:"allow_contribution"`
	Maintenance       bool `toml:"maintenance"`
}

type poolsSchema struct {
	Data1 []string `toml:"data1"`
	Data2 []string `toml:"data2"`
}

type userSchema struct {
	ID     string      `toml:"id"`
	Name   string      `toml:"name"`
	Email  string      `toml:"email"`
	Role   string      `toml:"role"`
	Status string      `toml:"status"`
	Quota  quotaSchema `toml:"quota"`
}

type quotaSchema struct {
	DailyLimit    int `toml:"daily_limit"`
	Used          int `toml:"used"`
	UsedFromPool1 int `toml:"used_from_pool1"`
	UsedFromPool2 int `toml:"used_from_pool2"`
	MaxPerRequest int `toml:"max_per_request"`
}

type activitySchema struct {
	ID             string `toml:"id"`
	UserID         string `toml:"user_id"`
	UserName       string `toml:"user_name"`
	Count1         int    `toml:"count1"`
	Count2         int    `toml:"count2"`
	TotalGenerated int    `toml:"total_generated"`
	Timestamp      string `toml:"timestamp"`
}

func toUserSchema(user domain.User) userSchema {
	return userSchema{
		ID:     string(user.ID),
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
		Status: string(user.Status),
		Quota: quotaSchema{
			DailyLimit:    user.Quota.DailyLimit,
			Used:          user.Quota.Used,
			UsedFromPool1: user.Quota.UsedFromPool1,
			UsedFromPool2: user.Quota.UsedFromPool2,
			MaxPerRequest: user.Quota.MaxPerRequest,
		},
	}
}

func fromUserSchema(entry userSchema) domain.User {
	role := domain.Role(entry.Role)
	if role == "" {
		role = domain.RoleUser
	}
	status := domain.Status(entry.Status)
	if status == "" {
		status = domain.StatusActive
	}

	return domain.User{
		ID:     domain.UserID(entry.ID),
		Name:   entry.Name,
		Email:  entry.Email,
		Role:   role,
		Status: status,
		Quota: domain.QuotaRecord{
			DailyLimit:    entry.Quota.DailyLimit,
			Used:          entry.Quota.Used,
			UsedFromPool1: entry.Quota.UsedFromPool1,
			UsedFromPool2: entry.Quota.UsedFromPool2,
			MaxPerRequest: entry.Quota.MaxPerRequest,
		},
	}
}

func toActivitySchema(entry domain.ActivityEntry) activitySchema {
	return activitySchema{
		ID:             entry.ID,
		UserID:         string(entry.UserID),
		UserName:       entry.UserName,
		Count1:         entry.Count1,
		Count2:         entry.Count2,
		TotalGenerated: entry.TotalGenerated,
		Timestamp:      entry.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func fromActivitySchema(entry activitySchema) domain.ActivityEntry {
	timestamp, err := time.Parse(time.RFC3339Nano, entry.Timestamp)
	if err != nil {
		timestamp = time.Time{}
	}

	return domain.ActivityEntry{
		ID:             entry.ID,
		UserID:         domain.UserID(entry.UserID),
		UserName:       entry.UserName,
		Count1:         entry.Count1,
		Count2:         entry.Count2,
		TotalGenerated: entry.TotalGenerated,
		Timestamp:      timestamp,
	}
}

func (s *fileSchema) poolLines(name domain.PoolName) []string {
	if name == domain.PoolData1 {
		return s.Pools.Data1
	}

	return s.Pools.Data2
}

func (s *fileSchema) setPoolLines(name domain.PoolName, lines []string) {
	if name == domain.PoolData1 {
		s.Pools.Data1 = lines
		return
	}

	s.Pools.Data2 = lines
}
