package domain

import (
	"fmt"
	"strings"
)

type UserID string

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusBlocked   Status = "blocked"
	StatusSuspended Status = "suspended"
)

type User struct {
	ID     UserID
	Name   string
	Email  string
	Role   Role
	Status Status
	Quota  QuotaRecord
}

func (u User) Validate() error {
	if strings.TrimSpace(string(u.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("unsupported role %q", u.Role)
	}

	return nil
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) Active() bool {
	return u.Status == StatusActive
}

// IsExemptFromQuota is the single capability predicate for usage accounting:
// administrators bypass the system lock, the per-request cap, and the daily
// quota, and their allocations are never charged.
func IsExemptFromQuota(u User) bool {
	return u.Role == RoleAdmin
}
