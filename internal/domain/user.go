package domain

import "time"

// Role represents the access role of a user
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered library patron or administrator.
// Strikes accumulate on late arrivals / late returns and never decrease
// except through an explicit administrative reset.
type User struct {
	DNI          string // national ID, primary identity
	Email        string
	Name         string
	PasswordHash string
	Role         Role

	Strikes     int
	BannedUntil *time.Time // naive civil time, nil = not banned

	RecoveryToken   *string
	RecoveryExpires *time.Time

	CreatedAt time.Time
}

// IsBanned returns true while an active ban window covers now
func (u *User) IsBanned(now time.Time) bool {
	return u.BannedUntil != nil && u.BannedUntil.After(now)
}

// BanRemaining returns how long the active ban still lasts (zero if none)
func (u *User) BanRemaining(now time.Time) time.Duration {
	if !u.IsBanned(now) {
		return 0
	}
	return u.BannedUntil.Sub(now)
}

// IsAdmin returns true for administrator accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
