package domain

import "time"

// Policy carries the business constants of the admission and lifecycle
// engines. It is built from configuration and passed into constructors
// explicitly; nothing reads these values from package state.
type Policy struct {
	// GraceBefore is how early a check-in is accepted before the start
	GraceBefore time.Duration

	// LateTolerance is the room check-in window after the start; arriving
	// later turns the reservation into a no-show with a strike
	LateTolerance time.Duration

	// MaxLoanDays caps the inclusive civil-day span of a book loan
	MaxLoanDays int

	// MaxActiveLoans caps concurrent non-terminal book reservations per user
	MaxActiveLoans int

	// MaxRoomsPerDay caps concurrent non-terminal room reservations per
	// user per civil day, across all rooms
	MaxRoomsPerDay int

	// StrikeLimit is the strike count at which a ban is imposed
	StrikeLimit int

	// BanDuration is the length of the ban window
	BanDuration time.Duration

	// CancelWindow is the minimum lead time before start for a user
	// cancellation
	CancelWindow time.Duration
}

// DefaultPolicy returns the production defaults
func DefaultPolicy() Policy {
	return Policy{
		GraceBefore:    time.Duration(DefaultGraceBeforeMinutes) * time.Minute,
		LateTolerance:  time.Duration(DefaultToleranceMinutes) * time.Minute,
		MaxLoanDays:    DefaultMaxLoanDays,
		MaxActiveLoans: DefaultMaxActiveLoans,
		MaxRoomsPerDay: DefaultMaxRoomsPerDay,
		StrikeLimit:    DefaultStrikeLimit,
		BanDuration:    time.Duration(DefaultBanDays) * 24 * time.Hour,
		CancelWindow:   time.Duration(DefaultCancelWindowHours) * time.Hour,
	}
}
