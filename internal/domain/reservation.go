package domain

import "time"

// ReservationState represents the lifecycle state of a reservation
type ReservationState string

const (
	StatePending   ReservationState = "pending"
	StateInUse     ReservationState = "in_use"    // active state for rooms
	StateDelivered ReservationState = "delivered" // active state for book loans
	StateFinalized ReservationState = "finalized"
	StateNoShow    ReservationState = "no_show"
	StateCancelled ReservationState = "cancelled"
)

// Event is a lifecycle event applied to a reservation
type Event string

const (
	EventCheckIn  Event = "check_in"
	EventCheckOut Event = "check_out"
	EventNoShow   Event = "no_show"
	EventCancel   Event = "cancel"
)

type transitionKey struct {
	From  ReservationState
	Event Event
}

// transitionTable is the single definition of the lifecycle state machine:
// (current state, event) -> next state per resource kind. Anything absent
// from the table is a forbidden transition.
var transitionTable = map[transitionKey]map[ResourceKind]ReservationState{
	{StatePending, EventCheckIn}:    {KindRoom: StateInUse, KindBook: StateDelivered},
	{StatePending, EventNoShow}:     {KindRoom: StateNoShow, KindBook: StateNoShow},
	{StatePending, EventCancel}:     {KindRoom: StateCancelled, KindBook: StateCancelled},
	{StateInUse, EventCheckOut}:     {KindRoom: StateFinalized},
	{StateDelivered, EventCheckOut}: {KindBook: StateFinalized},
}

// NextState resolves a lifecycle transition. Returns false when the event
// is not allowed in the current state for the given resource kind.
func NextState(from ReservationState, event Event, kind ResourceKind) (ReservationState, bool) {
	byKind, ok := transitionTable[transitionKey{From: from, Event: event}]
	if !ok {
		return "", false
	}
	next, ok := byKind[kind]
	return next, ok
}

// IsTerminal returns true for states that accept no further transition
func (s ReservationState) IsTerminal() bool {
	return s == StateFinalized || s == StateNoShow || s == StateCancelled
}

// IsValid returns true for a known reservation state
func (s ReservationState) IsValid() bool {
	switch s {
	case StatePending, StateInUse, StateDelivered, StateFinalized, StateNoShow, StateCancelled:
		return true
	}
	return false
}

// Reservation is the central entity: one user holding one resource over
// a time window. All timestamps are naive civil time (see pkg/civiltime).
type Reservation struct {
	ID    int64
	Code  string // short human-readable code, e.g. "SA-3F9A1C"
	Token string // unguessable check-in token

	UserDNI  string
	Resource ResourceRef

	ReferenceDate time.Time
	StartsAt      time.Time
	EndsAt        time.Time

	Reason    *string
	PartySize *int

	State        ReservationState
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time

	CreatedAt time.Time
}

// IsActive returns true while the reservation still occupies capacity
// (i.e. it has not reached a terminal state)
func (r *Reservation) IsActive() bool {
	return !r.State.IsTerminal()
}

// LoanDays returns the inclusive civil-day span of the booking window
func (r *Reservation) LoanDays() int {
	start := time.Date(r.StartsAt.Year(), r.StartsAt.Month(), r.StartsAt.Day(), 0, 0, 0, 0, r.StartsAt.Location())
	end := time.Date(r.EndsAt.Year(), r.EndsAt.Month(), r.EndsAt.Day(), 0, 0, 0, 0, r.EndsAt.Location())
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// AdminReservationsFilter фильтр для административной выборки резерваций
type AdminReservationsFilter struct {
	State         *ReservationState // опционально
	ReferenceDate *time.Time        // опционально, конкретная гражданская дата
	Limit         uint64            // 0 = лимит по умолчанию
}
