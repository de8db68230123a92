package domain

// Default policy values
const (
	DefaultGraceBeforeMinutes = 15
	DefaultToleranceMinutes   = 20
	DefaultMaxLoanDays        = 5
	DefaultMaxActiveLoans     = 2
	DefaultMaxRoomsPerDay     = 1
	DefaultStrikeLimit        = 3
	DefaultBanDays            = 180
	DefaultCancelWindowHours  = 2
)

// Time format constants
const (
	TimeFormat     = "15:04"               // HH:MM
	DateFormat     = "2006-01-02"          // YYYY-MM-DD
	MonthFormat    = "2006-01"             // YYYY-MM
	DateTimeFormat = "2006-01-02T15:04:05" // naive civil timestamp
)

// Inventory code prefixes
const (
	SiteCodePrefix     = "SED"
	BookInventoryInfix = "LIB"
	RoomInventoryInfix = "REC"
)

// NonTerminalStates список состояний, в которых резервация ещё занимает
// ёмкость ресурса. Используется фильтрами доступности и лимитов.
var NonTerminalStates = []ReservationState{
	StatePending,
	StateInUse,
	StateDelivered,
}

// RoomOccupyingStates состояния, занимающие слот зала
var RoomOccupyingStates = []ReservationState{
	StatePending,
	StateInUse,
}

// BookOccupyingStates состояния, занимающие экземпляр книги
var BookOccupyingStates = []ReservationState{
	StatePending,
	StateDelivered,
}
