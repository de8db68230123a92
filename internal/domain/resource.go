package domain

// ResourceKind discriminates the two bookable resource kinds
type ResourceKind string

const (
	// KindRoom is a slot resource: rooms and equipment, one holder per
	// exact start timestamp
	KindRoom ResourceKind = "room"

	// KindBook is a stock resource: physical book copies, stock_total
	// concurrent loans shared across overlapping date ranges
	KindBook ResourceKind = "book"
)

// IsValid returns true for a known resource kind
func (k ResourceKind) IsValid() bool {
	return k == KindRoom || k == KindBook
}

// CodePrefix returns the human-readable reservation code prefix for the kind
func (k ResourceKind) CodePrefix() string {
	if k == KindBook {
		return "LI"
	}
	return "SA"
}

// ResourceRef is a tagged reference to exactly one resource.
// The kind tag selects which table the ID points into, so a reservation
// can never reference both a room and a book at once.
type ResourceRef struct {
	Kind ResourceKind
	ID   int64
}

// Room represents a slot resource (reading room or equipment unit).
// Capacity per start timestamp is always 1; the optional Capacity field
// is the physical seat count, used for display only.
type Room struct {
	ID            int64
	InventoryCode *string
	Name          string
	RoomType      string // "SALA" or "EQUIPO"
	SiteID        int64
	Capacity      *int
	Active        bool
}

// Book represents a stock resource: a catalog title with StockTotal
// physical copies available for concurrent loans
type Book struct {
	ID            int64
	InventoryCode *string
	Title         string
	Author        string
	ISBN          *string
	Category      *string
	SiteID        int64
	StockTotal    int
	Active        bool
}
