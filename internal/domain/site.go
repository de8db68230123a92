package domain

// Site represents a library branch that owns rooms and book copies.
// Codes follow the global sequence "SED-###" and are never edited.
type Site struct {
	ID      int64
	Code    string
	Name    string
	Address string
	Phone   *string
	Active  bool
}
