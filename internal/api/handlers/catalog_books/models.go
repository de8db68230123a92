package catalog_books

import (
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

// CreateBookRequest HTTP request model создания книги
type CreateBookRequest struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	ISBN       *string `json:"isbn,omitempty"`
	Category   *string `json:"category,omitempty"`
	SiteID     int64   `json:"siteId"`
	StockTotal int     `json:"stockTotal"`
}

// UpdateBookRequest HTTP request model частичного обновления
type UpdateBookRequest struct {
	Title      *string `json:"title,omitempty"`
	Author     *string `json:"author,omitempty"`
	ISBN       *string `json:"isbn,omitempty"`
	Category   *string `json:"category,omitempty"`
	StockTotal *int    `json:"stockTotal,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

// BookResponse HTTP-представление книги
type BookResponse struct {
	ID            int64   `json:"id"`
	InventoryCode *string `json:"inventoryCode,omitempty"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	ISBN          *string `json:"isbn,omitempty"`
	Category      *string `json:"category,omitempty"`
	SiteID        int64   `json:"siteId"`
	StockTotal    int     `json:"stockTotal"`
	Active        bool    `json:"active"`
}

// ToUpdate конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookRequest) ToUpdate() catalog.BookUpdate {
	return catalog.BookUpdate{
		Title:      r.Title,
		Author:     r.Author,
		ISBN:       r.ISBN,
		Category:   r.Category,
		StockTotal: r.StockTotal,
		Active:     r.Active,
	}
}

// FromDomain конвертирует доменную книгу в HTTP response
func FromDomain(b *domain.Book) *BookResponse {
	return &BookResponse{
		ID:            b.ID,
		InventoryCode: b.InventoryCode,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		Category:      b.Category,
		SiteID:        b.SiteID,
		StockTotal:    b.StockTotal,
		Active:        b.Active,
	}
}

// FromDomainList конвертирует список книг
func FromDomainList(list []*domain.Book) []*BookResponse {
	out := make([]*BookResponse, len(list))
	for i, b := range list {
		out[i] = FromDomain(b)
	}
	return out
}
