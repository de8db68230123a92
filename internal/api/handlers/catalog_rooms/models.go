package catalog_rooms

import (
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

// CreateRoomRequest HTTP request model создания зала/оборудования
type CreateRoomRequest struct {
	Name     string `json:"name"`
	RoomType string `json:"roomType"` // "SALA" | "EQUIPO"
	SiteID   int64  `json:"siteId"`
	Capacity *int   `json:"capacity,omitempty"`
}

// UpdateRoomRequest HTTP request model частичного обновления
type UpdateRoomRequest struct {
	Name     *string `json:"name,omitempty"`
	RoomType *string `json:"roomType,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// RoomResponse HTTP-представление зала
type RoomResponse struct {
	ID            int64   `json:"id"`
	InventoryCode *string `json:"inventoryCode,omitempty"`
	Name          string  `json:"name"`
	RoomType      string  `json:"roomType"`
	SiteID        int64   `json:"siteId"`
	Capacity      *int    `json:"capacity,omitempty"`
	Active        bool    `json:"active"`
}

// ToUpdate конвертирует HTTP запрос в модель сервиса
func (r *UpdateRoomRequest) ToUpdate() catalog.RoomUpdate {
	return catalog.RoomUpdate{
		Name:     r.Name,
		RoomType: r.RoomType,
		Capacity: r.Capacity,
		Active:   r.Active,
	}
}

// FromDomain конвертирует доменный зал в HTTP response
func FromDomain(room *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:            room.ID,
		InventoryCode: room.InventoryCode,
		Name:          room.Name,
		RoomType:      room.RoomType,
		SiteID:        room.SiteID,
		Capacity:      room.Capacity,
		Active:        room.Active,
	}
}

// FromDomainList конвертирует список залов
func FromDomainList(list []*domain.Room) []*RoomResponse {
	out := make([]*RoomResponse, len(list))
	for i, room := range list {
		out[i] = FromDomain(room)
	}
	return out
}
