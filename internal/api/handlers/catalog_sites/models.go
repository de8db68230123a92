package catalog_sites

import (
	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

// CreateSiteRequest HTTP request model создания сайта
type CreateSiteRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone,omitempty"`
}

// UpdateSiteRequest HTTP request model частичного обновления
type UpdateSiteRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// SiteResponse HTTP-представление сайта
type SiteResponse struct {
	ID      int64   `json:"id"`
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone,omitempty"`
	Active  bool    `json:"active"`
}

// ToUpdate конвертирует HTTP запрос в модель сервиса
func (r *UpdateSiteRequest) ToUpdate() catalog.SiteUpdate {
	return catalog.SiteUpdate{
		Name:    r.Name,
		Address: r.Address,
		Phone:   r.Phone,
		Active:  r.Active,
	}
}

// FromDomain конвертирует доменный сайт в HTTP response
func FromDomain(s *domain.Site) *SiteResponse {
	return &SiteResponse{
		ID:      s.ID,
		Code:    s.Code,
		Name:    s.Name,
		Address: s.Address,
		Phone:   s.Phone,
		Active:  s.Active,
	}
}

// FromDomainList конвертирует список сайтов
func FromDomainList(list []*domain.Site) []*SiteResponse {
	out := make([]*SiteResponse, len(list))
	for i, s := range list {
		out[i] = FromDomain(s)
	}
	return out
}
