package catalog_sites

import (
	"context"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/internal/service/catalog"
)

type CatalogService interface {
	CreateSite(ctx context.Context, input *catalog.CreateSiteInput) (*domain.Site, error)
	GetSite(ctx context.Context, id int64) (*domain.Site, error)
	ListSites(ctx context.Context, onlyActive bool) ([]*domain.Site, error)
	UpdateSite(ctx context.Context, id int64, update catalog.SiteUpdate) (*domain.Site, error)
	DeleteSite(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
