package queries

import (
	"context"

	"github.com/google/uuid"
)

type ProductReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context) ([]ProductView, error)
}

type ServiceItemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceItemView, error)
	List(ctx context.Context) ([]ServiceItemView, error)
}

// CatalogQueryService serves the browsable product and service listings.
// Product views carry the display stock (actual minus pending), never the
// raw counters.
type CatalogQueryService struct {
	products ProductReader
	services ServiceItemReader
}

func NewCatalogQueryService(products ProductReader, services ServiceItemReader) *CatalogQueryService {
	return &CatalogQueryService{products: products, services: services}
}

func (s *CatalogQueryService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogQueryService) ListProducts(ctx context.Context) ([]ProductView, error) {
	return s.products.List(ctx)
}

func (s *CatalogQueryService) ListServices(ctx context.Context) ([]ServiceItemView, error) {
	return s.services.List(ctx)
}
