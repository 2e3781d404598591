package queries

import (
	"context"

	"salonbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type OrderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]OrderView, error)
}

type OrderQueryService struct {
	reader OrderReader
}

func NewOrderQueryService(reader OrderReader) *OrderQueryService {
	return &OrderQueryService{reader: reader}
}

func (s *OrderQueryService) GetOrder(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*OrderView, error) {
	view, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && view.UserID != requesterID {
		return nil, errs.ErrOrderNotFound
	}
	return view, nil
}

func (s *OrderQueryService) ListOrders(ctx context.Context, userID uuid.UUID, limit int32) ([]OrderView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.reader.ListByUser(ctx, userID, limit)
}
