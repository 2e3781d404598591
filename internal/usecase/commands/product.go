package commands

import (
	"context"

	"salonbook/internal/domain/audit"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type ProductService struct {
	uow shared.UnitOfWork
}

func NewProductService(uow shared.UnitOfWork) *ProductService {
	return &ProductService{uow: uow}
}

func (s *ProductService) Create(ctx context.Context, actor audit.Actor, input shared.CreateProductInput) (uuid.UUID, error) {
	if input.PriceCents <= 0 {
		return uuid.Nil, errs.ErrInvalidAmount
	}

	var productID uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Products().Create(ctx, input)
		if err != nil {
			return err
		}
		productID = id
		return tx.Audit().Record(ctx, actor, EntityProduct, id, audit.ActionCreate, map[string]any{
			"name":        input.Name,
			"price_cents": input.PriceCents,
		}, nil)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return productID, nil
}

func (s *ProductService) Update(ctx context.Context, actor audit.Actor, input shared.UpdateProductInput) error {
	if input.PriceCents != nil && *input.PriceCents <= 0 {
		return errs.ErrInvalidAmount
	}

	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Products().Update(ctx, input); err != nil {
			return err
		}
		changes := map[string]any{}
		if input.Name != nil {
			changes["name"] = *input.Name
		}
		if input.Category != nil {
			changes["category"] = *input.Category
		}
		if input.PriceCents != nil {
			changes["price_cents"] = *input.PriceCents
		}
		if input.Status != nil {
			changes["status"] = *input.Status
		}
		return tx.Audit().Record(ctx, actor, EntityProduct, input.ID, audit.ActionUpdate, changes, nil)
	})
}
