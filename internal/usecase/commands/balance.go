package commands

import (
	"context"

	"salonbook/internal/domain/audit"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BalanceService struct {
	uow shared.UnitOfWork
}

func NewBalanceService(uow shared.UnitOfWork) *BalanceService {
	return &BalanceService{uow: uow}
}

// TopUp credits the user's savings card and writes the matching ledger entry
// and audit row in one transaction.
func (s *BalanceService) TopUp(ctx context.Context, actor audit.Actor, userID uuid.UUID, amountCents int64) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Ledger().TopUp(ctx, userID, amountCents); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actor, EntityBalance, userID, audit.ActionTopUp,
			map[string]any{"amount_cents": amountCents}, nil)
	})
}
