package queries

import (
	"context"

	"salonbook/internal/domain/ledger"

	"github.com/google/uuid"
)

type BalanceReader interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*ledger.Account, error)
	ListEntries(ctx context.Context, userID uuid.UUID, limit int32) ([]ledger.Entry, error)
}

type BalanceQueryService struct {
	reader BalanceReader
}

func NewBalanceQueryService(reader BalanceReader) *BalanceQueryService {
	return &BalanceQueryService{reader: reader}
}

func (s *BalanceQueryService) GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceView, error) {
	account, err := s.reader.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BalanceView{
		UserID:         account.UserID,
		BalanceCents:   account.BalanceCents,
		PendingCents:   account.PendingCents,
		AvailableCents: account.AvailableCents(),
	}, nil
}

func (s *BalanceQueryService) ListEntries(ctx context.Context, userID uuid.UUID, limit int32) ([]LedgerEntryView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.reader.ListEntries(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	views := make([]LedgerEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, LedgerEntryView{
			ID:          e.ID,
			Kind:        string(e.Kind),
			AmountCents: e.AmountCents,
			RefKind:     e.RefKind,
			RefID:       e.RefID,
			CreatedAt:   e.CreatedAt,
		})
	}
	return views, nil
}
