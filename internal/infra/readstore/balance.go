package readstore

import (
	"context"

	"salonbook/internal/domain/ledger"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BalanceReadStore struct {
	queries *pgq.Queries
	pool    *pgxpool.Pool
}

func NewBalanceReadStore(queries *pgq.Queries, pool *pgxpool.Pool) *BalanceReadStore {
	return &BalanceReadStore{queries: queries, pool: pool}
}

func (s *BalanceReadStore) GetAccount(ctx context.Context, userID uuid.UUID) (*ledger.Account, error) {
	row, err := s.queries.GetSavingsAccount(ctx, s.pool, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, infra.WrapRepoErr("failed to get savings account", err)
	}
	return &ledger.Account{
		UserID:       row.UserID,
		BalanceCents: row.BalanceCents,
		PendingCents: row.PendingCents,
		Version:      row.Version,
	}, nil
}

func (s *BalanceReadStore) ListEntries(ctx context.Context, userID uuid.UUID, limit int32) ([]ledger.Entry, error) {
	rows, err := s.queries.ListLedgerEntries(ctx, s.pool, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ledger entries", err)
	}
	entries := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ledger.Entry{
			ID:          row.ID,
			UserID:      row.UserID,
			Kind:        ledger.EntryKind(row.Kind),
			AmountCents: row.AmountCents,
			RefKind:     pgconv.StringPtrFromPgtype(row.RefKind),
			RefID:       pgconv.UUIDPtrFromPgtype(row.RefID),
			CreatedAt:   row.CreatedAt,
		})
	}
	return entries, nil
}
