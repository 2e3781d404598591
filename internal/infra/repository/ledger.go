package repository

import (
	"context"

	"salonbook/internal/domain/ledger"
	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type LedgerQueries interface {
	LockSavingsCard(ctx context.Context, db pgq.DBTX, userID uuid.UUID) (pgq.SavingsCardRow, error)
	LockSavingsHold(ctx context.Context, db pgq.DBTX, userID uuid.UUID) (pgq.SavingsHoldRow, error)
	TopUpBalance(ctx context.Context, db pgq.DBTX, userID uuid.UUID, amountCents int64) (int64, error)
	TrySpendBalance(ctx context.Context, db pgq.DBTX, userID uuid.UUID, amountCents int64) (int64, error)
	UpsertFreezeHold(ctx context.Context, db pgq.DBTX, userID uuid.UUID, amountCents int64) error
	AdjustHold(ctx context.Context, db pgq.DBTX, userID uuid.UUID, deltaCents int64) (int64, error)
	InsertLedgerEntry(ctx context.Context, db pgq.DBTX, arg pgq.InsertLedgerEntryParams) (uuid.UUID, error)
}

// LedgerRepository implements the balance side of the reservation core.
// Every method is a single conditional statement; compound sequences are the
// coordinator's business, guarded by LockAccount/LockHold.
type LedgerRepository struct {
	queries LedgerQueries
	db      pgq.DBTX
}

func NewLedgerRepository(queries LedgerQueries, db pgq.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: queries, db: db}
}

// LockAccount takes the row-level exclusive lock that guards compound
// release-then-spend sequences against lost updates.
func (r *LedgerRepository) LockAccount(ctx context.Context, userID uuid.UUID) (*ledger.Account, error) {
	row, err := r.queries.LockSavingsCard(ctx, r.db, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, infra.WrapRepoErr("failed to lock savings card", err)
	}
	return &ledger.Account{
		UserID:       row.UserID,
		BalanceCents: row.BalanceCents,
		Version:      row.Version,
	}, nil
}

func (r *LedgerRepository) LockHold(ctx context.Context, userID uuid.UUID) error {
	_, err := r.queries.LockSavingsHold(ctx, r.db, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return errs.ErrHoldNotFound
		}
		return infra.WrapRepoErr("failed to lock savings hold", err)
	}
	return nil
}

func (r *LedgerRepository) TopUp(ctx context.Context, userID uuid.UUID, amountCents int64) error {
	amount, err := ledger.NewAmount(amountCents)
	if err != nil {
		return errs.ErrInvalidAmount
	}

	affected, err := r.queries.TopUpBalance(ctx, r.db, userID, amount.Cents())
	if err != nil {
		return infra.WrapRepoErr("failed to top up balance", err)
	}
	if affected == 0 {
		return errs.ErrAccountNotFound
	}

	return r.recordEntry(ctx, userID, ledger.EntryTopUp, amount.Cents(), nil, nil)
}

// TrySpend is the only operation that reduces actual funds.
func (r *LedgerRepository) TrySpend(ctx context.Context, userID uuid.UUID, amountCents int64, refKind string, refID uuid.UUID) error {
	amount, err := ledger.NewAmount(amountCents)
	if err != nil {
		return errs.ErrInvalidAmount
	}

	affected, err := r.queries.TrySpendBalance(ctx, r.db, userID, amount.Cents())
	if err != nil {
		return infra.WrapRepoErr("failed to spend balance", err)
	}
	if affected == 0 {
		return errs.ErrInsufficientFunds
	}

	return r.recordEntry(ctx, userID, ledger.EntrySpend, amount.Cents(), &refKind, &refID)
}

// Freeze raises the pending counter, creating the hold row if absent. It
// never validates against the balance; freezing is advisory bookkeeping,
// not a funds check.
func (r *LedgerRepository) Freeze(ctx context.Context, userID uuid.UUID, amountCents int64) error {
	amount, err := ledger.NewAmount(amountCents)
	if err != nil {
		return errs.ErrInvalidAmount
	}

	if err := r.queries.UpsertFreezeHold(ctx, r.db, userID, amount.Cents()); err != nil {
		return infra.WrapRepoErr("failed to freeze balance", err)
	}
	return nil
}

func (r *LedgerRepository) AdjustPending(ctx context.Context, userID uuid.UUID, deltaCents int64) error {
	affected, err := r.queries.AdjustHold(ctx, r.db, userID, deltaCents)
	if err != nil {
		return infra.WrapRepoErr("failed to adjust pending balance", err)
	}
	if affected == 0 {
		return errs.ErrNegativeHold
	}
	return nil
}

// Refund is a top-up tagged with a refund reason for the ledger history.
func (r *LedgerRepository) Refund(ctx context.Context, userID uuid.UUID, amountCents int64, refKind string, refID uuid.UUID) error {
	amount, err := ledger.NewAmount(amountCents)
	if err != nil {
		return errs.ErrInvalidAmount
	}

	affected, err := r.queries.TopUpBalance(ctx, r.db, userID, amount.Cents())
	if err != nil {
		return infra.WrapRepoErr("failed to refund balance", err)
	}
	if affected == 0 {
		return errs.ErrAccountNotFound
	}

	return r.recordEntry(ctx, userID, ledger.EntryRefund, amount.Cents(), &refKind, &refID)
}

func (r *LedgerRepository) recordEntry(ctx context.Context, userID uuid.UUID, kind ledger.EntryKind, amountCents int64, refKind *string, refID *uuid.UUID) error {
	params := pgq.InsertLedgerEntryParams{
		UserID:      userID,
		Kind:        string(kind),
		AmountCents: amountCents,
		RefKind:     pgconv.StringPtrToPgtype(refKind),
		RefID:       pgconv.UUIDPtrToPgtype(refID),
	}
	if _, err := r.queries.InsertLedgerEntry(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to insert ledger entry", err)
	}
	return nil
}
