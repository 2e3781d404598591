package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SavingsCardRow struct {
	UserID       uuid.UUID
	BalanceCents int64
	Version      int64
	UpdatedAt    time.Time
}

type SavingsHoldRow struct {
	UserID       uuid.UUID
	PendingCents int64
	Version      int64
	UpdatedAt    time.Time
}

type SavingsAccountRow struct {
	UserID       uuid.UUID
	BalanceCents int64
	PendingCents int64
	Version      int64
}

type LedgerEntryRow struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Kind        string
	AmountCents int64
	RefKind     pgtype.Text
	RefID       pgtype.UUID
	CreatedAt   time.Time
}

type InsertLedgerEntryParams struct {
	UserID      uuid.UUID
	Kind        string
	AmountCents int64
	RefKind     pgtype.Text
	RefID       pgtype.UUID
}

const createSavingsCard = `
INSERT INTO savings_cards (user_id, balance_cents)
VALUES ($1, 0)
ON CONFLICT (user_id) DO NOTHING
`

func (q *Queries) CreateSavingsCard(ctx context.Context, db DBTX, userID uuid.UUID) error {
	_, err := db.Exec(ctx, createSavingsCard, userID)
	return err
}

const lockSavingsCard = `
SELECT user_id, balance_cents, version, updated_at
FROM savings_cards
WHERE user_id = $1
FOR UPDATE
`

// LockSavingsCard takes the row-level exclusive lock guarding compound
// release-then-spend sequences.
func (q *Queries) LockSavingsCard(ctx context.Context, db DBTX, userID uuid.UUID) (SavingsCardRow, error) {
	var row SavingsCardRow
	err := db.QueryRow(ctx, lockSavingsCard, userID).
		Scan(&row.UserID, &row.BalanceCents, &row.Version, &row.UpdatedAt)
	return row, err
}

const topUpBalance = `
UPDATE savings_cards
SET balance_cents = balance_cents + $2,
    version = version + 1,
    updated_at = now()
WHERE user_id = $1
`

func (q *Queries) TopUpBalance(ctx context.Context, db DBTX, userID uuid.UUID, amountCents int64) (int64, error) {
	tag, err := db.Exec(ctx, topUpBalance, userID, amountCents)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const trySpendBalance = `
UPDATE savings_cards
SET balance_cents = balance_cents - $2,
    version = version + 1,
    updated_at = now()
WHERE user_id = $1 AND balance_cents >= $2
`

// TrySpendBalance is the single conditional statement that reduces actual
// funds; zero rows affected means insufficient balance.
func (q *Queries) TrySpendBalance(ctx context.Context, db DBTX, userID uuid.UUID, amountCents int64) (int64, error) {
	tag, err := db.Exec(ctx, trySpendBalance, userID, amountCents)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const upsertFreezeHold = `
INSERT INTO savings_holds (user_id, pending_cents)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET pending_cents = savings_holds.pending_cents + EXCLUDED.pending_cents,
    version = savings_holds.version + 1,
    updated_at = now()
`

// UpsertFreezeHold never validates against balance_cents; freezing is
// advisory bookkeeping, not a funds check.
func (q *Queries) UpsertFreezeHold(ctx context.Context, db DBTX, userID uuid.UUID, amountCents int64) error {
	_, err := db.Exec(ctx, upsertFreezeHold, userID, amountCents)
	return err
}

const lockSavingsHold = `
SELECT user_id, pending_cents, version, updated_at
FROM savings_holds
WHERE user_id = $1
FOR UPDATE
`

func (q *Queries) LockSavingsHold(ctx context.Context, db DBTX, userID uuid.UUID) (SavingsHoldRow, error) {
	var row SavingsHoldRow
	err := db.QueryRow(ctx, lockSavingsHold, userID).
		Scan(&row.UserID, &row.PendingCents, &row.Version, &row.UpdatedAt)
	return row, err
}

const adjustHold = `
UPDATE savings_holds
SET pending_cents = pending_cents + $2,
    version = version + 1,
    updated_at = now()
WHERE user_id = $1 AND pending_cents + $2 >= 0
`

// AdjustHold applies a signed delta; zero rows affected means the result
// would have gone negative.
func (q *Queries) AdjustHold(ctx context.Context, db DBTX, userID uuid.UUID, deltaCents int64) (int64, error) {
	tag, err := db.Exec(ctx, adjustHold, userID, deltaCents)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const insertLedgerEntry = `
INSERT INTO ledger_entries (id, user_id, kind, amount_cents, ref_kind, ref_id)
VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
RETURNING id
`

func (q *Queries) InsertLedgerEntry(ctx context.Context, db DBTX, arg InsertLedgerEntryParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, insertLedgerEntry,
		arg.UserID, arg.Kind, arg.AmountCents, arg.RefKind, arg.RefID).Scan(&id)
	return id, err
}

const getSavingsAccount = `
SELECT c.user_id, c.balance_cents, COALESCE(h.pending_cents, 0), c.version
FROM savings_cards c
LEFT JOIN savings_holds h ON h.user_id = c.user_id
WHERE c.user_id = $1
`

func (q *Queries) GetSavingsAccount(ctx context.Context, db DBTX, userID uuid.UUID) (SavingsAccountRow, error) {
	var row SavingsAccountRow
	err := db.QueryRow(ctx, getSavingsAccount, userID).
		Scan(&row.UserID, &row.BalanceCents, &row.PendingCents, &row.Version)
	return row, err
}

const listLedgerEntries = `
SELECT id, user_id, kind, amount_cents, ref_kind, ref_id, created_at
FROM ledger_entries
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`

func (q *Queries) ListLedgerEntries(ctx context.Context, db DBTX, userID uuid.UUID, limit int32) ([]LedgerEntryRow, error) {
	rows, err := db.Query(ctx, listLedgerEntries, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LedgerEntryRow
	for rows.Next() {
		var row LedgerEntryRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Kind, &row.AmountCents,
			&row.RefKind, &row.RefID, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
