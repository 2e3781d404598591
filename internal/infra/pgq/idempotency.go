package pgq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyKeyRow struct {
	Key          uuid.UUID
	UserID       uuid.UUID
	Endpoint     string
	RequestHash  string
	Status       string
	ResultID     pgtype.UUID
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TryInsertIdempotencyKeyParams struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   time.Time
}

const tryInsertIdempotencyKey = `
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO NOTHING
`

// TryInsertIdempotencyKey claims the key; zero rows affected means another
// request holds it already.
func (q *Queries) TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error) {
	tag, err := db.Exec(ctx, tryInsertIdempotencyKey,
		arg.Key, arg.UserID, arg.Endpoint, arg.RequestHash, arg.ExpiresAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getIdempotencyKey = `
SELECT key, user_id, endpoint, request_hash, status, result_id, expires_at, created_at, updated_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2
`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, key, userID uuid.UUID) (IdempotencyKeyRow, error) {
	var row IdempotencyKeyRow
	err := db.QueryRow(ctx, getIdempotencyKey, key, userID).Scan(
		&row.Key, &row.UserID, &row.Endpoint, &row.RequestHash, &row.Status,
		&row.ResultID, &row.ExpiresAt, &row.CreatedAt, &row.UpdatedAt)
	return row, err
}

const completeIdempotencyKey = `
UPDATE idempotency_keys
SET status = 'completed',
    result_id = $3,
    updated_at = now()
WHERE key = $1 AND user_id = $2
`

func (q *Queries) CompleteIdempotencyKey(ctx context.Context, db DBTX, key, userID, resultID uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, completeIdempotencyKey, key, userID, resultID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const claimExpiredIdempotencyKey = `
UPDATE idempotency_keys
SET request_hash = $3,
    status = 'processing',
    result_id = NULL,
    expires_at = $4,
    updated_at = now()
WHERE key = $1 AND user_id = $2 AND expires_at < now()
`

func (q *Queries) ClaimExpiredIdempotencyKey(ctx context.Context, db DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error) {
	tag, err := db.Exec(ctx, claimExpiredIdempotencyKey, key, userID, requestHash, expiresAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
