package repository

import (
	"context"
	"time"

	"salonbook/internal/infra"
	"salonbook/internal/infra/pgq"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/pkg/pgconv"
	"salonbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyQueries interface {
	TryInsertIdempotencyKey(ctx context.Context, db pgq.DBTX, arg pgq.TryInsertIdempotencyKeyParams) (int64, error)
	GetIdempotencyKey(ctx context.Context, db pgq.DBTX, key, userID uuid.UUID) (pgq.IdempotencyKeyRow, error)
	CompleteIdempotencyKey(ctx context.Context, db pgq.DBTX, key, userID, resultID uuid.UUID) (int64, error)
	ClaimExpiredIdempotencyKey(ctx context.Context, db pgq.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyQueries
	db      pgq.DBTX
}

func NewIdempotencyRepository(queries IdempotencyQueries, db pgq.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{queries: queries, db: db}
}

// Begin claims the key for this request. First writer wins the claim; a
// losing writer gets either a replay (completed, same hash), a mismatch
// (different hash), or an in-progress rejection.
func (r *IdempotencyRepository) Begin(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, now time.Time) (shared.IdempotencyBegin, error) {
	expiresAt := now.Add(24 * time.Hour)
	inserted, err := r.queries.TryInsertIdempotencyKey(ctx, r.db, pgq.TryInsertIdempotencyKeyParams{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return shared.IdempotencyBegin{}, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	if inserted == 1 {
		return shared.IdempotencyBegin{}, nil
	}

	row, err := r.queries.GetIdempotencyKey(ctx, r.db, key, userID)
	if err != nil {
		return shared.IdempotencyBegin{}, infra.WrapRepoErr("failed to read idempotency key", err)
	}

	if row.RequestHash != requestHash {
		return shared.IdempotencyBegin{}, errs.ErrIdempotencyMismatch
	}

	switch row.Status {
	case "processing":
		if row.ExpiresAt.After(now) {
			return shared.IdempotencyBegin{}, errs.ErrIdempotencyInProgress
		}
		// Stale claim from a crashed request; take it over.
		claimed, err := r.queries.ClaimExpiredIdempotencyKey(ctx, r.db, key, userID, requestHash, expiresAt)
		if err != nil {
			return shared.IdempotencyBegin{}, infra.WrapRepoErr("failed to reclaim idempotency key", err)
		}
		if claimed == 0 {
			return shared.IdempotencyBegin{}, errs.ErrIdempotencyInProgress
		}
		return shared.IdempotencyBegin{}, nil
	case "completed":
		return shared.IdempotencyBegin{Replay: true, ResultID: pgconv.UUIDPtrFromPgtype(row.ResultID)}, nil
	default:
		return shared.IdempotencyBegin{}, errs.ErrIdempotencyCheckFailed
	}
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, userID, resultID uuid.UUID) error {
	affected, err := r.queries.CompleteIdempotencyKey(ctx, r.db, key, userID, resultID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if affected == 0 {
		return errs.ErrIdempotencyCheckFailed
	}
	return nil
}
