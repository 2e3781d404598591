package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"salonbook/internal/infra/pgq"
	"salonbook/internal/infra/repository"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRetries     = 3
	baseRetryDelay = 10 * time.Millisecond
)

type PostgresUnitOfWork struct {
	pool    *pgxpool.Pool
	queries *pgq.Queries
}

func NewPostgresUnitOfWork(pool *pgxpool.Pool, queries *pgq.Queries) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool, queries: queries}
}

// Within runs fn at repeatable read and retries the whole closure on
// serialization failure (40001) or deadlock (40P01). fn must keep its side
// effects inside the transaction.
func (u *PostgresUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errs.Wrap(ctx.Err(), "transaction retry aborted")
			case <-time.After(retryDelay(attempt)):
			}
			slog.Warn("retrying transaction", "attempt", attempt)
		}

		lastErr = u.runOnce(ctx, fn)
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
	}
	return errs.Wrap(lastErr, "transaction retries exhausted")
}

func (u *PostgresUnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return errs.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, &pgTx{tx: tx, queries: u.queries}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func retryDelay(attempt int) time.Duration {
	backoff := baseRetryDelay << (attempt - 1)
	jitter := time.Duration(rand.Int63n(int64(backoff)))
	return backoff + jitter
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// pgTx satisfies shared.Tx with handles bound to one pgx transaction.
type pgTx struct {
	tx      pgx.Tx
	queries *pgq.Queries

	ledger       *repository.LedgerRepository
	inventory    *repository.InventoryRepository
	products     *repository.ProductRepository
	appointments *repository.AppointmentRepository
	orders       *repository.OrderRepository
	audit        *repository.AuditRepository
	users        *repository.UserRepository
	idempotency  *repository.IdempotencyRepository
	reads        *txReads
}

func (t *pgTx) Ledger() shared.LedgerRepository {
	if t.ledger == nil {
		t.ledger = repository.NewLedgerRepository(t.queries, t.tx)
	}
	return t.ledger
}

func (t *pgTx) Inventory() shared.InventoryRepository {
	if t.inventory == nil {
		t.inventory = repository.NewInventoryRepository(t.queries, t.tx)
	}
	return t.inventory
}

func (t *pgTx) Products() shared.ProductRepository {
	if t.products == nil {
		t.products = repository.NewProductRepository(t.queries, t.tx)
	}
	return t.products
}

func (t *pgTx) Appointments() shared.AppointmentRepository {
	if t.appointments == nil {
		t.appointments = repository.NewAppointmentRepository(t.queries, t.tx)
	}
	return t.appointments
}

func (t *pgTx) Orders() shared.OrderRepository {
	if t.orders == nil {
		t.orders = repository.NewOrderRepository(t.queries, t.tx)
	}
	return t.orders
}

func (t *pgTx) Audit() shared.AuditTrail {
	if t.audit == nil {
		t.audit = repository.NewAuditRepository(t.queries, t.tx)
	}
	return t.audit
}

func (t *pgTx) Users() shared.UserRepository {
	if t.users == nil {
		t.users = repository.NewUserRepository(t.queries, t.tx)
	}
	return t.users
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotency == nil {
		t.idempotency = repository.NewIdempotencyRepository(t.queries, t.tx)
	}
	return t.idempotency
}

func (t *pgTx) Reads() shared.TxReads {
	if t.reads == nil {
		t.reads = &txReads{tx: t.tx, queries: t.queries}
	}
	return t.reads
}
