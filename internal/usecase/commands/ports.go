package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Entity types recorded on the audit trail.
const (
	EntityAppointment = "appointment"
	EntityShopOrder   = "shop_order"
	EntityBalance     = "balance"
	EntityProduct     = "product"
	EntityUser        = "user"
)

// Ledger entry reference kinds.
const (
	RefAppointment = "appointment"
	RefShopOrder   = "shop_order"
)

// PaymentGateway is the external processor. Calls always run after the local
// transaction has committed, under a bounded timeout; a failure is surfaced
// to the caller but never undoes committed state.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, orderID uuid.UUID, amountCents int64) (string, error)
	ConfirmPayment(ctx context.Context, paymentRef string) error
	RefundPayment(ctx context.Context, paymentRef string, amountCents int64) error
}

// NotificationSink delivers best-effort notifications after commit. Errors
// are logged and swallowed.
type NotificationSink interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, payload map[string]any) error
}

func notify(ctx context.Context, sink NotificationSink, userID uuid.UUID, event string, payload map[string]any) {
	if err := sink.Notify(ctx, userID, event, payload); err != nil {
		slog.WarnContext(ctx, "notification delivery failed", "event", event, "user_id", userID, "error", err)
	}
}

// gatewayContext bounds a post-commit gateway call. It derives from
// context.Background on purpose: the request context may already be
// cancelled, and the local state is committed either way.
func gatewayContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// requestHash fingerprints a request body for idempotency-key comparison.
func requestHash(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		raw = []byte("unhashable")
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
