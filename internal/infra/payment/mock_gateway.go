package payment

import (
	"context"
	"log/slog"

	"salonbook/internal/pkg/errs"

	"github.com/google/uuid"
)

// MockGateway stands in for the real payment processor. It accepts every
// call and fabricates references, which is enough to exercise the
// after-commit ordering the coordinators rely on.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) InitiatePayment(ctx context.Context, orderID uuid.UUID, amountCents int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errs.Mark(err, errs.ErrGatewayFailure)
	}
	ref := "PAY-" + uuid.NewString()
	slog.InfoContext(ctx, "payment initiated", "order_id", orderID, "amount_cents", amountCents, "payment_ref", ref)
	return ref, nil
}

func (g *MockGateway) ConfirmPayment(ctx context.Context, paymentRef string) error {
	if err := ctx.Err(); err != nil {
		return errs.Mark(err, errs.ErrGatewayFailure)
	}
	slog.InfoContext(ctx, "payment confirmed", "payment_ref", paymentRef)
	return nil
}

func (g *MockGateway) RefundPayment(ctx context.Context, paymentRef string, amountCents int64) error {
	if err := ctx.Err(); err != nil {
		return errs.Mark(err, errs.ErrGatewayFailure)
	}
	slog.InfoContext(ctx, "payment refunded", "payment_ref", paymentRef, "amount_cents", amountCents)
	return nil
}
