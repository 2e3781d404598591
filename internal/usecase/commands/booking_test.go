//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"salonbook/internal/domain/audit"
	"salonbook/internal/domain/booking"
	"salonbook/internal/domain/payment"
	"salonbook/internal/pkg/clock"
	"salonbook/internal/pkg/config"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingFixture(t *testing.T) (*commands.BookingService, *memStore, *fakeGateway, *fakeSink) {
	t.Helper()
	store := newMemStore()
	gateway := &fakeGateway{}
	sink := &fakeSink{}
	svc := commands.NewBookingService(
		&fakeUoW{store: store},
		gateway,
		sink,
		clock.NewMockClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
		config.GatewayConfig{Timeout: time.Second},
	)
	return svc, store, gateway, sink
}

func bookInput(store *memStore, userID uuid.UUID, method payment.Method, priceCents int64) commands.BookInput {
	serviceID := store.addService(priceCents)
	return commands.BookInput{
		UserID:         userID,
		AppointmentAt:  time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		ServiceIDs:     []uuid.UUID{serviceID},
		Quantities:     []int32{1},
		PayMethod:      method,
		IdempotencyKey: uuid.New(),
	}
}

func TestBookingBook(t *testing.T) {
	ctx := context.Background()
	actor := audit.SystemActor()

	t.Run("balance booking freezes the total without touching balance", func(t *testing.T) {
		svc, store, _, sink := newBookingFixture(t)
		userID := store.addUser(1000)
		input := bookInput(store, userID, payment.MethodBalance, 600)

		id, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		assert.Equal(t, int64(1000), store.balances[userID])
		assert.Equal(t, int64(600), store.holds[userID])
		assert.Equal(t, booking.StatusUnconfirmed, store.appointments[id].Status)
		assert.Contains(t, sink.events, "appointment.created")
	})

	t.Run("freeze succeeds even when the hold exceeds the balance", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(100)
		input := bookInput(store, userID, payment.MethodBalance, 600)

		_, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)
		assert.Equal(t, int64(600), store.holds[userID])
	})

	t.Run("online booking initiates payment after commit", func(t *testing.T) {
		svc, store, gateway, _ := newBookingFixture(t)
		userID := store.addUser(0)
		input := bookInput(store, userID, payment.MethodOnline, 600)

		id, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)

		assert.Equal(t, []uuid.UUID{id}, gateway.initiated)
		assert.Equal(t, int64(0), store.holds[userID])
		require.NotNil(t, store.appointments[id].PaymentRef)
	})

	t.Run("initiation failure leaves the committed appointment without a ref", func(t *testing.T) {
		svc, store, gateway, _ := newBookingFixture(t)
		gateway.initiateErr = assert.AnError
		userID := store.addUser(0)
		input := bookInput(store, userID, payment.MethodOnline, 600)

		id, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)
		assert.Nil(t, store.appointments[id].PaymentRef)
	})

	t.Run("duplicate slot rejected", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(2000)
		input := bookInput(store, userID, payment.MethodBalance, 600)

		_, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)

		second := bookInput(store, userID, payment.MethodBalance, 600)
		second.AppointmentAt = input.AppointmentAt
		_, err = svc.Book(ctx, actor, second)
		assert.ErrorIs(t, err, errs.ErrDuplicateBooking)
		assert.Equal(t, int64(600), store.holds[userID])
	})

	t.Run("replay returns the stored id and skips side effects", func(t *testing.T) {
		svc, store, gateway, sink := newBookingFixture(t)
		userID := store.addUser(0)
		input := bookInput(store, userID, payment.MethodOnline, 600)

		first, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)

		again, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Len(t, gateway.initiated, 1)
		assert.Len(t, sink.events, 1)
	})

	t.Run("same key different body rejected", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(0)
		input := bookInput(store, userID, payment.MethodOnline, 600)

		_, err := svc.Book(ctx, actor, input)
		require.NoError(t, err)

		changed := input
		changed.Quantities = []int32{2}
		_, err = svc.Book(ctx, actor, changed)
		assert.ErrorIs(t, err, errs.ErrIdempotencyMismatch)
	})

	t.Run("empty items rejected before any transaction", func(t *testing.T) {
		svc, _, _, _ := newBookingFixture(t)
		_, err := svc.Book(ctx, actor, commands.BookInput{UserID: uuid.New(), PayMethod: payment.MethodBalance})
		assert.ErrorIs(t, err, errs.ErrEmptyLineItems)
	})

	t.Run("invalid pay method rejected", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(0)
		input := bookInput(store, userID, payment.Method("cash"), 600)
		_, err := svc.Book(ctx, actor, input)
		assert.ErrorIs(t, err, payment.ErrInvalidMethod)
	})

	t.Run("missing account rolls the hold back", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		input := bookInput(store, uuid.New(), payment.MethodBalance, 600)

		_, err := svc.Book(ctx, actor, input)
		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
		assert.Empty(t, store.appointments)
	})
}

func TestBookingFinish(t *testing.T) {
	ctx := context.Background()
	actor := audit.SystemActor()

	book := func(t *testing.T, svc *commands.BookingService, store *memStore, userID uuid.UUID, method payment.Method, price int64) uuid.UUID {
		t.Helper()
		id, err := svc.Book(ctx, actor, bookInput(store, userID, method, price))
		require.NoError(t, err)
		return id
	}

	t.Run("finish releases the hold and spends the balance", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id := book(t, svc, store, userID, payment.MethodBalance, 600)

		require.NoError(t, svc.Finish(ctx, actor, id))

		assert.Equal(t, int64(400), store.balances[userID])
		assert.Equal(t, int64(0), store.holds[userID])
		assert.Equal(t, booking.StatusFinished, store.appointments[id].Status)
	})

	t.Run("insufficient funds at finish rolls everything back", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(100)
		id := book(t, svc, store, userID, payment.MethodBalance, 600)

		err := svc.Finish(ctx, actor, id)
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

		assert.Equal(t, int64(100), store.balances[userID])
		assert.Equal(t, int64(600), store.holds[userID])
		assert.Equal(t, booking.StatusUnconfirmed, store.appointments[id].Status)
	})

	t.Run("concurrent finishes spend at most the balance", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)

		first := book(t, svc, store, userID, payment.MethodBalance, 600)
		secondInput := bookInput(store, userID, payment.MethodBalance, 600)
		secondInput.AppointmentAt = time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)
		second, err := svc.Book(ctx, actor, secondInput)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errors := make([]error, 2)
		for i, id := range []uuid.UUID{first, second} {
			wg.Add(1)
			go func(i int, id uuid.UUID) {
				defer wg.Done()
				errors[i] = svc.Finish(ctx, actor, id)
			}(i, id)
		}
		wg.Wait()

		var failures int
		for _, err := range errors {
			if err != nil {
				assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
				failures++
			}
		}
		assert.Equal(t, 1, failures)
		assert.Equal(t, int64(400), store.balances[userID])
	})

	t.Run("finish replay is a no-op", func(t *testing.T) {
		svc, store, _, sink := newBookingFixture(t)
		userID := store.addUser(1000)
		id := book(t, svc, store, userID, payment.MethodBalance, 600)

		require.NoError(t, svc.Finish(ctx, actor, id))
		require.NoError(t, svc.Finish(ctx, actor, id))

		assert.Equal(t, int64(400), store.balances[userID])
		var finished int
		for _, e := range sink.events {
			if e == "appointment.finished" {
				finished++
			}
		}
		assert.Equal(t, 1, finished)
	})

	t.Run("finish after cancel rejected", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id := book(t, svc, store, userID, payment.MethodBalance, 600)

		require.NoError(t, svc.Cancel(ctx, actor, id))
		assert.ErrorIs(t, svc.Finish(ctx, actor, id), booking.ErrInvalidStateTransition)
	})

	t.Run("gateway confirm failure surfaces but keeps local state", func(t *testing.T) {
		svc, store, gateway, _ := newBookingFixture(t)
		userID := store.addUser(0)
		id := book(t, svc, store, userID, payment.MethodOnline, 600)
		gateway.confirmErr = assert.AnError

		err := svc.Finish(ctx, actor, id)
		assert.ErrorIs(t, err, errs.ErrGatewayFailure)
		assert.Equal(t, booking.StatusFinished, store.appointments[id].Status)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		svc, _, _, _ := newBookingFixture(t)
		assert.ErrorIs(t, svc.Finish(ctx, actor, uuid.New()), errs.ErrAppointmentNotFound)
	})
}

func TestBookingCancel(t *testing.T) {
	ctx := context.Background()
	actor := audit.SystemActor()

	t.Run("cancel releases the hold only", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodBalance, 600))
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, actor, id))

		assert.Equal(t, int64(1000), store.balances[userID])
		assert.Equal(t, int64(0), store.holds[userID])
		assert.Equal(t, booking.StatusCancelled, store.appointments[id].Status)
	})

	t.Run("cancel replay is a no-op", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodBalance, 600))
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, actor, id))
		require.NoError(t, svc.Cancel(ctx, actor, id))
		assert.Equal(t, int64(0), store.holds[userID])
	})

	t.Run("cancel after finish rejected", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodBalance, 600))
		require.NoError(t, err)

		require.NoError(t, svc.Finish(ctx, actor, id))
		assert.ErrorIs(t, svc.Cancel(ctx, actor, id), booking.ErrInvalidStateTransition)
	})
}

func TestBookingRefund(t *testing.T) {
	ctx := context.Background()
	actor := audit.SystemActor()

	t.Run("balance refund credits the ledger", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodBalance, 600))
		require.NoError(t, err)
		require.NoError(t, svc.Finish(ctx, actor, id))

		require.NoError(t, svc.Refund(ctx, actor, id, 250))

		assert.Equal(t, int64(650), store.balances[userID])
		assert.Equal(t, booking.StatusRefunded, store.appointments[id].Status)

		last := store.entries[len(store.entries)-1]
		assert.Equal(t, "REFUND", string(last.Kind))
		assert.Equal(t, commands.RefAppointment, last.RefKind)
	})

	t.Run("refund from unconfirmed rejected", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodBalance, 600))
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Refund(ctx, actor, id, 100), booking.ErrInvalidStateTransition)
	})

	t.Run("refund over total rejected", func(t *testing.T) {
		svc, store, _, _ := newBookingFixture(t)
		userID := store.addUser(1000)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodBalance, 600))
		require.NoError(t, err)
		require.NoError(t, svc.Finish(ctx, actor, id))

		assert.ErrorIs(t, svc.Refund(ctx, actor, id, 601), booking.ErrRefundExceedsTotal)
	})

	t.Run("online refund goes through the gateway", func(t *testing.T) {
		svc, store, gateway, _ := newBookingFixture(t)
		userID := store.addUser(0)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodOnline, 600))
		require.NoError(t, err)
		require.NoError(t, svc.Finish(ctx, actor, id))

		require.NoError(t, svc.Refund(ctx, actor, id, 600))
		assert.Len(t, gateway.refunded, 1)
	})

	t.Run("gateway refund failure keeps local refund", func(t *testing.T) {
		svc, store, gateway, _ := newBookingFixture(t)
		userID := store.addUser(0)
		id, err := svc.Book(ctx, actor, bookInput(store, userID, payment.MethodOnline, 600))
		require.NoError(t, err)
		require.NoError(t, svc.Finish(ctx, actor, id))
		gateway.refundErr = assert.AnError

		err = svc.Refund(ctx, actor, id, 600)
		assert.ErrorIs(t, err, errs.ErrGatewayFailure)
		assert.Equal(t, booking.StatusRefunded, store.appointments[id].Status)
	})
}
