//go:build unit

package queries_test

import (
	"context"
	"testing"

	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAppointmentReader struct {
	view      *queries.AppointmentView
	lastLimit int32
}

func (r *stubAppointmentReader) FindByID(_ context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	if r.view == nil || r.view.ID != id {
		return nil, errs.ErrAppointmentNotFound
	}
	return r.view, nil
}

func (r *stubAppointmentReader) ListByUser(_ context.Context, _ uuid.UUID, limit int32) ([]queries.AppointmentView, error) {
	r.lastLimit = limit
	return nil, nil
}

func TestGetAppointmentOwnership(t *testing.T) {
	owner := uuid.New()
	view := &queries.AppointmentView{ID: uuid.New(), UserID: owner, Status: "unconfirmed"}
	svc := queries.NewBookingQueryService(&stubAppointmentReader{view: view})

	t.Run("owner can read their own appointment", func(t *testing.T) {
		got, err := svc.GetAppointment(context.Background(), view.ID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("other customer gets not found, not forbidden", func(t *testing.T) {
		_, err := svc.GetAppointment(context.Background(), view.ID, uuid.New(), false)
		assert.ErrorIs(t, err, errs.ErrAppointmentNotFound)
	})

	t.Run("admin can read anyone's appointment", func(t *testing.T) {
		got, err := svc.GetAppointment(context.Background(), view.ID, uuid.New(), true)
		require.NoError(t, err)
		assert.Equal(t, owner, got.UserID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetAppointment(context.Background(), uuid.New(), owner, false)
		assert.ErrorIs(t, err, errs.ErrAppointmentNotFound)
	})
}

func TestListAppointmentsLimitClamp(t *testing.T) {
	reader := &stubAppointmentReader{}
	svc := queries.NewBookingQueryService(reader)

	for _, tc := range []struct {
		name  string
		in    int32
		wantL int32
	}{
		{"zero falls back to default", 0, 50},
		{"negative falls back to default", -5, 50},
		{"over cap falls back to default", 500, 50},
		{"in range passes through", 25, 25},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListAppointments(context.Background(), uuid.New(), tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.wantL, reader.lastLimit)
		})
	}
}
