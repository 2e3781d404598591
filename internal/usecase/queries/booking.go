package queries

import (
	"context"

	"salonbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type AppointmentReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]AppointmentView, error)
}

type BookingQueryService struct {
	reader AppointmentReader
}

func NewBookingQueryService(reader AppointmentReader) *BookingQueryService {
	return &BookingQueryService{reader: reader}
}

// GetAppointment enforces ownership: customers see only their own bookings,
// admins see everything.
func (s *BookingQueryService) GetAppointment(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*AppointmentView, error) {
	view, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && view.UserID != requesterID {
		return nil, errs.ErrAppointmentNotFound
	}
	return view, nil
}

func (s *BookingQueryService) ListAppointments(ctx context.Context, userID uuid.UUID, limit int32) ([]AppointmentView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.reader.ListByUser(ctx, userID, limit)
}
