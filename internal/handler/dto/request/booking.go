package request

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentLineItem struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Qty       int32     `json:"qty" binding:"required,gt=0"`
}

type CreateAppointmentRequest struct {
	AppointmentAt time.Time             `json:"appointment_at" binding:"required"`
	Items         []AppointmentLineItem `json:"items" binding:"required,min=1,dive"`
	PayMethod     string                `json:"pay_method" binding:"required,oneof=balance online"`
}

func (r CreateAppointmentRequest) ServiceIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.ServiceID)
	}
	return ids
}

func (r CreateAppointmentRequest) Quantities() []int32 {
	qtys := make([]int32, 0, len(r.Items))
	for _, item := range r.Items {
		qtys = append(qtys, item.Qty)
	}
	return qtys
}

type RefundRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}
