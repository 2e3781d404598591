package request

import "github.com/google/uuid"

type TopUpRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"required,gt=0"`
}
