package httperr

import (
	"errors"
	"net/http"

	"salonbook/internal/domain/booking"
	"salonbook/internal/domain/order"
	"salonbook/internal/domain/payment"
	"salonbook/internal/infra"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// HandleError maps usecase and domain errors onto HTTP responses with
// machine-readable codes. Unrecognized errors become a 500 without leaking
// internals.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrGatewayFailure):
		AbortRetryable(c, http.StatusBadGateway, err, "GATEWAY_FAILURE", "Payment gateway is unavailable")

	case errors.Is(err, errs.ErrInsufficientFunds):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "INSUFFICIENT_FUNDS", "Balance is insufficient", nil)
	case errors.Is(err, errs.ErrInsufficientStock):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "INSUFFICIENT_STOCK", "Stock is insufficient", nil)
	case errors.Is(err, errs.ErrNegativeHold):
		AbortWithError(c, http.StatusConflict, err, "HOLD_CONFLICT", "Hold adjustment would go negative", nil)

	case errors.Is(err, errs.ErrAccountNotFound),
		errors.Is(err, errs.ErrHoldNotFound),
		errors.Is(err, errs.ErrItemNotFound),
		errors.Is(err, errs.ErrAppointmentNotFound),
		errors.Is(err, errs.ErrOrderNotFound),
		errors.Is(err, errs.ErrUserNotFound):
		AbortWithError(c, http.StatusNotFound, err, "NOT_FOUND", "Resource not found", nil)

	case errors.Is(err, errs.ErrDuplicateBooking):
		AbortWithError(c, http.StatusConflict, err, "DUPLICATE_BOOKING", "A booking already exists for this time slot", nil)
	case errors.Is(err, errs.ErrInvalidStateTransition),
		errors.Is(err, booking.ErrInvalidStateTransition),
		errors.Is(err, order.ErrInvalidStateTransition):
		AbortWithError(c, http.StatusConflict, err, "INVALID_STATE", "Operation is not allowed in the current state", nil)

	case errors.Is(err, errs.ErrRefundExceedsTotal),
		errors.Is(err, booking.ErrRefundExceedsTotal),
		errors.Is(err, order.ErrRefundExceedsTotal):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "REFUND_EXCEEDS_TOTAL", "Refund amount exceeds the original total", nil)

	case errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrEmptyLineItems),
		errors.Is(err, payment.ErrInvalidMethod),
		errors.Is(err, booking.ErrEmptyItems),
		errors.Is(err, booking.ErrInvalidQty),
		errors.Is(err, booking.ErrInvalidRefundAmount),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrInvalidQty),
		errors.Is(err, order.ErrInvalidRefundAmount),
		errors.Is(err, order.ErrEmptyTrackingNo):
		AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Request validation failed", nil)

	case errors.Is(err, errs.ErrIdempotencyKeyRequired):
		AbortWithError(c, http.StatusBadRequest, err, "IDEMPOTENCY_KEY_REQUIRED", "Idempotency-Key header is required", nil)
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		AbortWithError(c, http.StatusConflict, err, "IDEMPOTENCY_IN_PROGRESS", "A request with this key is still in progress", nil)
	case errors.Is(err, errs.ErrIdempotencyMismatch):
		AbortWithError(c, http.StatusUnprocessableEntity, err, "IDEMPOTENCY_MISMATCH", "Idempotency key was reused with a different request", nil)

	case errors.Is(err, commands.ErrInvalidCredentials):
		AbortWithError(c, http.StatusUnauthorized, err, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	case errors.Is(err, commands.ErrUserInactive):
		AbortWithError(c, http.StatusForbidden, err, "USER_INACTIVE", "User account is inactive", nil)

	case infra.IsKind(err, infra.KindDuplicateKey):
		AbortWithError(c, http.StatusConflict, err, "DUPLICATE", "Resource already exists", nil)
	case infra.IsKind(err, infra.KindConflict):
		AbortWithError(c, http.StatusConflict, err, "CONFLICT", "Resource was modified concurrently", nil)
	case infra.IsKind(err, infra.KindNotFound):
		AbortWithError(c, http.StatusNotFound, err, "NOT_FOUND", "Resource not found", nil)

	default:
		AbortWithError(c, http.StatusInternalServerError, err, "INTERNAL", "Internal server error", nil)
	}
}
