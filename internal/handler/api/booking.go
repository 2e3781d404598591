package api

import (
	"net/http"
	"strconv"

	"salonbook/internal/domain/payment"
	"salonbook/internal/domain/user"
	reqdto "salonbook/internal/handler/dto/request"
	resdto "salonbook/internal/handler/dto/response"
	"salonbook/internal/handler/httperr"
	"salonbook/internal/handler/middleware"
	"salonbook/internal/pkg/errs"
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	booking *commands.BookingService
	query   *queries.BookingQueryService
}

func NewBookingHandler(booking *commands.BookingService, query *queries.BookingQueryService) *BookingHandler {
	return &BookingHandler{booking: booking, query: query}
}

// @Summary Create appointment
// @Description Creates a held appointment; balance payment freezes the total
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body request.CreateAppointmentRequest true "Appointment"
// @Success 201 {object} response.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /appointments [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	key, err := idempotencyKey(c)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}

	var req reqdto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	id, err := h.booking.Book(c.Request.Context(), middleware.GetActor(c), commands.BookInput{
		UserID:         userID,
		AppointmentAt:  req.AppointmentAt,
		ServiceIDs:     req.ServiceIDs(),
		Quantities:     req.Quantities(),
		PayMethod:      payment.Method(req.PayMethod),
		IdempotencyKey: key,
	})
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Finish appointment
// @Description Commits the hold: releases pending and spends the balance
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /appointments/{id}/finish [post]
func (h *BookingHandler) Finish(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.booking.Finish(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Cancel appointment
// @Description Releases the hold without moving actual funds
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.booking.Cancel(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Refund appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body request.RefundRequest true "Refund"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /appointments/{id}/refund [post]
func (h *BookingHandler) Refund(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	var req reqdto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	if err := h.booking.Refund(c.Request.Context(), middleware.GetActor(c), id, req.AmountCents); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get appointment
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} queries.AppointmentView
// @Failure 404 {object} httperr.Response
// @Router /appointments/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	view, err := h.query.GetAppointment(c.Request.Context(), id, userID, role == user.RoleAdmin)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List own appointments
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries"
// @Success 200 {array} queries.AppointmentView
// @Router /appointments [get]
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	views, err := h.query.ListAppointments(c.Request.Context(), userID, int32(limit))
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func idempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrIdempotencyKeyRequired)
	}
	return key, nil
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_ID", "Invalid id format", nil)
		return uuid.Nil, err
	}
	return id, nil
}
