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
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *commands.OrderService
	query  *queries.OrderQueryService
}

func NewOrderHandler(orders *commands.OrderService, query *queries.OrderQueryService) *OrderHandler {
	return &OrderHandler{orders: orders, query: query}
}

// @Summary Create order
// @Description Creates a held order and freezes stock for each line item
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body request.CreateOrderRequest true "Order"
// @Success 201 {object} response.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
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

	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	id, err := h.orders.Create(c.Request.Context(), middleware.GetActor(c), commands.CreateOrderInput{
		UserID:         userID,
		ProductIDs:     req.ProductIDs(),
		Quantities:     req.Quantities(),
		PayMethod:      payment.Method(req.PayMethod),
		Address:        req.Address,
		Phone:          req.Phone,
		IdempotencyKey: key,
	})
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Confirm order
// @Description Commits holds: deducts stock and spends the frozen balance
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.orders.Confirm(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Cancel order
// @Description Releases balance and stock holds without touching actual counters
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Ship order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body request.ShipOrderRequest true "Tracking"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	var req reqdto.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	if err := h.orders.Ship(c.Request.Context(), middleware.GetActor(c), id, req.TrackingNo); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Complete order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.orders.Complete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Refund order
// @Description Refunds up to the paid total and restores deducted stock
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body request.RefundRequest true "Refund"
// @Success 204
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /orders/{id}/refund [post]
func (h *OrderHandler) Refund(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	var req reqdto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	if err := h.orders.Refund(c.Request.Context(), middleware.GetActor(c), id, req.AmountCents); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} queries.OrderView
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	view, err := h.query.GetOrder(c.Request.Context(), id, userID, role == user.RoleAdmin)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List own orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries"
// @Success 200 {array} queries.OrderView
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	views, err := h.query.ListOrders(c.Request.Context(), userID, int32(limit))
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
