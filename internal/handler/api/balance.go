package api

import (
	"net/http"
	"strconv"

	reqdto "salonbook/internal/handler/dto/request"
	"salonbook/internal/handler/httperr"
	"salonbook/internal/handler/middleware"
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	balance      *commands.BalanceService
	balanceQuery *queries.BalanceQueryService
}

func NewBalanceHandler(balance *commands.BalanceService, balanceQuery *queries.BalanceQueryService) *BalanceHandler {
	return &BalanceHandler{balance: balance, balanceQuery: balanceQuery}
}

// @Summary Get balance
// @Description Balance, pending hold, and derived available amount
// @Tags balance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.BalanceView
// @Failure 404 {object} httperr.Response
// @Router /balance [get]
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.balanceQuery.GetBalance(c.Request.Context(), userID)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Ledger history
// @Tags balance
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries"
// @Success 200 {array} queries.LedgerEntryView
// @Router /balance/entries [get]
func (h *BalanceHandler) ListEntries(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	views, err := h.balanceQuery.ListEntries(c.Request.Context(), userID, int32(limit))
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Top up a user's balance
// @Tags balance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.TopUpRequest true "Top-up"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /balance/topup [post]
func (h *BalanceHandler) TopUp(c *gin.Context) {
	var req reqdto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	actor := middleware.GetActor(c)
	if err := h.balance.TopUp(c.Request.Context(), actor, req.UserID, req.AmountCents); err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
