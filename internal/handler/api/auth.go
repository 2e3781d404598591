package api

import (
	"net/http"

	"salonbook/internal/domain/user"
	reqdto "salonbook/internal/handler/dto/request"
	resdto "salonbook/internal/handler/dto/response"
	"salonbook/internal/handler/httperr"
	"salonbook/internal/handler/middleware"
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth  *commands.AuthService
	users *queries.UserQueryService
}

func NewAuthHandler(auth *commands.AuthService, users *queries.UserQueryService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.TokenResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.TokenResponse{AccessToken: token})
}

// @Summary Register
// @Description Creates a customer account with an empty savings card
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "New account"
// @Success 201 {object} response.CreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request format", nil)
		return
	}

	id, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, user.RoleCustomer)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.UserView
// @Failure 401 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		httperr.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
