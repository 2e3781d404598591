package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"salonbook/internal/handler/api"
	"salonbook/internal/handler/middleware"
	"salonbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Balance *api.BalanceHandler
	Catalog *api.CatalogHandler
	Booking *api.BookingHandler
	Order   *api.OrderHandler
	Audit   *api.AuditHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, logger *middleware.Logger) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := authMiddleware.RequireAuth()
	requireAdmin := authMiddleware.RequireAdmin()

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
			})

			authRequired := auth.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		catalog := apiGroup.Group("")
		{
			addRoutes(catalog, []route{
				{Method: http.MethodGet, Path: "/products", Handler: h.Catalog.ListProducts},
				{Method: http.MethodGet, Path: "/products/:id", Handler: h.Catalog.GetProduct},
				{Method: http.MethodGet, Path: "/services", Handler: h.Catalog.ListServices},
			})
		}

		balance := apiGroup.Group("/balance")
		balance.Use(requireAuth)
		{
			addRoutes(balance, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Balance.GetBalance},
				{Method: http.MethodGet, Path: "/entries", Handler: h.Balance.ListEntries},
				{Method: http.MethodPost, Path: "/topup", Handler: h.Balance.TopUp, Mw: []gin.HandlerFunc{requireAdmin}},
			})
		}

		appointments := apiGroup.Group("/appointments")
		appointments.Use(requireAuth)
		{
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
				{Method: http.MethodPost, Path: "/:id/finish", Handler: h.Booking.Finish, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: h.Booking.Refund, Mw: []gin.HandlerFunc{requireAdmin}},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(requireAuth)
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Order.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Order.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Order.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Order.Cancel},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Order.Confirm, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/:id/ship", Handler: h.Order.Ship, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Order.Complete, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: h.Order.Refund, Mw: []gin.HandlerFunc{requireAdmin}},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(requireAuth, requireAdmin)
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/products", Handler: h.Catalog.CreateProduct},
				{Method: http.MethodPatch, Path: "/products/:id", Handler: h.Catalog.UpdateProduct},
				{Method: http.MethodGet, Path: "/audit", Handler: h.Audit.List},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
