package components

import (
	"salonbook/internal/handler"
	"salonbook/internal/handler/api"
	"salonbook/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBalanceHandler,
		api.NewCatalogHandler,
		api.NewBookingHandler,
		api.NewOrderHandler,
		api.NewAuditHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	balance *api.BalanceHandler,
	catalog *api.CatalogHandler,
	booking *api.BookingHandler,
	order *api.OrderHandler,
	audit *api.AuditHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:    auth,
		Balance: balance,
		Catalog: catalog,
		Booking: booking,
		Order:   order,
		Audit:   audit,
	}
}
