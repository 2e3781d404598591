package components

import (
	"salonbook/internal/infra/notification"
	"salonbook/internal/infra/payment"
	"salonbook/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			payment.NewMockGateway,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			notification.NewLogSink,
			fx.As(new(commands.NotificationSink)),
		),
	),
)
