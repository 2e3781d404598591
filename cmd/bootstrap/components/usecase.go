package components

import (
	"salonbook/internal/pkg/clock"
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
	),
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthService,
		commands.NewBalanceService,
		commands.NewBookingService,
		commands.NewOrderService,
		commands.NewProductService,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBalanceQueryService,
		queries.NewCatalogQueryService,
		queries.NewBookingQueryService,
		queries.NewOrderQueryService,
		queries.NewAuditQueryService,
		queries.NewUserQueryService,
	),
)
