package components

import (
	"salonbook/internal/infra/pgq"
	"salonbook/internal/infra/readstore"
	"salonbook/internal/infra/uow"
	"salonbook/internal/usecase/commands"
	"salonbook/internal/usecase/queries"
	"salonbook/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write-side repositories are created inside the unit of work, bound to the
// live transaction. Only the read stores talk to the pool directly.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPGQueries,
		fx.Annotate(
			uow.NewPostgresUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewBalanceReadStore,
			fx.As(new(queries.BalanceReader)),
		),
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductReader)),
		),
		fx.Annotate(
			readstore.NewServiceItemReadStore,
			fx.As(new(queries.ServiceItemReader)),
		),
		fx.Annotate(
			readstore.NewAppointmentReadStore,
			fx.As(new(queries.AppointmentReader)),
		),
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReader)),
		),
		fx.Annotate(
			readstore.NewAuditReadStore,
			fx.As(new(queries.AuditReader)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReader)),
			fx.As(new(commands.CredentialsReader)),
		),
	),
)

func NewPGQueries(_ *pgxpool.Pool) *pgq.Queries {
	return pgq.New()
}
