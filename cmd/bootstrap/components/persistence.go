package components

import (
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/infra/readstore"
	"localbiz-bookings/internal/infra/uow"
	"localbiz-bookings/internal/usecase/queries"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		NewCommandReads,
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewWaitlistReadStore,
			fx.As(new(queries.WaitlistReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewCommandReads(u shared.UnitOfWork) shared.CommandReads {
	return u.CommandReads()
}
