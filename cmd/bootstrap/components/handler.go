package components

import (
	"localbiz-bookings/internal/handler"
	"localbiz-bookings/internal/handler/api"
	"localbiz-bookings/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewWaitlistHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
