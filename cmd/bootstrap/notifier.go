package bootstrap

import (
	"context"
	"log/slog"

	"localbiz-bookings/internal/infra/notify"
	"localbiz-bookings/internal/pkg/config"
	"localbiz-bookings/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewNotificationDispatcher,
	),
)

// NewNotificationDispatcher returns the AMQP dispatcher when a broker URL is
// configured, and the log-only dispatcher otherwise.
func NewNotificationDispatcher(lc fx.Lifecycle, cfg config.Config) (commands.NotificationDispatcher, error) {
	if cfg.AMQP.URL == "" {
		slog.Info("no AMQP URL configured, notifications go to the log only")
		return notify.NewLoggingDispatcher(), nil
	}

	dispatcher, err := notify.NewAMQPDispatcher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return dispatcher.Close()
		},
	})

	slog.Info("AMQP notification dispatcher initialized", "exchange", cfg.AMQP.Exchange)
	return dispatcher, nil
}
