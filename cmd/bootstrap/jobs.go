package bootstrap

import (
	"context"
	"log/slog"

	"localbiz-bookings/internal/jobs"
	"localbiz-bookings/internal/pkg/config"
	"localbiz-bookings/internal/usecase/commands"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Invoke(
		StartHoldExpirySweeper,
	),
)

func StartHoldExpirySweeper(lc fx.Lifecycle, cfg config.Config, maintenance commands.MaintenanceCommands) {
	if !cfg.Jobs.HoldSweepEnabled {
		slog.Info("hold expiry sweeper disabled")
		return
	}

	sweeper := jobs.NewHoldExpirySweeper(maintenance, cfg.Jobs)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
