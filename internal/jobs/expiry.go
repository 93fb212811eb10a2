package jobs

import (
	"context"
	"log/slog"
	"time"

	"localbiz-bookings/internal/pkg/config"
	"localbiz-bookings/internal/usecase/commands"
)

// HoldExpirySweeper periodically reaps notified waitlist entries whose hold
// window ran out. The state change itself lives in the maintenance command;
// the sweeper only provides the heartbeat.
type HoldExpirySweeper struct {
	maintenance commands.MaintenanceCommands
	interval    time.Duration
	stop        chan struct{}
	done        chan struct{}
}

func NewHoldExpirySweeper(maintenance commands.MaintenanceCommands, cfg config.JobsConfig) *HoldExpirySweeper {
	return &HoldExpirySweeper{
		maintenance: maintenance,
		interval:    cfg.HoldSweepInterval,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (s *HoldExpirySweeper) Start() {
	go s.run()
}

func (s *HoldExpirySweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *HoldExpirySweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("hold expiry sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-s.stop:
			slog.Info("hold expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *HoldExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reaped, err := s.maintenance.ExpireHolds(ctx)
	if err != nil {
		slog.Error("hold expiry sweep failed", "error", err.Error())
		return
	}
	if reaped > 0 {
		slog.Info("expired waitlist holds reaped", "count", reaped)
	}
}
