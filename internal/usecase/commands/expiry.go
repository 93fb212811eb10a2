package commands

import (
	"context"
	"log/slog"

	"localbiz-bookings/internal/domain/waitlist"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/pkg/clock"
	"localbiz-bookings/internal/pkg/errs"
	"localbiz-bookings/internal/usecase/shared"
)

const expiredHoldsBatchSize = 50

// MaintenanceCommands hosts the system-initiated operations that have no
// acting identity and therefore bypass the permission gate.
type MaintenanceCommands interface {
	// ExpireHolds reaps notified entries whose hold window ran out:
	// booking -> CANCELLED, entry deleted, positions compacted. Returns the
	// number of holds reaped; per-entry failures are logged and skipped so
	// one poisoned scope cannot stall the sweep.
	ExpireHolds(ctx context.Context) (int, error)
}

type maintenanceCommandsImpl struct {
	uow        shared.UnitOfWork
	dispatcher NotificationDispatcher
	clock      clock.Clock
}

func NewMaintenanceCommands(uow shared.UnitOfWork, dispatcher NotificationDispatcher, clk clock.Clock) MaintenanceCommands {
	return &maintenanceCommandsImpl{uow: uow, dispatcher: dispatcher, clock: clk}
}

func (uc *maintenanceCommandsImpl) ExpireHolds(ctx context.Context) (int, error) {
	now := uc.clock.Now()

	var expired []*waitlist.Entry
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var derr error
		expired, derr = tx.Waitlist().ExpiredHolds(ctx, tx.DB(), now, expiredHoldsBatchSize)
		return derr
	})
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	reaped := 0
	for _, candidate := range expired {
		n, rerr := uc.reapHold(ctx, candidate)
		if rerr != nil {
			slog.Error("failed to reap expired waitlist hold",
				"entry_id", candidate.ID().String(),
				"booking_id", candidate.BookingID().String(),
				"error", rerr.Error())
			continue
		}
		if n != nil {
			reaped++
			dispatchAsync(uc.dispatcher, *n)
		}
	}
	return reaped, nil
}

// reapHold removes one expired hold inside its scope transaction. Returns
// (nil, nil) when the entry resolved concurrently or the hold is no longer
// expired (re-notified in the meantime).
func (uc *maintenanceCommandsImpl) reapHold(ctx context.Context, candidate *waitlist.Entry) (*Notification, error) {
	var n *Notification
	err := uc.uow.WithinScope(ctx, candidate.BusinessID(), candidate.Date(), func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		e, derr := tx.Waitlist().GetForUpdate(ctx, tx.DB(), candidate.ID())
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return nil
			}
			return derr
		}
		if !e.HoldExpired(now) {
			return nil
		}

		b, derr := tx.Bookings().GetForUpdate(ctx, tx.DB(), e.BookingID())
		if derr != nil {
			return derr
		}
		if derr = b.Cancel(now); derr != nil {
			return derr
		}
		if derr = tx.Bookings().Update(ctx, tx.DB(), b); derr != nil {
			return derr
		}
		if derr = tx.Waitlist().Delete(ctx, tx.DB(), e.ID()); derr != nil {
			return derr
		}
		if derr = tx.Waitlist().CompactAfter(ctx, tx.DB(), e.BusinessID(), e.Date(), e.Position()); derr != nil {
			return derr
		}

		notification := Notification{Topic: TopicWaitlistExpired, BookingID: b.ID(), BusinessID: b.BusinessID(), CustomerID: b.CustomerID()}
		if derr = enqueueOutbox(ctx, tx, notification, now); derr != nil {
			return derr
		}
		n = &notification
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}
