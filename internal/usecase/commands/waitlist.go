package commands

import (
	"context"
	"errors"
	"time"

	"localbiz-bookings/internal/domain/access"
	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/domain/waitlist"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/pkg/clock"
	"localbiz-bookings/internal/pkg/errs"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
)

type JoinResult struct {
	EntryID  uuid.UUID
	Position int
}

type WaitlistCommands interface {
	// Join enqueues a booking at the tail of its (business, date) queue and
	// moves the booking to WAITLISTED in the same atomic unit.
	Join(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*JoinResult, error)
	// Notify opens the 2h hold window for an entry. The booking status is
	// untouched.
	Notify(ctx context.Context, actor access.Actor, entryID uuid.UUID) error
	// Confirm promotes the entry's booking to CONFIRMED, deletes the entry
	// and compacts the positions behind it.
	Confirm(ctx context.Context, actor access.Actor, entryID uuid.UUID) error
	// Remove cancels the entry's booking, deletes the entry and compacts.
	Remove(ctx context.Context, actor access.Actor, entryID uuid.UUID) error
}

type waitlistCommandsImpl struct {
	uow        shared.UnitOfWork
	dispatcher NotificationDispatcher
	clock      clock.Clock
}

func NewWaitlistCommands(uow shared.UnitOfWork, dispatcher NotificationDispatcher, clk clock.Clock) WaitlistCommands {
	return &waitlistCommandsImpl{uow: uow, dispatcher: dispatcher, clock: clk}
}

func (uc *waitlistCommandsImpl) Join(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*JoinResult, error) {
	snap, err := uc.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	date := booking.NewAppointmentDate(snap.AppointmentDate)

	var result *JoinResult
	err = uc.uow.WithinScope(ctx, snap.BusinessID, date, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Bookings().GetForUpdate(ctx, tx.DB(), bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		customerID := b.CustomerID()
		if derr = authorize(ctx, tx.Reads(), actor, access.ActionJoinWaitlist, b.BusinessID(), &customerID); derr != nil {
			return derr
		}

		// idempotency guard: one live entry per booking, ever
		if _, derr = tx.Waitlist().FindByBookingID(ctx, tx.DB(), bookingID); derr == nil {
			return ErrAlreadyWaitlisted
		} else if !infra.IsKind(derr, infra.KindNotFound) {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		now := uc.clock.Now()
		if derr = b.MoveToWaitlist(now); derr != nil {
			if errors.Is(derr, booking.ErrInvalidTransition) {
				return errs.Mark(derr, ErrInvalidTransition)
			}
			return errs.Mark(derr, ErrValidation)
		}

		// max-then-insert is safe here: WithinScope serializes all writers
		// of this (business, date) queue
		maxPos, derr := tx.Waitlist().MaxPosition(ctx, tx.DB(), b.BusinessID(), b.AppointmentDate())
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		entry, derr := waitlist.NewEntry(b.ID(), b.BusinessID(), b.AppointmentDate(), maxPos+1, now)
		if derr != nil {
			return errs.Mark(derr, ErrValidation)
		}

		if derr = tx.Waitlist().Create(ctx, tx.DB(), entry); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return ErrAlreadyWaitlisted
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if derr = tx.Bookings().Update(ctx, tx.DB(), b); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		if derr = enqueueOutbox(ctx, tx, Notification{Topic: TopicWaitlistJoined, BookingID: b.ID(), BusinessID: b.BusinessID(), CustomerID: b.CustomerID()}, now); derr != nil {
			return derr
		}

		result = &JoinResult{EntryID: entry.ID(), Position: entry.Position()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatchAsync(uc.dispatcher, Notification{Topic: TopicWaitlistJoined, BookingID: bookingID, BusinessID: snap.BusinessID, CustomerID: snap.CustomerID})
	return result, nil
}

func (uc *waitlistCommandsImpl) Notify(ctx context.Context, actor access.Actor, entryID uuid.UUID) error {
	var n Notification
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, derr := tx.Waitlist().GetForUpdate(ctx, tx.DB(), entryID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrEntryNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		b, derr := tx.Bookings().GetForUpdate(ctx, tx.DB(), e.BookingID())
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		if derr = authorize(ctx, tx.Reads(), actor, access.ActionNotifyWaitlist, b.BusinessID(), nil); derr != nil {
			return derr
		}

		now := uc.clock.Now()
		e.MarkNotified(now)
		if derr = tx.Waitlist().UpdateHold(ctx, tx.DB(), e); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		n = Notification{Topic: TopicWaitlistNotified, BookingID: b.ID(), BusinessID: b.BusinessID(), CustomerID: b.CustomerID()}
		return enqueueOutbox(ctx, tx, n, now)
	})
	if err != nil {
		return err
	}

	dispatchAsync(uc.dispatcher, n)
	return nil
}

func (uc *waitlistCommandsImpl) Confirm(ctx context.Context, actor access.Actor, entryID uuid.UUID) error {
	return uc.resolve(ctx, actor, entryID, access.ActionConfirmWaitlist, true, TopicBookingConfirmed)
}

func (uc *waitlistCommandsImpl) Remove(ctx context.Context, actor access.Actor, entryID uuid.UUID) error {
	return uc.resolve(ctx, actor, entryID, access.ActionRemoveWaitlist, false, TopicBookingCancelled)
}

func (uc *waitlistCommandsImpl) resolve(ctx context.Context, actor access.Actor, entryID uuid.UUID, action access.Action, confirm bool, topic string) error {
	es, err := uc.uow.CommandReads().WaitlistEntryByID(ctx, entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrEntryNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	date := booking.NewAppointmentDate(es.AppointmentDate)

	var n Notification
	err = uc.uow.WithinScope(ctx, es.BusinessID, date, func(ctx context.Context, tx shared.Tx) error {
		b, derr := dequeueEntry(ctx, tx, actor, entryID, action, confirm, uc.clock.Now())
		if derr != nil {
			return derr
		}
		n = Notification{Topic: topic, BookingID: b.ID(), BusinessID: b.BusinessID(), CustomerID: b.CustomerID()}
		return enqueueOutbox(ctx, tx, n, uc.clock.Now())
	})
	if err != nil {
		return err
	}

	dispatchAsync(uc.dispatcher, n)
	return nil
}

// dequeueEntry performs the shared removal choreography under an already
// acquired scope lock: lock entry and booking, authorize, transition the
// booking, delete the entry, close the position gap.
func dequeueEntry(ctx context.Context, tx shared.Tx, actor access.Actor, entryID uuid.UUID, action access.Action, confirm bool, now time.Time) (*booking.Booking, error) {
	e, err := tx.Waitlist().GetForUpdate(ctx, tx.DB(), entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	b, err := tx.Bookings().GetForUpdate(ctx, tx.DB(), e.BookingID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	customerID := b.CustomerID()
	if err = authorize(ctx, tx.Reads(), actor, action, b.BusinessID(), &customerID); err != nil {
		return nil, err
	}

	if confirm {
		err = b.Confirm(booking.Notes{}, now)
	} else {
		err = b.Cancel(now)
	}
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTransition)
	}

	if err = tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err = tx.Waitlist().Delete(ctx, tx.DB(), e.ID()); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err = tx.Waitlist().CompactAfter(ctx, tx.DB(), e.BusinessID(), e.Date(), e.Position()); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return b, nil
}
