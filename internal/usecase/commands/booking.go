package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"localbiz-bookings/internal/domain/access"
	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/pkg/clock"
	"localbiz-bookings/internal/pkg/errs"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrBusinessNotFound        = errs.New("business not found")
	ErrEntryNotFound           = errs.New("waitlist entry not found")
	ErrAlreadyWaitlisted       = errs.New("booking already waitlisted")
	ErrInvalidTransition       = errs.New("invalid status transition")
	ErrForbidden               = errs.New("operation not permitted")
	ErrValidation              = errs.New("invalid request")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type UpdateStatusRequest struct {
	Action     booking.Action
	OwnerNotes string
	Reason     string
}

type UpdateStatusResult struct {
	BookingID uuid.UUID
	Status    booking.Status
}

type BookingCommands interface {
	UpdateStatus(ctx context.Context, actor access.Actor, bookingID uuid.UUID, req UpdateStatusRequest) (*UpdateStatusResult, error)
}

type bookingCommandsImpl struct {
	uow        shared.UnitOfWork
	dispatcher NotificationDispatcher
	clock      clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, dispatcher NotificationDispatcher, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{uow: uow, dispatcher: dispatcher, clock: clk}
}

var accessActionFor = map[booking.Action]access.Action{
	booking.ActionConfirm:  access.ActionConfirmBooking,
	booking.ActionReject:   access.ActionRejectBooking,
	booking.ActionCancel:   access.ActionCancelBooking,
	booking.ActionComplete: access.ActionCompleteBooking,
}

var topicFor = map[booking.Action]string{
	booking.ActionConfirm:  TopicBookingConfirmed,
	booking.ActionReject:   TopicBookingRejected,
	booking.ActionCancel:   TopicBookingCancelled,
	booking.ActionComplete: TopicBookingCompleted,
}

// UpdateStatus drives the lifecycle graph for direct transitions. A cancel
// or confirm that lands on a WAITLISTED booking is routed through the
// waitlist queue so the entry removal and position compaction stay in the
// same atomic unit.
func (uc *bookingCommandsImpl) UpdateStatus(ctx context.Context, actor access.Actor, bookingID uuid.UUID, req UpdateStatusRequest) (*UpdateStatusResult, error) {
	accessAction, ok := accessActionFor[req.Action]
	if !ok {
		// waitlisting is system-initiated through the join operation
		return nil, ErrValidation
	}

	snap, err := uc.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if snap.Status == booking.StatusWaitlisted.String() {
		switch req.Action {
		case booking.ActionCancel:
			return uc.resolveThroughQueue(ctx, actor, snap, access.ActionRemoveWaitlist, queueResolutionCancel)
		case booking.ActionConfirm:
			return uc.resolveThroughQueue(ctx, actor, snap, access.ActionConfirmWaitlist, queueResolutionConfirm)
		}
	}

	var result *UpdateStatusResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Bookings().GetForUpdate(ctx, tx.DB(), bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		customerID := b.CustomerID()
		if derr = authorize(ctx, tx.Reads(), actor, accessAction, b.BusinessID(), &customerID); derr != nil {
			return derr
		}

		if derr = applyAction(b, req, uc.clock.Now()); derr != nil {
			return derr
		}

		if derr = tx.Bookings().Update(ctx, tx.DB(), b); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		n := Notification{Topic: topicFor[req.Action], BookingID: b.ID(), BusinessID: b.BusinessID(), CustomerID: b.CustomerID()}
		if derr = enqueueOutbox(ctx, tx, n, uc.clock.Now()); derr != nil {
			return derr
		}

		result = &UpdateStatusResult{BookingID: b.ID(), Status: b.Status()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatchAsync(Notification{Topic: topicFor[req.Action], BookingID: result.BookingID, BusinessID: snap.BusinessID, CustomerID: snap.CustomerID})
	return result, nil
}

type queueResolution int

const (
	queueResolutionCancel queueResolution = iota
	queueResolutionConfirm
)

// resolveThroughQueue handles confirm/cancel of a WAITLISTED booking by
// locating its entry and running the full queue removal (delete + compact)
// inside the scope transaction.
func (uc *bookingCommandsImpl) resolveThroughQueue(ctx context.Context, actor access.Actor, snap *shared.BookingSnapshot, accessAction access.Action, mode queueResolution) (*UpdateStatusResult, error) {
	date := booking.NewAppointmentDate(snap.AppointmentDate)
	topic := TopicBookingCancelled
	if mode == queueResolutionConfirm {
		topic = TopicBookingConfirmed
	}

	var result *UpdateStatusResult
	err := uc.uow.WithinScope(ctx, snap.BusinessID, date, func(ctx context.Context, tx shared.Tx) error {
		e, derr := tx.Waitlist().FindByBookingID(ctx, tx.DB(), snap.ID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				// the entry resolved between snapshot and lock; report
				// conflict to the caller, as a direct transition would
				return ErrInvalidTransition
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		b, derr := dequeueEntry(ctx, tx, actor, e.ID(), accessAction, mode == queueResolutionConfirm, uc.clock.Now())
		if derr != nil {
			return derr
		}
		if derr = enqueueOutbox(ctx, tx, Notification{Topic: topic, BookingID: b.ID(), BusinessID: b.BusinessID(), CustomerID: b.CustomerID()}, uc.clock.Now()); derr != nil {
			return derr
		}
		result = &UpdateStatusResult{BookingID: b.ID(), Status: b.Status()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatchAsync(Notification{Topic: topic, BookingID: result.BookingID, BusinessID: snap.BusinessID, CustomerID: snap.CustomerID})
	return result, nil
}

func applyAction(b *booking.Booking, req UpdateStatusRequest, now time.Time) error {
	var err error
	switch req.Action {
	case booking.ActionConfirm:
		err = b.Confirm(booking.NewNotes(req.OwnerNotes), now)
	case booking.ActionReject:
		err = b.Reject(req.Reason, now)
	case booking.ActionCancel:
		err = b.Cancel(now)
	case booking.ActionComplete:
		err = b.Complete(booking.NewNotes(req.OwnerNotes), now)
	default:
		return ErrValidation
	}
	if err != nil {
		if errors.Is(err, booking.ErrInvalidTransition) {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return errs.Mark(err, ErrValidation)
	}
	return nil
}

// authorize resolves the business and the actor's grant, then consults the
// gate. It performs no writes; a denial leaves persisted state untouched.
func authorize(ctx context.Context, reads shared.CommandReads, actor access.Actor, action access.Action, businessID uuid.UUID, customerID *uuid.UUID) error {
	biz, err := reads.BusinessByID(ctx, businessID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBusinessNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	grant, err := reads.StaffGrantFor(ctx, businessID, actor.ID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var accessGrant *access.StaffGrant
	if grant != nil {
		accessGrant = &access.StaffGrant{CanManageBookings: grant.CanManageBookings}
	}

	if err := access.Decide(actor, action, access.Target{BusinessOwnerID: biz.OwnerID, BookingCustomerID: customerID}, accessGrant); err != nil {
		return errs.Mark(err, ErrForbidden)
	}
	return nil
}

func enqueueOutbox(ctx context.Context, tx shared.Tx, n Notification, now time.Time) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Outbox().CreateJob(ctx, tx.DB(), "notification", n.Topic, payload, now); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *bookingCommandsImpl) dispatchAsync(n Notification) {
	dispatchAsync(uc.dispatcher, n)
}

func dispatchAsync(d NotificationDispatcher, n Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.Dispatch(ctx, n); err != nil {
			slog.Warn("notification dispatch failed",
				"topic", n.Topic,
				"booking_id", n.BookingID.String(),
				"error", err.Error())
		}
	}()
}
