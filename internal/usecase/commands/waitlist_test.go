//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"localbiz-bookings/internal/domain/access"
	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/domain/waitlist"
	"localbiz-bookings/internal/pkg/clock"
	"localbiz-bookings/internal/usecase/commands"
	"localbiz-bookings/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type WaitlistCommandsTestSuite struct {
	suite.Suite
	store       *memStore
	dispatcher  *recordingDispatcher
	clk         *clock.MockClock
	waitlists   commands.WaitlistCommands
	bookings    commands.BookingCommands
	maintenance commands.MaintenanceCommands

	businessID uuid.UUID
	owner      access.Actor
	date       booking.AppointmentDate
}

func (s *WaitlistCommandsTestSuite) SetupTest() {
	s.store = newMemStore()
	s.dispatcher = &recordingDispatcher{}
	s.clk = clock.NewMockClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	uow := newMemUoW(s.store)
	s.waitlists = commands.NewWaitlistCommands(uow, s.dispatcher, s.clk)
	s.bookings = commands.NewBookingCommands(uow, s.dispatcher, s.clk)
	s.maintenance = commands.NewMaintenanceCommands(uow, s.dispatcher, s.clk)

	s.businessID = uuid.New()
	ownerID := uuid.New()
	s.owner = access.Actor{ID: ownerID, Role: access.RoleOwner}
	s.store.addBusiness(s.businessID, ownerID)
	s.date = booking.NewAppointmentDate(s.clk.Now().AddDate(0, 0, 1))
}

func TestWaitlistCommandsSuite(t *testing.T) {
	suite.Run(t, new(WaitlistCommandsTestSuite))
}

func (s *WaitlistCommandsTestSuite) addBooking(customerID uuid.UUID, status booking.Status) *booking.Booking {
	b := builder.NewBookingBuilder().
		WithBusinessID(s.businessID).
		WithCustomerID(customerID).
		WithDate(s.date).
		WithStatus(status).
		WithNow(s.clk.Now()).
		BuildDomain()
	s.store.bookings[b.ID()] = b
	return b
}

func (s *WaitlistCommandsTestSuite) customer(b *booking.Booking) access.Actor {
	return access.Actor{ID: b.CustomerID(), Role: access.RoleCustomer}
}

// joinN enqueues n fresh pending bookings and returns them in queue order.
func (s *WaitlistCommandsTestSuite) joinN(n int) []*booking.Booking {
	out := make([]*booking.Booking, n)
	for i := range out {
		b := s.addBooking(uuid.New(), booking.StatusPending)
		_, err := s.waitlists.Join(context.Background(), s.customer(b), b.ID())
		s.Require().NoError(err)
		out[i] = b
	}
	return out
}

func (s *WaitlistCommandsTestSuite) scopePositions() []int {
	entries := s.store.scopeEntries(s.businessID, s.date)
	positions := make([]int, len(entries))
	for i, e := range entries {
		positions[i] = e.Position()
	}
	return positions
}

func (s *WaitlistCommandsTestSuite) TestJoin() {
	s.Run("join assigns the next position and waitlists the booking", func() {
		s.SetupTest()
		b := s.addBooking(uuid.New(), booking.StatusPending)

		result, err := s.waitlists.Join(context.Background(), s.customer(b), b.ID())
		s.Require().NoError(err)
		s.Equal(1, result.Position)
		s.Equal(booking.StatusWaitlisted, s.store.bookings[b.ID()].Status())

		entry := s.store.entries[result.EntryID]
		s.Require().NotNil(entry)
		s.Equal(b.ID(), entry.BookingID())
		s.False(entry.IsNotified())
	})

	s.Run("positions are dense across many joins", func() {
		s.SetupTest()
		s.joinN(5)
		s.Equal([]int{1, 2, 3, 4, 5}, s.scopePositions())
	})

	s.Run("joining twice conflicts", func() {
		s.SetupTest()
		b := s.addBooking(uuid.New(), booking.StatusPending)
		_, err := s.waitlists.Join(context.Background(), s.customer(b), b.ID())
		s.Require().NoError(err)

		_, err = s.waitlists.Join(context.Background(), s.customer(b), b.ID())
		s.ErrorIs(err, commands.ErrAlreadyWaitlisted)
	})

	s.Run("a stranger cannot enqueue someone else's booking", func() {
		s.SetupTest()
		b := s.addBooking(uuid.New(), booking.StatusPending)
		stranger := access.Actor{ID: uuid.New(), Role: access.RoleCustomer}

		_, err := s.waitlists.Join(context.Background(), stranger, b.ID())
		s.ErrorIs(err, commands.ErrForbidden)
		s.Empty(s.store.entries, "denied join must write nothing")
		s.Equal(booking.StatusPending, s.store.bookings[b.ID()].Status())
	})

	s.Run("terminal booking cannot join", func() {
		s.SetupTest()
		b := s.addBooking(uuid.New(), booking.StatusCancelled)
		_, err := s.waitlists.Join(context.Background(), s.owner, b.ID())
		s.ErrorIs(err, commands.ErrInvalidTransition)
	})

	s.Run("unknown booking", func() {
		s.SetupTest()
		_, err := s.waitlists.Join(context.Background(), s.owner, uuid.New())
		s.ErrorIs(err, commands.ErrBookingNotFound)
	})
}

func (s *WaitlistCommandsTestSuite) TestNotify() {
	s.Run("notify opens the hold window without touching the booking", func() {
		s.SetupTest()
		bookings := s.joinN(2)
		entries := s.store.scopeEntries(s.businessID, s.date)

		err := s.waitlists.Notify(context.Background(), s.owner, entries[0].ID())
		s.Require().NoError(err)

		e := s.store.entries[entries[0].ID()]
		s.Require().True(e.IsNotified())
		s.Equal(s.clk.Now().Add(waitlist.HoldDuration), *e.ExpiresAt())
		s.Equal(booking.StatusWaitlisted, s.store.bookings[bookings[0].ID()].Status())
		s.Equal(1, e.Position(), "notification does not consume the position")
	})

	s.Run("customers cannot notify", func() {
		s.SetupTest()
		bookings := s.joinN(1)
		entries := s.store.scopeEntries(s.businessID, s.date)

		err := s.waitlists.Notify(context.Background(), s.customer(bookings[0]), entries[0].ID())
		s.ErrorIs(err, commands.ErrForbidden)
	})

	s.Run("staff with the booking capability can notify", func() {
		s.SetupTest()
		s.joinN(1)
		entries := s.store.scopeEntries(s.businessID, s.date)

		staffID := uuid.New()
		s.store.addGrant(s.businessID, staffID, true)
		staff := access.Actor{ID: staffID, Role: access.RoleStaff}

		s.NoError(s.waitlists.Notify(context.Background(), staff, entries[0].ID()))
	})

	s.Run("unknown entry", func() {
		s.SetupTest()
		err := s.waitlists.Notify(context.Background(), s.owner, uuid.New())
		s.ErrorIs(err, commands.ErrEntryNotFound)
	})
}

func (s *WaitlistCommandsTestSuite) TestConfirm() {
	s.Run("confirm promotes the booking and compacts the queue", func() {
		s.SetupTest()
		bookings := s.joinN(3)
		entries := s.store.scopeEntries(s.businessID, s.date)

		s.Require().NoError(s.waitlists.Notify(context.Background(), s.owner, entries[0].ID()))
		s.Require().NoError(s.waitlists.Confirm(context.Background(), s.owner, entries[0].ID()))

		s.Equal(booking.StatusConfirmed, s.store.bookings[bookings[0].ID()].Status())
		s.NotContains(s.store.entries, entries[0].ID())
		s.Equal([]int{1, 2}, s.scopePositions(), "everyone behind moves up")
	})

	s.Run("confirm works without a prior notification", func() {
		s.SetupTest()
		bookings := s.joinN(1)
		entries := s.store.scopeEntries(s.businessID, s.date)

		s.Require().NoError(s.waitlists.Confirm(context.Background(), s.owner, entries[0].ID()))
		s.Equal(booking.StatusConfirmed, s.store.bookings[bookings[0].ID()].Status())
	})

	s.Run("confirm after the hold lapsed still succeeds until the sweeper runs", func() {
		s.SetupTest()
		bookings := s.joinN(1)
		entries := s.store.scopeEntries(s.businessID, s.date)
		s.Require().NoError(s.waitlists.Notify(context.Background(), s.owner, entries[0].ID()))

		s.clk.Advance(waitlist.HoldDuration + time.Hour)

		s.Require().NoError(s.waitlists.Confirm(context.Background(), s.owner, entries[0].ID()))
		s.Equal(booking.StatusConfirmed, s.store.bookings[bookings[0].ID()].Status())
	})

	s.Run("customers cannot confirm their own entry", func() {
		s.SetupTest()
		bookings := s.joinN(1)
		entries := s.store.scopeEntries(s.businessID, s.date)

		err := s.waitlists.Confirm(context.Background(), s.customer(bookings[0]), entries[0].ID())
		s.ErrorIs(err, commands.ErrForbidden)
		s.Contains(s.store.entries, entries[0].ID())
	})
}

func (s *WaitlistCommandsTestSuite) TestRemove() {
	s.Run("removing the middle entry cancels its booking and closes the gap", func() {
		s.SetupTest()
		bookings := s.joinN(4)
		entries := s.store.scopeEntries(s.businessID, s.date)

		s.Require().NoError(s.waitlists.Remove(context.Background(), s.owner, entries[1].ID()))

		s.Equal(booking.StatusCancelled, s.store.bookings[bookings[1].ID()].Status())
		s.Equal([]int{1, 2, 3}, s.scopePositions())

		// order of the survivors is preserved
		remaining := s.store.scopeEntries(s.businessID, s.date)
		s.Equal(bookings[0].ID(), remaining[0].BookingID())
		s.Equal(bookings[2].ID(), remaining[1].BookingID())
		s.Equal(bookings[3].ID(), remaining[2].BookingID())
	})

	s.Run("the customer can leave the queue", func() {
		s.SetupTest()
		bookings := s.joinN(2)
		entries := s.store.scopeEntries(s.businessID, s.date)

		s.Require().NoError(s.waitlists.Remove(context.Background(), s.customer(bookings[0]), entries[0].ID()))
		s.Equal(booking.StatusCancelled, s.store.bookings[bookings[0].ID()].Status())
		s.Equal([]int{1}, s.scopePositions())
	})

	s.Run("a stranger cannot remove", func() {
		s.SetupTest()
		s.joinN(1)
		entries := s.store.scopeEntries(s.businessID, s.date)

		stranger := access.Actor{ID: uuid.New(), Role: access.RoleCustomer}
		err := s.waitlists.Remove(context.Background(), stranger, entries[0].ID())
		s.ErrorIs(err, commands.ErrForbidden)
		s.Contains(s.store.entries, entries[0].ID())
	})
}

func (s *WaitlistCommandsTestSuite) TestExpireHolds() {
	s.Run("expired holds are reaped, the rest stay", func() {
		s.SetupTest()
		bookings := s.joinN(3)
		entries := s.store.scopeEntries(s.businessID, s.date)

		// notify the head only
		s.Require().NoError(s.waitlists.Notify(context.Background(), s.owner, entries[0].ID()))
		s.clk.Advance(waitlist.HoldDuration + time.Minute)

		reaped, err := s.maintenance.ExpireHolds(context.Background())
		s.Require().NoError(err)
		s.Equal(1, reaped)

		s.Equal(booking.StatusCancelled, s.store.bookings[bookings[0].ID()].Status())
		s.NotContains(s.store.entries, entries[0].ID())
		s.Equal([]int{1, 2}, s.scopePositions(), "compaction follows the reap")
		s.Equal(booking.StatusWaitlisted, s.store.bookings[bookings[1].ID()].Status())
	})

	s.Run("nothing to reap", func() {
		s.SetupTest()
		s.joinN(2)

		reaped, err := s.maintenance.ExpireHolds(context.Background())
		s.Require().NoError(err)
		s.Zero(reaped)
		s.Len(s.store.entries, 2)
	})

	s.Run("re-notified entries survive the sweep", func() {
		s.SetupTest()
		s.joinN(1)
		entries := s.store.scopeEntries(s.businessID, s.date)

		s.Require().NoError(s.waitlists.Notify(context.Background(), s.owner, entries[0].ID()))
		s.clk.Advance(waitlist.HoldDuration - time.Minute)
		s.Require().NoError(s.waitlists.Notify(context.Background(), s.owner, entries[0].ID()))
		s.clk.Advance(time.Hour)

		reaped, err := s.maintenance.ExpireHolds(context.Background())
		s.Require().NoError(err)
		s.Zero(reaped)
		s.Contains(s.store.entries, entries[0].ID())
	})
}

func (s *WaitlistCommandsTestSuite) TestOutbox() {
	s.Run("each command leaves a notification job", func() {
		s.SetupTest()
		b := s.addBooking(uuid.New(), booking.StatusPending)

		_, err := s.waitlists.Join(context.Background(), s.customer(b), b.ID())
		s.Require().NoError(err)
		entries := s.store.scopeEntries(s.businessID, s.date)
		s.Require().NoError(s.waitlists.Notify(context.Background(), s.owner, entries[0].ID()))
		s.Require().NoError(s.waitlists.Confirm(context.Background(), s.owner, entries[0].ID()))

		s.Require().Len(s.store.outbox, 3)
		s.Equal(commands.TopicWaitlistJoined, s.store.outbox[0].topic)
		s.Equal(commands.TopicWaitlistNotified, s.store.outbox[1].topic)
		s.Equal(commands.TopicBookingConfirmed, s.store.outbox[2].topic)
		for _, job := range s.store.outbox {
			s.Equal("notification", job.kind)
			s.NotEmpty(job.payload)
		}
	})
}
