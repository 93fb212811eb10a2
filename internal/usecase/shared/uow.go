package shared

import (
	"context"
	"time"

	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/domain/waitlist"
	"localbiz-bookings/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinScope: like Within, but additionally serializes against every
	// other writer of the same (business, date) waitlist scope. Required
	// around any read-positions-then-write sequence.
	WithinScope(ctx context.Context, businessID uuid.UUID, date booking.AppointmentDate, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: direct access to command-side reads outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Waitlist() WaitlistRepository
	Outbox() OutboxRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	WaitlistEntryByID(ctx context.Context, id uuid.UUID) (*WaitlistEntrySnapshot, error)
	BusinessByID(ctx context.Context, id uuid.UUID) (*BusinessSnapshot, error)
	// StaffGrantFor returns (nil, nil) when no grant exists; absence of a
	// grant is an ordinary outcome, not an error.
	StaffGrantFor(ctx context.Context, businessID, userID uuid.UUID) (*StaffGrantSnapshot, error)
}

type BookingRepository interface {
	// GetForUpdate row-locks the booking for the duration of the transaction.
	GetForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
}

type WaitlistRepository interface {
	GetForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*waitlist.Entry, error)
	FindByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*waitlist.Entry, error)
	// MaxPosition returns 0 when the scope holds no live entries.
	MaxPosition(ctx context.Context, dbtx db.DBTX, businessID uuid.UUID, date booking.AppointmentDate) (int, error)
	Create(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	// CompactAfter closes the gap left by a removed entry: every entry in
	// the scope with position > removed moves up by one.
	CompactAfter(ctx context.Context, dbtx db.DBTX, businessID uuid.UUID, date booking.AppointmentDate, removedPosition int) error
	UpdateHold(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error
	ExpiredHolds(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]*waitlist.Entry, error)
}

type OutboxRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}
