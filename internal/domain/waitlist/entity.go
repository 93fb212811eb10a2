package waitlist

import (
	"errors"
	"time"

	"localbiz-bookings/internal/domain/booking"

	"github.com/google/uuid"
)

// HoldDuration is how long a notified customer keeps their place before the
// hold is considered expired.
const HoldDuration = 2 * time.Hour

var (
	ErrInvalidPosition = errors.New("waitlist position must be positive")
	ErrAlreadyNotified = errors.New("waitlist entry already notified")
)

// Entry is one position-ordered hold in the queue for a (business, date)
// scope. It is lifecycle-bound to exactly one WAITLISTED booking.
type Entry struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	businessID uuid.UUID
	date       booking.AppointmentDate
	position   int
	notifiedAt *time.Time
	expiresAt  *time.Time
	createdAt  time.Time
}

func NewEntry(bookingID, businessID uuid.UUID, date booking.AppointmentDate, position int, now time.Time) (*Entry, error) {
	if position < 1 {
		return nil, ErrInvalidPosition
	}
	return &Entry{
		id:         uuid.New(),
		bookingID:  bookingID,
		businessID: businessID,
		date:       date,
		position:   position,
		createdAt:  now,
	}, nil
}

func ReconstructEntry(
	id, bookingID, businessID uuid.UUID,
	date booking.AppointmentDate,
	position int,
	notifiedAt, expiresAt *time.Time,
	createdAt time.Time,
) *Entry {
	return &Entry{
		id:         id,
		bookingID:  bookingID,
		businessID: businessID,
		date:       date,
		position:   position,
		notifiedAt: notifiedAt,
		expiresAt:  expiresAt,
		createdAt:  createdAt,
	}
}

// MarkNotified opens the hold window. Re-notifying restarts the window.
func (e *Entry) MarkNotified(now time.Time) {
	notified := now
	expires := now.Add(HoldDuration)
	e.notifiedAt = &notified
	e.expiresAt = &expires
}

func (e *Entry) IsNotified() bool {
	return e.notifiedAt != nil
}

// HoldExpired reports whether a notified hold has run out. Entries that
// were never notified have no hold and never expire.
func (e *Entry) HoldExpired(now time.Time) bool {
	return e.expiresAt != nil && now.After(*e.expiresAt)
}

func (e *Entry) ID() uuid.UUID                 { return e.id }
func (e *Entry) BookingID() uuid.UUID          { return e.bookingID }
func (e *Entry) BusinessID() uuid.UUID         { return e.businessID }
func (e *Entry) Date() booking.AppointmentDate { return e.date }
func (e *Entry) Position() int                 { return e.position }
func (e *Entry) NotifiedAt() *time.Time        { return e.notifiedAt }
func (e *Entry) ExpiresAt() *time.Time         { return e.expiresAt }
func (e *Entry) CreatedAt() time.Time          { return e.createdAt }
