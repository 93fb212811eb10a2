//go:build unit || e2e

package builder

import (
	"time"

	"localbiz-bookings/internal/domain/booking"

	"github.com/google/uuid"
)

// BookingBuilder assembles domain bookings for tests. Defaults produce a
// valid pending booking for tomorrow.
type BookingBuilder struct {
	id            uuid.UUID
	businessID    uuid.UUID
	customerID    uuid.UUID
	serviceType   string
	date          booking.AppointmentDate
	at            booking.AppointmentTime
	durationMin   int
	status        booking.Status
	priceCents    *int64
	customerNotes string
	now           time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	at, _ := booking.NewAppointmentTime(14, 30)
	price := int64(4500)
	return &BookingBuilder{
		id:          uuid.New(),
		businessID:  uuid.New(),
		customerID:  uuid.New(),
		serviceType: "haircut",
		date:        booking.NewAppointmentDate(now.AddDate(0, 0, 1)),
		at:          at,
		durationMin: 45,
		status:      booking.StatusPending,
		priceCents:  &price,
		now:         now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder         { b.id = id; return b }
func (b *BookingBuilder) WithBusinessID(id uuid.UUID) *BookingBuilder { b.businessID = id; return b }
func (b *BookingBuilder) WithCustomerID(id uuid.UUID) *BookingBuilder { b.customerID = id; return b }
func (b *BookingBuilder) WithServiceType(s string) *BookingBuilder    { b.serviceType = s; return b }
func (b *BookingBuilder) WithStatus(s booking.Status) *BookingBuilder { b.status = s; return b }
func (b *BookingBuilder) WithDate(d booking.AppointmentDate) *BookingBuilder {
	b.date = d
	return b
}
func (b *BookingBuilder) WithNow(t time.Time) *BookingBuilder { b.now = t; return b }

func (b *BookingBuilder) BuildDomain() *booking.Booking {
	duration, _ := booking.NewDuration(b.durationMin)

	var price *booking.Money
	if b.priceCents != nil {
		m, _ := booking.NewMoney(*b.priceCents)
		price = &m
	}

	return booking.ReconstructBooking(
		b.id, b.businessID, b.customerID,
		b.serviceType,
		b.date,
		b.at,
		duration,
		b.status,
		price,
		booking.PaymentUnpaid,
		booking.NewNotes(b.customerNotes),
		booking.Notes{},
		"",
		b.now,
		b.now,
	)
}
