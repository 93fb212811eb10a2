package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	id              uuid.UUID
	businessID      uuid.UUID
	customerID      uuid.UUID
	serviceType     string
	appointmentDate AppointmentDate
	appointmentTime AppointmentTime
	duration        Duration
	status          Status
	price           *Money
	paymentStatus   PaymentStatus
	customerNotes   Notes
	ownerNotes      Notes
	rejectionReason string
	createdAt       time.Time
	updatedAt       time.Time
}

func NewBooking(
	businessID, customerID uuid.UUID,
	serviceType string,
	date AppointmentDate,
	at AppointmentTime,
	duration Duration,
	price *Money,
	customerNotes Notes,
	now time.Time,
) *Booking {
	return &Booking{
		id:              uuid.New(),
		businessID:      businessID,
		customerID:      customerID,
		serviceType:     serviceType,
		appointmentDate: date,
		appointmentTime: at,
		duration:        duration,
		status:          StatusPending,
		price:           price,
		paymentStatus:   PaymentUnpaid,
		customerNotes:   customerNotes,
		createdAt:       now,
		updatedAt:       now,
	}
}

func ReconstructBooking(
	id, businessID, customerID uuid.UUID,
	serviceType string,
	date AppointmentDate,
	at AppointmentTime,
	duration Duration,
	status Status,
	price *Money,
	paymentStatus PaymentStatus,
	customerNotes, ownerNotes Notes,
	rejectionReason string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		businessID:      businessID,
		customerID:      customerID,
		serviceType:     serviceType,
		appointmentDate: date,
		appointmentTime: at,
		duration:        duration,
		status:          status,
		price:           price,
		paymentStatus:   paymentStatus,
		customerNotes:   customerNotes,
		ownerNotes:      ownerNotes,
		rejectionReason: rejectionReason,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// apply moves the booking along one edge of the transition graph.
func (b *Booking) apply(action Action, now time.Time) error {
	next, err := Transition(b.status, action)
	if err != nil {
		return err
	}
	b.status = next
	b.updatedAt = now
	return nil
}

func (b *Booking) Confirm(ownerNotes Notes, now time.Time) error {
	if err := b.apply(ActionConfirm, now); err != nil {
		return err
	}
	if !ownerNotes.IsEmpty() {
		b.ownerNotes = ownerNotes
	}
	return nil
}

func (b *Booking) Reject(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyReason
	}
	if err := b.apply(ActionReject, now); err != nil {
		return err
	}
	b.rejectionReason = reason
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	return b.apply(ActionCancel, now)
}

func (b *Booking) Complete(ownerNotes Notes, now time.Time) error {
	if err := b.apply(ActionComplete, now); err != nil {
		return err
	}
	if !ownerNotes.IsEmpty() {
		b.ownerNotes = ownerNotes
	}
	return nil
}

func (b *Booking) MoveToWaitlist(now time.Time) error {
	return b.apply(ActionWaitlist, now)
}

func (b *Booking) IsWaitlisted() bool {
	return b.status == StatusWaitlisted
}

func (b *Booking) ID() uuid.UUID                    { return b.id }
func (b *Booking) BusinessID() uuid.UUID            { return b.businessID }
func (b *Booking) CustomerID() uuid.UUID            { return b.customerID }
func (b *Booking) ServiceType() string              { return b.serviceType }
func (b *Booking) AppointmentDate() AppointmentDate { return b.appointmentDate }
func (b *Booking) AppointmentTime() AppointmentTime { return b.appointmentTime }
func (b *Booking) Duration() Duration               { return b.duration }
func (b *Booking) Status() Status                   { return b.status }
func (b *Booking) Price() *Money                    { return b.price }
func (b *Booking) PaymentStatus() PaymentStatus     { return b.paymentStatus }
func (b *Booking) CustomerNotes() Notes             { return b.customerNotes }
func (b *Booking) OwnerNotes() Notes                { return b.ownerNotes }
func (b *Booking) RejectionReason() string          { return b.rejectionReason }
func (b *Booking) CreatedAt() time.Time             { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time             { return b.updatedAt }
