package queries

import (
	"time"

	"localbiz-bookings/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound  = errs.New("booking not found")
	ErrBusinessNotFound = errs.New("business not found")
	ErrEntryNotFound    = errs.New("waitlist entry not found")
	ErrAccessDenied     = errs.New("access denied")
)

type BookingView struct {
	ID              uuid.UUID `json:"id"`
	BusinessID      uuid.UUID `json:"business_id"`
	BusinessName    string    `json:"business_name"`
	CustomerID      uuid.UUID `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	ServiceType     string    `json:"service_type"`
	AppointmentDate time.Time `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	DurationMin     int32     `json:"duration_min"`
	Status          string    `json:"status"`
	PriceCents      *int64    `json:"price_cents"`
	PaymentStatus   string    `json:"payment_status"`
	CustomerNotes   *string   `json:"customer_notes"`
	OwnerNotes      *string   `json:"owner_notes"`
	RejectionReason *string   `json:"rejection_reason"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID              uuid.UUID `json:"id"`
	CustomerName    string    `json:"customer_name"`
	ServiceType     string    `json:"service_type"`
	AppointmentDate time.Time `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// WaitlistEntryView is one queue slot joined with its booking and customer
// summary, ordered by position within the (business, date) scope.
type WaitlistEntryView struct {
	ID              uuid.UUID  `json:"id"`
	BookingID       uuid.UUID  `json:"booking_id"`
	Position        int32      `json:"position"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	ServiceType     string     `json:"service_type"`
	AppointmentDate time.Time  `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	NotifiedAt      *time.Time `json:"notified_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

type BookingFilters struct {
	Date   *time.Time
	Status *string
}
