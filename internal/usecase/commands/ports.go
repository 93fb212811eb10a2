package commands

import (
	"context"

	"github.com/google/uuid"
)

// Notification topics double as AMQP routing keys.
const (
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingRejected  = "booking.rejected"
	TopicBookingCancelled = "booking.cancelled"
	TopicBookingCompleted = "booking.completed"
	TopicWaitlistJoined   = "waitlist.joined"
	TopicWaitlistNotified = "waitlist.notified"
	TopicWaitlistExpired  = "waitlist.hold_expired"
)

type Notification struct {
	Topic      string    `json:"topic"`
	BookingID  uuid.UUID `json:"booking_id"`
	BusinessID uuid.UUID `json:"business_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NotificationDispatcher is fire-and-forget: it is signalled only after the
// state transition has committed, and a dispatch failure is logged, never
// propagated back into the transaction's outcome.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}
