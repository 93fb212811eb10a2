package notify

import (
	"context"
	"log/slog"

	"localbiz-bookings/internal/usecase/commands"
)

// LoggingDispatcher is the fallback when no broker is configured: the
// notification is recorded in the log and nowhere else.
type LoggingDispatcher struct{}

func NewLoggingDispatcher() *LoggingDispatcher {
	return &LoggingDispatcher{}
}

func (d *LoggingDispatcher) Dispatch(_ context.Context, n commands.Notification) error {
	slog.Info("notification",
		"topic", n.Topic,
		"booking_id", n.BookingID.String(),
		"business_id", n.BusinessID.String(),
		"customer_id", n.CustomerID.String())
	return nil
}
