package response

import (
	"time"

	"localbiz-bookings/internal/usecase/commands"
	"localbiz-bookings/internal/usecase/queries"

	"github.com/google/uuid"
)

type WaitlistEntryResponse struct {
	ID              uuid.UUID  `json:"id"`
	BookingID       uuid.UUID  `json:"booking_id"`
	Position        int32      `json:"position"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	ServiceType     string     `json:"service_type"`
	AppointmentDate string     `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	NotifiedAt      *time.Time `json:"notified_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func FromWaitlistEntryView(v *queries.WaitlistEntryView) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:              v.ID,
		BookingID:       v.BookingID,
		Position:        v.Position,
		CustomerID:      v.CustomerID,
		CustomerName:    v.CustomerName,
		CustomerEmail:   v.CustomerEmail,
		ServiceType:     v.ServiceType,
		AppointmentDate: v.AppointmentDate.Format("2006-01-02"),
		AppointmentTime: v.AppointmentTime,
		NotifiedAt:      v.NotifiedAt,
		ExpiresAt:       v.ExpiresAt,
		CreatedAt:       v.CreatedAt,
	}
}

type JoinWaitlistResponse struct {
	EntryID  uuid.UUID `json:"entry_id"`
	Position int       `json:"position"`
}

func FromJoinResult(r *commands.JoinResult) *JoinWaitlistResponse {
	return &JoinWaitlistResponse{
		EntryID:  r.EntryID,
		Position: r.Position,
	}
}
