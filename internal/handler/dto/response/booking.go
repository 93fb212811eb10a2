package response

import (
	"time"

	"localbiz-bookings/internal/usecase/commands"
	"localbiz-bookings/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	BusinessID      uuid.UUID `json:"business_id"`
	BusinessName    string    `json:"business_name"`
	CustomerID      uuid.UUID `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	ServiceType     string    `json:"service_type"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	DurationMin     int32     `json:"duration_min"`
	Status          string    `json:"status"`
	PriceCents      *int64    `json:"price_cents,omitempty"`
	PaymentStatus   string    `json:"payment_status"`
	CustomerNotes   *string   `json:"customer_notes,omitempty"`
	OwnerNotes      *string   `json:"owner_notes,omitempty"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:              v.ID,
		BusinessID:      v.BusinessID,
		BusinessName:    v.BusinessName,
		CustomerID:      v.CustomerID,
		CustomerName:    v.CustomerName,
		CustomerEmail:   v.CustomerEmail,
		ServiceType:     v.ServiceType,
		AppointmentDate: v.AppointmentDate.Format("2006-01-02"),
		AppointmentTime: v.AppointmentTime,
		DurationMin:     v.DurationMin,
		Status:          v.Status,
		PriceCents:      v.PriceCents,
		PaymentStatus:   v.PaymentStatus,
		CustomerNotes:   v.CustomerNotes,
		OwnerNotes:      v.OwnerNotes,
		RejectionReason: v.RejectionReason,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

type BookingListResponse struct {
	ID              uuid.UUID `json:"id"`
	CustomerName    string    `json:"customer_name"`
	ServiceType     string    `json:"service_type"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:              item.ID,
		CustomerName:    item.CustomerName,
		ServiceType:     item.ServiceType,
		AppointmentDate: item.AppointmentDate.Format("2006-01-02"),
		AppointmentTime: item.AppointmentTime,
		Status:          item.Status,
		CreatedAt:       item.CreatedAt,
	}
}

type BookingStatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func FromUpdateStatusResult(r *commands.UpdateStatusResult) *BookingStatusResponse {
	return &BookingStatusResponse{
		ID:     r.BookingID,
		Status: r.Status.String(),
	}
}
