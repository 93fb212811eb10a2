package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep the command layer off the read-model types.

type BookingSnapshot struct {
	ID              uuid.UUID
	BusinessID      uuid.UUID
	CustomerID      uuid.UUID
	Status          string
	AppointmentDate time.Time
}

type WaitlistEntrySnapshot struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	BusinessID      uuid.UUID
	AppointmentDate time.Time
	Position        int
	NotifiedAt      *time.Time
	ExpiresAt       *time.Time
}

type BusinessSnapshot struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
}

type StaffGrantSnapshot struct {
	CanManageBookings bool
}
