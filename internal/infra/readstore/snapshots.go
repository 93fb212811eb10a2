package readstore

import (
	"context"

	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/pkg/pgconv"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// SnapshotReadStore serves the command side's lightweight lookups: enough to
// route a request and feed the permission gate, nothing more.
type SnapshotReadStore struct{}

func NewSnapshotReadStore() *SnapshotReadStore {
	return &SnapshotReadStore{}
}

func (s *SnapshotReadStore) BookingByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		bid, businessID, customerID pgtype.UUID
		status                      string
		appointmentDate             pgtype.Date
	)
	err := dbtx.QueryRow(ctx,
		`SELECT id, business_id, customer_id, status, appointment_date
		 FROM bookings
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(id)).Scan(&bid, &businessID, &customerID, &status, &appointmentDate)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking snapshot", err)
	}

	return &shared.BookingSnapshot{
		ID:              uuid.UUID(bid.Bytes),
		BusinessID:      uuid.UUID(businessID.Bytes),
		CustomerID:      uuid.UUID(customerID.Bytes),
		Status:          status,
		AppointmentDate: pgconv.DateFromPgtype(appointmentDate),
	}, nil
}

func (s *SnapshotReadStore) WaitlistEntryByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.WaitlistEntrySnapshot, error) {
	var (
		eid, bookingID, businessID pgtype.UUID
		appointmentDate            pgtype.Date
		position                   int32
		notifiedAt, expiresAt      pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx,
		`SELECT id, booking_id, business_id, appointment_date, position, notified_at, expires_at
		 FROM waitlist_entries
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(id)).Scan(&eid, &bookingID, &businessID, &appointmentDate, &position, &notifiedAt, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("waitlist entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get waitlist entry snapshot", err)
	}

	return &shared.WaitlistEntrySnapshot{
		ID:              uuid.UUID(eid.Bytes),
		BookingID:       uuid.UUID(bookingID.Bytes),
		BusinessID:      uuid.UUID(businessID.Bytes),
		AppointmentDate: pgconv.DateFromPgtype(appointmentDate),
		Position:        int(position),
		NotifiedAt:      pgconv.TimePtrFromPgtype(notifiedAt),
		ExpiresAt:       pgconv.TimePtrFromPgtype(expiresAt),
	}, nil
}

func (s *SnapshotReadStore) BusinessByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.BusinessSnapshot, error) {
	var (
		bid, ownerID pgtype.UUID
		name         string
	)
	err := dbtx.QueryRow(ctx,
		`SELECT id, owner_id, name
		 FROM businesses
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(id)).Scan(&bid, &ownerID, &name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("business not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get business snapshot", err)
	}

	return &shared.BusinessSnapshot{
		ID:      uuid.UUID(bid.Bytes),
		OwnerID: uuid.UUID(ownerID.Bytes),
		Name:    name,
	}, nil
}

// StaffGrantFor returns (nil, nil) when the user holds no grant at the
// business; callers treat absence as an ordinary outcome.
func (s *SnapshotReadStore) StaffGrantFor(ctx context.Context, dbtx db.DBTX, businessID, userID uuid.UUID) (*shared.StaffGrantSnapshot, error) {
	var canManageBookings bool
	err := dbtx.QueryRow(ctx,
		`SELECT can_manage_bookings
		 FROM staff_grants
		 WHERE business_id = $1 AND user_id = $2`,
		pgconv.UUIDToPgtype(businessID),
		pgconv.UUIDToPgtype(userID)).Scan(&canManageBookings)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to get staff grant", err)
	}
	return &shared.StaffGrantSnapshot{CanManageBookings: canManageBookings}, nil
}
