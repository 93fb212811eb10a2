package readstore

import (
	"context"
	"time"

	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/pkg/pgconv"
	"localbiz-bookings/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type WaitlistReadStore struct {
	dbtx db.DBTX
}

func NewWaitlistReadStore(dbtx db.DBTX) *WaitlistReadStore {
	return &WaitlistReadStore{dbtx: dbtx}
}

const entryViewQuery = `
	SELECT e.id, e.booking_id, e.position,
	       b.customer_id, u.name, u.email,
	       b.service_type, e.appointment_date, b.appointment_time,
	       e.notified_at, e.expires_at, e.created_at
	FROM waitlist_entries e
	JOIN bookings b ON b.id = e.booking_id
	JOIN users u ON u.id = b.customer_id`

func (s *WaitlistReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.WaitlistEntryView, error) {
	row := s.dbtx.QueryRow(ctx,
		entryViewQuery+`
		 WHERE e.id = $1`,
		pgconv.UUIDToPgtype(id))

	view, err := scanEntryView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("waitlist entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find waitlist entry", err)
	}
	return view, nil
}

// ListByBusiness returns the queue ordered by date then position, so each
// (business, date) scope reads as a dense 1..n run.
func (s *WaitlistReadStore) ListByBusiness(ctx context.Context, businessID uuid.UUID, date *time.Time) ([]*queries.WaitlistEntryView, error) {
	var pgDate pgtype.Date
	if date != nil {
		pgDate = pgconv.DateToPgtype(*date)
	}

	rows, err := s.dbtx.Query(ctx,
		entryViewQuery+`
		 WHERE e.business_id = $1
		   AND ($2::date IS NULL OR e.appointment_date = $2)
		 ORDER BY e.appointment_date, e.position`,
		pgconv.UUIDToPgtype(businessID),
		pgDate)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list waitlist entries", err)
	}
	defer rows.Close()

	views := make([]*queries.WaitlistEntryView, 0)
	for rows.Next() {
		view, serr := scanEntryView(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan waitlist row", serr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list waitlist entries", err)
	}
	return views, nil
}

func scanEntryView(row pgx.Row) (*queries.WaitlistEntryView, error) {
	var (
		id, bookingID, customerID    pgtype.UUID
		position                     int32
		customerName, customerEmail  string
		serviceType, appointmentTime string
		appointmentDate              pgtype.Date
		notifiedAt, expiresAt        pgtype.Timestamptz
		createdAt                    pgtype.Timestamptz
	)

	if err := row.Scan(
		&id, &bookingID, &position,
		&customerID, &customerName, &customerEmail,
		&serviceType, &appointmentDate, &appointmentTime,
		&notifiedAt, &expiresAt, &createdAt,
	); err != nil {
		return nil, err
	}

	return &queries.WaitlistEntryView{
		ID:              uuid.UUID(id.Bytes),
		BookingID:       uuid.UUID(bookingID.Bytes),
		Position:        position,
		CustomerID:      uuid.UUID(customerID.Bytes),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		ServiceType:     serviceType,
		AppointmentDate: pgconv.DateFromPgtype(appointmentDate),
		AppointmentTime: appointmentTime,
		NotifiedAt:      pgconv.TimePtrFromPgtype(notifiedAt),
		ExpiresAt:       pgconv.TimePtrFromPgtype(expiresAt),
		CreatedAt:       pgconv.TimeFromPgtype(createdAt),
	}, nil
}
