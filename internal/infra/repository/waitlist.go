package repository

import (
	"context"
	"time"

	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/domain/waitlist"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/pkg/pgconv"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type WaitlistRepository struct{}

func NewWaitlistRepository() shared.WaitlistRepository {
	return &WaitlistRepository{}
}

const entryColumns = `
	id, booking_id, business_id, appointment_date,
	position, notified_at, expires_at, created_at`

func (r *WaitlistRepository) GetForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*waitlist.Entry, error) {
	row := dbtx.QueryRow(ctx,
		`SELECT`+entryColumns+`
		 FROM waitlist_entries
		 WHERE id = $1
		 FOR UPDATE`,
		pgconv.UUIDToPgtype(id))

	e, err := scanEntry(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("waitlist entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get waitlist entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) FindByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*waitlist.Entry, error) {
	row := dbtx.QueryRow(ctx,
		`SELECT`+entryColumns+`
		 FROM waitlist_entries
		 WHERE booking_id = $1`,
		pgconv.UUIDToPgtype(bookingID))

	e, err := scanEntry(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("waitlist entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find waitlist entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) MaxPosition(ctx context.Context, dbtx db.DBTX, businessID uuid.UUID, date booking.AppointmentDate) (int, error) {
	var maxPos int32
	err := dbtx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0)
		 FROM waitlist_entries
		 WHERE business_id = $1 AND appointment_date = $2`,
		pgconv.UUIDToPgtype(businessID),
		pgconv.DateToPgtype(date.Time())).Scan(&maxPos)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to get max waitlist position", err)
	}
	return int(maxPos), nil
}

func (r *WaitlistRepository) Create(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO waitlist_entries (
			id, booking_id, business_id, appointment_date,
			position, notified_at, expires_at, created_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pgconv.UUIDToPgtype(e.ID()),
		pgconv.UUIDToPgtype(e.BookingID()),
		pgconv.UUIDToPgtype(e.BusinessID()),
		pgconv.DateToPgtype(e.Date().Time()),
		int32(e.Position()),
		pgconv.TimePtrToPgtype(e.NotifiedAt()),
		pgconv.TimePtrToPgtype(e.ExpiresAt()),
		pgconv.TimeToPgtype(e.CreatedAt()))
	if err != nil {
		return wrapPgError("failed to create waitlist entry", err)
	}
	return nil
}

func (r *WaitlistRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx,
		`DELETE FROM waitlist_entries WHERE id = $1`,
		pgconv.UUIDToPgtype(id))
	if err != nil {
		return infra.WrapRepoErr("failed to delete waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("waitlist entry not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

// CompactAfter runs under the scope's advisory lock, so the single-statement
// decrement cannot interleave with another writer of the same queue.
func (r *WaitlistRepository) CompactAfter(ctx context.Context, dbtx db.DBTX, businessID uuid.UUID, date booking.AppointmentDate, removedPosition int) error {
	_, err := dbtx.Exec(ctx,
		`UPDATE waitlist_entries
		 SET position = position - 1
		 WHERE business_id = $1 AND appointment_date = $2 AND position > $3`,
		pgconv.UUIDToPgtype(businessID),
		pgconv.DateToPgtype(date.Time()),
		int32(removedPosition))
	if err != nil {
		return wrapPgError("failed to compact waitlist positions", err)
	}
	return nil
}

func (r *WaitlistRepository) UpdateHold(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE waitlist_entries
		 SET notified_at = $2, expires_at = $3
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(e.ID()),
		pgconv.TimePtrToPgtype(e.NotifiedAt()),
		pgconv.TimePtrToPgtype(e.ExpiresAt()))
	if err != nil {
		return infra.WrapRepoErr("failed to update waitlist hold", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("waitlist entry not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *WaitlistRepository) ExpiredHolds(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]*waitlist.Entry, error) {
	rows, err := dbtx.Query(ctx,
		`SELECT`+entryColumns+`
		 FROM waitlist_entries
		 WHERE expires_at IS NOT NULL AND expires_at < $1
		 ORDER BY expires_at
		 LIMIT $2`,
		pgconv.TimeToPgtype(now),
		int32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired holds", err)
	}
	defer rows.Close()

	var entries []*waitlist.Entry
	for rows.Next() {
		e, serr := scanEntry(rows)
		if serr != nil {
			return nil, infra.WrapRepoErr("failed to scan expired hold", serr)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list expired holds", err)
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*waitlist.Entry, error) {
	var (
		id, bookingID, businessID pgtype.UUID
		appointmentDate           pgtype.Date
		position                  int32
		notifiedAt, expiresAt     pgtype.Timestamptz
		createdAt                 pgtype.Timestamptz
	)

	if err := row.Scan(
		&id, &bookingID, &businessID, &appointmentDate,
		&position, &notifiedAt, &expiresAt, &createdAt,
	); err != nil {
		return nil, err
	}

	return waitlist.ReconstructEntry(
		uuid.UUID(id.Bytes), uuid.UUID(bookingID.Bytes), uuid.UUID(businessID.Bytes),
		booking.NewAppointmentDate(pgconv.DateFromPgtype(appointmentDate)),
		int(position),
		pgconv.TimePtrFromPgtype(notifiedAt),
		pgconv.TimePtrFromPgtype(expiresAt),
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
