package repository

import (
	"context"

	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/pkg/pgconv"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct{}

func NewBookingRepository() shared.BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `
	id, business_id, customer_id, service_type,
	appointment_date, appointment_time, duration_min,
	status, price_cents, payment_status,
	customer_notes, owner_notes, rejection_reason,
	created_at, updated_at`

func (r *BookingRepository) GetForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row := dbtx.QueryRow(ctx,
		`SELECT`+bookingColumns+`
		 FROM bookings
		 WHERE id = $1
		 FOR UPDATE`,
		pgconv.UUIDToPgtype(id))

	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking", err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	var ownerNotes, rejectionReason *string
	if !b.OwnerNotes().IsEmpty() {
		s := b.OwnerNotes().String()
		ownerNotes = &s
	}
	if b.RejectionReason() != "" {
		s := b.RejectionReason()
		rejectionReason = &s
	}

	tag, err := dbtx.Exec(ctx,
		`UPDATE bookings
		 SET status = $2,
		     payment_status = $3,
		     owner_notes = $4,
		     rejection_reason = $5,
		     updated_at = $6
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(b.ID()),
		b.Status().String(),
		b.PaymentStatus().String(),
		pgconv.StringPtrToPgtype(ownerNotes),
		pgconv.StringPtrToPgtype(rejectionReason),
		pgconv.TimeToPgtype(b.UpdatedAt()))
	if err != nil {
		return wrapPgError("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, businessID, customerID   pgtype.UUID
		serviceType, appointmentTime string
		appointmentDate              pgtype.Date
		durationMin                  int32
		status, paymentStatus        string
		priceCents                   pgtype.Int8
		customerNotes, ownerNotes    pgtype.Text
		rejectionReason              pgtype.Text
		createdAt, updatedAt         pgtype.Timestamptz
	)

	if err := row.Scan(
		&id, &businessID, &customerID, &serviceType,
		&appointmentDate, &appointmentTime, &durationMin,
		&status, &priceCents, &paymentStatus,
		&customerNotes, &ownerNotes, &rejectionReason,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	at, err := booking.ParseAppointmentTime(appointmentTime)
	if err != nil {
		return nil, err
	}
	duration, err := booking.NewDuration(int(durationMin))
	if err != nil {
		return nil, err
	}
	var price *booking.Money
	if p := pgconv.Int64PtrFromPgtype(priceCents); p != nil {
		m, merr := booking.NewMoney(*p)
		if merr != nil {
			return nil, merr
		}
		price = &m
	}

	return booking.ReconstructBooking(
		uuid.UUID(id.Bytes), uuid.UUID(businessID.Bytes), uuid.UUID(customerID.Bytes),
		serviceType,
		booking.NewAppointmentDate(pgconv.DateFromPgtype(appointmentDate)),
		at,
		duration,
		booking.Status(status),
		price,
		booking.PaymentStatus(paymentStatus),
		booking.NewNotes(textOrEmpty(customerNotes)),
		booking.NewNotes(textOrEmpty(ownerNotes)),
		textOrEmpty(rejectionReason),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func textOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
