package readstore

import (
	"context"

	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/pkg/pgconv"
	"localbiz-bookings/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	dbtx db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{dbtx: dbtx}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.dbtx.QueryRow(ctx,
		`SELECT b.id, b.business_id, biz.name, b.customer_id, u.name, u.email,
		        b.service_type, b.appointment_date, b.appointment_time, b.duration_min,
		        b.status, b.price_cents, b.payment_status,
		        b.customer_notes, b.owner_notes, b.rejection_reason,
		        b.created_at, b.updated_at
		 FROM bookings b
		 JOIN businesses biz ON biz.id = b.business_id
		 JOIN users u ON u.id = b.customer_id
		 WHERE b.id = $1`,
		pgconv.UUIDToPgtype(id))

	view, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return view, nil
}

func (s *BookingReadStore) ListByBusiness(ctx context.Context, businessID uuid.UUID, filters queries.BookingFilters) ([]*queries.BookingListItem, error) {
	sql := `SELECT b.id, u.name, b.service_type, b.appointment_date, b.appointment_time, b.status, b.created_at
	        FROM bookings b
	        JOIN users u ON u.id = b.customer_id
	        WHERE b.business_id = $1
	          AND ($2::date IS NULL OR b.appointment_date = $2)
	          AND ($3::text IS NULL OR b.status = $3)
	        ORDER BY b.appointment_date, b.appointment_time, b.created_at`

	var date pgtype.Date
	if filters.Date != nil {
		date = pgconv.DateToPgtype(*filters.Date)
	}

	rows, err := s.dbtx.Query(ctx, sql,
		pgconv.UUIDToPgtype(businessID),
		date,
		pgconv.StringPtrToPgtype(filters.Status))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var (
			id              pgtype.UUID
			customerName    string
			serviceType     string
			appointmentDate pgtype.Date
			appointmentTime string
			status          string
			createdAt       pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &customerName, &serviceType, &appointmentDate, &appointmentTime, &status, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		items = append(items, &queries.BookingListItem{
			ID:              uuid.UUID(id.Bytes),
			CustomerName:    customerName,
			ServiceType:     serviceType,
			AppointmentDate: pgconv.DateFromPgtype(appointmentDate),
			AppointmentTime: appointmentTime,
			Status:          status,
			CreatedAt:       pgconv.TimeFromPgtype(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return items, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		id, businessID, customerID   pgtype.UUID
		businessName                 string
		customerName, customerEmail  string
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
		&id, &businessID, &businessName, &customerID, &customerName, &customerEmail,
		&serviceType, &appointmentDate, &appointmentTime, &durationMin,
		&status, &priceCents, &paymentStatus,
		&customerNotes, &ownerNotes, &rejectionReason,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return &queries.BookingView{
		ID:              uuid.UUID(id.Bytes),
		BusinessID:      uuid.UUID(businessID.Bytes),
		BusinessName:    businessName,
		CustomerID:      uuid.UUID(customerID.Bytes),
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		ServiceType:     serviceType,
		AppointmentDate: pgconv.DateFromPgtype(appointmentDate),
		AppointmentTime: appointmentTime,
		DurationMin:     durationMin,
		Status:          status,
		PriceCents:      pgconv.Int64PtrFromPgtype(priceCents),
		PaymentStatus:   paymentStatus,
		CustomerNotes:   pgconv.StringPtrFromPgtype(customerNotes),
		OwnerNotes:      pgconv.StringPtrFromPgtype(ownerNotes),
		RejectionReason: pgconv.StringPtrFromPgtype(rejectionReason),
		CreatedAt:       pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:       pgconv.TimeFromPgtype(updatedAt),
	}, nil
}
