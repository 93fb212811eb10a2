package queries

import (
	"context"

	"localbiz-bookings/internal/domain/access"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, filters BookingFilters) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor access.Actor, id uuid.UUID) (*BookingView, error)
	ListForBusiness(ctx context.Context, actor access.Actor, businessID uuid.UUID, filters BookingFilters) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
	reads shared.CommandReads
}

func NewBookingQueries(store BookingReadStore, reads shared.CommandReads) BookingQueries {
	return &bookingQueriesImpl{store: store, reads: reads}
}

// GetByID is visible to the booking's customer and to the business side
// (owner or staff with the booking capability).
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor access.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	biz, err := q.reads.BusinessByID(ctx, view.BusinessID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	grant, err := q.reads.StaffGrantFor(ctx, view.BusinessID, actor.ID)
	if err != nil {
		return nil, err
	}

	customerID := view.CustomerID
	target := access.Target{BusinessOwnerID: biz.OwnerID, BookingCustomerID: &customerID}
	if err := access.Decide(actor, access.ActionViewBooking, target, toAccessGrant(grant)); err != nil {
		return nil, ErrAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListForBusiness(ctx context.Context, actor access.Actor, businessID uuid.UUID, filters BookingFilters) ([]*BookingListItem, error) {
	biz, err := q.reads.BusinessByID(ctx, businessID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	grant, err := q.reads.StaffGrantFor(ctx, businessID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := access.Decide(actor, access.ActionViewBooking, access.Target{BusinessOwnerID: biz.OwnerID}, toAccessGrant(grant)); err != nil {
		return nil, ErrAccessDenied
	}
	return q.store.ListByBusiness(ctx, businessID, filters)
}
