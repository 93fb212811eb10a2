package queries

import (
	"context"
	"time"

	"localbiz-bookings/internal/domain/access"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
)

type WaitlistReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WaitlistEntryView, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, date *time.Time) ([]*WaitlistEntryView, error)
}

type WaitlistQueries interface {
	ListForBusiness(ctx context.Context, actor access.Actor, businessID uuid.UUID, date *time.Time) ([]*WaitlistEntryView, error)
}

type waitlistQueriesImpl struct {
	store WaitlistReadStore
	reads shared.CommandReads
}

func NewWaitlistQueries(store WaitlistReadStore, reads shared.CommandReads) WaitlistQueries {
	return &waitlistQueriesImpl{store: store, reads: reads}
}

// ListForBusiness returns the queue for a business (optionally one date),
// ordered by position. Owner/staff only; the target is resolved before the
// gate so a missing business is a not-found for any authenticated caller.
func (q *waitlistQueriesImpl) ListForBusiness(ctx context.Context, actor access.Actor, businessID uuid.UUID, date *time.Time) ([]*WaitlistEntryView, error) {
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
	target := access.Target{BusinessOwnerID: biz.OwnerID}
	if err := access.Decide(actor, access.ActionViewWaitlist, target, toAccessGrant(grant)); err != nil {
		return nil, ErrAccessDenied
	}

	return q.store.ListByBusiness(ctx, businessID, date)
}

func toAccessGrant(g *shared.StaffGrantSnapshot) *access.StaffGrant {
	if g == nil {
		return nil
	}
	return &access.StaffGrant{CanManageBookings: g.CanManageBookings}
}
