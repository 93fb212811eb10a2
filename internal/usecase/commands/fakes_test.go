//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"localbiz-bookings/internal/domain/booking"
	"localbiz-bookings/internal/domain/waitlist"
	"localbiz-bookings/internal/infra"
	"localbiz-bookings/internal/infra/db"
	"localbiz-bookings/internal/usecase/commands"
	"localbiz-bookings/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory persistence standing in for postgres. Single-goroutine tests,
// so WithinScope degenerates to Within; the scope-serialization property
// itself is a database concern.

var errNoRows = errors.New("no rows in result set")

type grantKey struct {
	businessID uuid.UUID
	userID     uuid.UUID
}

type outboxJob struct {
	kind    string
	topic   string
	payload []byte
	runAt   time.Time
}

type memStore struct {
	bookings   map[uuid.UUID]*booking.Booking
	entries    map[uuid.UUID]*waitlist.Entry
	businesses map[uuid.UUID]shared.BusinessSnapshot
	grants     map[grantKey]shared.StaffGrantSnapshot
	outbox     []outboxJob
}

func newMemStore() *memStore {
	return &memStore{
		bookings:   make(map[uuid.UUID]*booking.Booking),
		entries:    make(map[uuid.UUID]*waitlist.Entry),
		businesses: make(map[uuid.UUID]shared.BusinessSnapshot),
		grants:     make(map[grantKey]shared.StaffGrantSnapshot),
	}
}

func (s *memStore) addBusiness(id, ownerID uuid.UUID) {
	s.businesses[id] = shared.BusinessSnapshot{ID: id, OwnerID: ownerID, Name: "Corner Barbers"}
}

func (s *memStore) addGrant(businessID, userID uuid.UUID, canManage bool) {
	s.grants[grantKey{businessID, userID}] = shared.StaffGrantSnapshot{CanManageBookings: canManage}
}

// scopeEntries returns the entries of one (business, date) queue ordered by
// position.
func (s *memStore) scopeEntries(businessID uuid.UUID, date booking.AppointmentDate) []*waitlist.Entry {
	var out []*waitlist.Entry
	for _, e := range s.entries {
		if e.BusinessID() == businessID && e.Date().Equal(date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out
}

type memUoW struct {
	store *memStore
}

func newMemUoW(store *memStore) *memUoW {
	return &memUoW{store: store}
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &memTx{store: u.store})
}

func (u *memUoW) WithinScope(ctx context.Context, _ uuid.UUID, _ booking.AppointmentDate, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &memTx{store: u.store})
}

func (u *memUoW) CommandReads() shared.CommandReads {
	return &memReads{store: u.store}
}

type memTx struct {
	store *memStore
}

func (t *memTx) Bookings() shared.BookingRepository { return &memBookingRepo{store: t.store} }
func (t *memTx) Waitlist() shared.WaitlistRepository {
	return &memWaitlistRepo{store: t.store}
}
func (t *memTx) Outbox() shared.OutboxRepository { return &memOutboxRepo{store: t.store} }
func (t *memTx) Reads() shared.CommandReads      { return &memReads{store: t.store} }
func (t *memTx) DB() db.DBTX                     { return nil }

type memBookingRepo struct {
	store *memStore
}

func (r *memBookingRepo) GetForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", errNoRows, infra.KindNotFound)
	}
	return b, nil
}

func (r *memBookingRepo) Update(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if _, ok := r.store.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", errNoRows, infra.KindNotFound)
	}
	r.store.bookings[b.ID()] = b
	return nil
}

type memWaitlistRepo struct {
	store *memStore
}

func (r *memWaitlistRepo) GetForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*waitlist.Entry, error) {
	e, ok := r.store.entries[id]
	if !ok {
		return nil, infra.WrapRepoErr("waitlist entry not found", errNoRows, infra.KindNotFound)
	}
	return e, nil
}

func (r *memWaitlistRepo) FindByBookingID(_ context.Context, _ db.DBTX, bookingID uuid.UUID) (*waitlist.Entry, error) {
	for _, e := range r.store.entries {
		if e.BookingID() == bookingID {
			return e, nil
		}
	}
	return nil, infra.WrapRepoErr("waitlist entry not found", errNoRows, infra.KindNotFound)
}

func (r *memWaitlistRepo) MaxPosition(_ context.Context, _ db.DBTX, businessID uuid.UUID, date booking.AppointmentDate) (int, error) {
	maxPos := 0
	for _, e := range r.store.scopeEntries(businessID, date) {
		if e.Position() > maxPos {
			maxPos = e.Position()
		}
	}
	return maxPos, nil
}

func (r *memWaitlistRepo) Create(_ context.Context, _ db.DBTX, e *waitlist.Entry) error {
	for _, existing := range r.store.entries {
		if existing.BookingID() == e.BookingID() {
			return infra.WrapRepoErr("duplicate waitlist entry", errNoRows, infra.KindDuplicateKey)
		}
	}
	r.store.entries[e.ID()] = e
	return nil
}

func (r *memWaitlistRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.store.entries[id]; !ok {
		return infra.WrapRepoErr("waitlist entry not found", errNoRows, infra.KindNotFound)
	}
	delete(r.store.entries, id)
	return nil
}

func (r *memWaitlistRepo) CompactAfter(_ context.Context, _ db.DBTX, businessID uuid.UUID, date booking.AppointmentDate, removedPosition int) error {
	for id, e := range r.store.entries {
		if e.BusinessID() == businessID && e.Date().Equal(date) && e.Position() > removedPosition {
			r.store.entries[id] = waitlist.ReconstructEntry(
				e.ID(), e.BookingID(), e.BusinessID(), e.Date(),
				e.Position()-1, e.NotifiedAt(), e.ExpiresAt(), e.CreatedAt(),
			)
		}
	}
	return nil
}

func (r *memWaitlistRepo) UpdateHold(_ context.Context, _ db.DBTX, e *waitlist.Entry) error {
	if _, ok := r.store.entries[e.ID()]; !ok {
		return infra.WrapRepoErr("waitlist entry not found", errNoRows, infra.KindNotFound)
	}
	r.store.entries[e.ID()] = e
	return nil
}

func (r *memWaitlistRepo) ExpiredHolds(_ context.Context, _ db.DBTX, now time.Time, limit int) ([]*waitlist.Entry, error) {
	var out []*waitlist.Entry
	for _, e := range r.store.entries {
		if e.HoldExpired(now) {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type memOutboxRepo struct {
	store *memStore
}

func (r *memOutboxRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	r.store.outbox = append(r.store.outbox, outboxJob{kind: kind, topic: topic, payload: payload, runAt: runAt})
	return nil
}

type memReads struct {
	store *memStore
}

func (r *memReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", errNoRows, infra.KindNotFound)
	}
	return &shared.BookingSnapshot{
		ID:              b.ID(),
		BusinessID:      b.BusinessID(),
		CustomerID:      b.CustomerID(),
		Status:          b.Status().String(),
		AppointmentDate: b.AppointmentDate().Time(),
	}, nil
}

func (r *memReads) WaitlistEntryByID(_ context.Context, id uuid.UUID) (*shared.WaitlistEntrySnapshot, error) {
	e, ok := r.store.entries[id]
	if !ok {
		return nil, infra.WrapRepoErr("waitlist entry not found", errNoRows, infra.KindNotFound)
	}
	return &shared.WaitlistEntrySnapshot{
		ID:              e.ID(),
		BookingID:       e.BookingID(),
		BusinessID:      e.BusinessID(),
		AppointmentDate: e.Date().Time(),
		Position:        e.Position(),
		NotifiedAt:      e.NotifiedAt(),
		ExpiresAt:       e.ExpiresAt(),
	}, nil
}

func (r *memReads) BusinessByID(_ context.Context, id uuid.UUID) (*shared.BusinessSnapshot, error) {
	biz, ok := r.store.businesses[id]
	if !ok {
		return nil, infra.WrapRepoErr("business not found", errNoRows, infra.KindNotFound)
	}
	return &biz, nil
}

func (r *memReads) StaffGrantFor(_ context.Context, businessID, userID uuid.UUID) (*shared.StaffGrantSnapshot, error) {
	g, ok := r.store.grants[grantKey{businessID, userID}]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

// recordingDispatcher collects dispatched notifications; Dispatch runs on a
// background goroutine, hence the lock.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []commands.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n commands.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return nil
}
