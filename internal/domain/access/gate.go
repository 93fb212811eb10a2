package access

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("no actor identity")
	ErrForbidden       = errors.New("actor not permitted")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor is the already-resolved identity from the session context. The gate
// never authenticates; it only decides what an actor may do.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

type Action string

const (
	ActionConfirmBooking  Action = "booking.confirm"
	ActionRejectBooking   Action = "booking.reject"
	ActionCancelBooking   Action = "booking.cancel"
	ActionCompleteBooking Action = "booking.complete"
	ActionViewBooking     Action = "booking.view"
	ActionJoinWaitlist    Action = "waitlist.join"
	ActionNotifyWaitlist  Action = "waitlist.notify"
	ActionConfirmWaitlist Action = "waitlist.confirm"
	ActionRemoveWaitlist  Action = "waitlist.remove"
	ActionViewWaitlist    Action = "waitlist.view"
)

// customerActions are the actions additionally open to the booking's own
// customer, independent of any staff capability.
var customerActions = map[Action]bool{
	ActionCancelBooking:  true,
	ActionViewBooking:    true,
	ActionJoinWaitlist:   true,
	ActionRemoveWaitlist: true,
}

// StaffGrant is the capability set resolved for (business, actor). Nil means
// no grant exists.
type StaffGrant struct {
	CanManageBookings bool
}

// Target carries the ownership facts the decision needs. BookingCustomerID
// is nil for operations with no booking in scope (e.g. listing a waitlist).
type Target struct {
	BusinessOwnerID   uuid.UUID
	BookingCustomerID *uuid.UUID
}

// Decide is the single authorization predicate: business owner, or staff
// holding the booking-management capability, or (for customer actions) the
// booking's own customer. Everyone else is denied.
func Decide(actor Actor, action Action, target Target, grant *StaffGrant) error {
	if actor.ID == uuid.Nil {
		return ErrUnauthenticated
	}
	if actor.ID == target.BusinessOwnerID {
		return nil
	}
	if grant != nil && grant.CanManageBookings {
		return nil
	}
	if customerActions[action] && target.BookingCustomerID != nil && actor.ID == *target.BookingCustomerID {
		return nil
	}
	return ErrForbidden
}
