package booking

import "errors"

var ErrInvalidTransition = errors.New("invalid booking status transition")

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusWaitlisted Status = "waitlisted"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaitlisted, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionWaitlist Action = "waitlist"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionConfirm, ActionReject, ActionCancel, ActionComplete, ActionWaitlist:
		return true
	default:
		return false
	}
}

type transitionKey struct {
	from   Status
	action Action
}

// transitions is the closed transition graph. Anything not listed here is
// rejected, which keeps illegal moves (including every move out of a
// terminal status) a single-point check.
var transitions = map[transitionKey]Status{
	{StatusPending, ActionConfirm}:    StatusConfirmed,
	{StatusWaitlisted, ActionConfirm}: StatusConfirmed,
	{StatusPending, ActionReject}:     StatusRejected,
	{StatusPending, ActionCancel}:     StatusCancelled,
	{StatusConfirmed, ActionCancel}:   StatusCancelled,
	{StatusWaitlisted, ActionCancel}:  StatusCancelled,
	{StatusConfirmed, ActionComplete}: StatusCompleted,
	{StatusPending, ActionWaitlist}:   StatusWaitlisted,
	{StatusConfirmed, ActionWaitlist}: StatusWaitlisted,
}

// Transition resolves the target status for an action applied to the
// current status, or ErrInvalidTransition when the graph has no edge.
func Transition(from Status, action Action) (Status, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return "", ErrInvalidTransition
	}
	return to, nil
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}
