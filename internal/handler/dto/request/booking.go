package request

// UpdateBookingStatusRequest carries one lifecycle action. Reason is required
// by the domain when the action is "reject"; owner_notes is accepted on
// confirm and complete.
type UpdateBookingStatusRequest struct {
	Action     string `json:"action" binding:"required,oneof=confirm reject cancel complete"`
	OwnerNotes string `json:"owner_notes"`
	Reason     string `json:"reason"`
}
