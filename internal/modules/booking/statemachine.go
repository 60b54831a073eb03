package booking

import "circlepoint/internal/domain"

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
)

// Transition returns the status a booking moves to when action is applied in
// status from. ok is false when the action is not allowed from that status.
// Deletion is not a transition; it is allowed from every status.
func Transition(from domain.BookingStatus, action Action) (to domain.BookingStatus, ok bool) {
	switch action {
	case ActionApprove:
		if from == domain.BookingPending {
			return domain.BookingConfirmed, true
		}
	case ActionReject:
		if from == domain.BookingPending {
			return domain.BookingCancelled, true
		}
	case ActionComplete:
		if from == domain.BookingConfirmed {
			return domain.BookingCompleted, true
		}
	}
	return from, false
}

func (a Action) auditAction() string {
	switch a {
	case ActionApprove:
		return domain.AuditBookingApproved
	case ActionReject:
		return domain.AuditBookingRejected
	case ActionComplete:
		return domain.AuditBookingCompleted
	}
	return string(a)
}
