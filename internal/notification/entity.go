package notification

// Notification type constants
const (
	TypeBookingCreated      = "booking.created"
	TypeBookingConfirmed    = "booking.confirmed"
	TypeBookingCancelled    = "booking.cancelled"
	TypeApplicationApproved = "application.approved"
	TypeApplicationRejected = "application.rejected"
)

// Message is one notification addressed to a single user. Email is optional;
// sinks that cannot reach the recipient skip the message.
type Message struct {
	Type   string         `json:"type"`
	UserID string         `json:"user_id"`
	Email  string         `json:"-"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   map[string]any `json:"data,omitempty"`
}
