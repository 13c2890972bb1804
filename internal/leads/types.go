package leads

import "time"

// Status is the review state of a lead.
type Status string

// Lead statuses
const (
	StatusPending   Status = "pending"
	StatusContacted Status = "contacted"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusPending, StatusContacted, StatusCompleted, StatusRejected}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusContacted, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseStatus converts raw input into a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", &ValidationError{Message: MsgInvalidStatus}
	}
	return s, nil
}

// Lead is a contact-form submission tracked through the review workflow.
// The same struct is persisted by every store backend.
type Lead struct {
	ID          string     `json:"id" dynamodbav:"id"`
	Name        string     `json:"name" dynamodbav:"name"`
	Email       string     `json:"email" dynamodbav:"email"`
	Company     string     `json:"company" dynamodbav:"company"`
	Message     string     `json:"message" dynamodbav:"message"`
	Status      Status     `json:"status" dynamodbav:"status"`
	Notes       string     `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" dynamodbav:"updatedAt"`
	ContactedAt *time.Time `json:"contactedAt,omitempty" dynamodbav:"contactedAt,omitempty"`
}

// SubmitInput is the public form payload.
type SubmitInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,leademail"`
	Company string `json:"company" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// UpdateInput carries an admin partial update. Nil fields are left untouched;
// an empty status is treated as absent.
type UpdateInput struct {
	Status *string `json:"status,omitempty" validate:"omitempty,leadstatus"`
	Notes  *string `json:"notes,omitempty"`
}

// Statistics aggregates the full record set at query time.
type Statistics struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Contacted   int `json:"contacted"`
	Completed   int `json:"completed"`
	Rejected    int `json:"rejected"`
	Last24Hours int `json:"last24Hours"`
}

// EventTypeSubmitted tags lead-submitted events on the queue.
const EventTypeSubmitted = "lead.submitted"

// SubmittedEvent is published after a lead is stored. It deliberately omits
// the message body and the full email address.
type SubmittedEvent struct {
	Type        string    `json:"type"`
	RequestID   string    `json:"request_id"`
	EmailDomain string    `json:"email_domain"`
	Company     string    `json:"company"`
	CreatedAt   time.Time `json:"created_at"`
}
