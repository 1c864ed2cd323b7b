package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVerificationRequested  EventType = "verification_requested"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventProductCreated         EventType = "product_created"
	EventProductUpdated         EventType = "product_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID string, actorID *string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// VerificationRequestedPayload carries the link mailed to a prospective account holder.
type VerificationRequestedPayload struct {
	Email  string `json:"email"`
	Seller bool   `json:"seller"`
	Link   string `json:"link"`
}

// PasswordResetRequestedPayload carries the reset link.
type PasswordResetRequestedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Link   string `json:"link"`
}

// ProductChangedPayload is emitted after a seller creates or updates a product.
type ProductChangedPayload struct {
	ProductID string `json:"product_id"`
	ArtistID  string `json:"artist_id"`
}
