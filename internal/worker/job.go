package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobType names a registered handler.
type JobType string

const (
	JobSendEmail   JobType = "send_email"
	JobSyncProduct JobType = "sync_product"
)

// Job is the envelope stored on the queue.
type Job struct {
	ID         string          `json:"id"`
	Type       JobType         `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	LastError  string          `json:"last_error,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewJob encodes payload into a fresh job.
func NewJob(jobType JobType, payload any) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("encode %s payload: %w", jobType, err)
	}
	return Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// SyncProductPayload asks the worker to mirror a product into the payment provider.
type SyncProductPayload struct {
	ProductID string `json:"product_id"`
}
