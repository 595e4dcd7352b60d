package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment is one entry in an event's append-only payment ledger.
type Payment struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
	RecordedBy  uuid.UUID `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
