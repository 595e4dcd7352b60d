package models

import (
	"time"

	"github.com/google/uuid"
)

// SelectionStatus is the event's selection workflow state. Transitions are
// enforced by the workflow package; this is the single source of truth for
// whether clients may still mutate their photo selection.
type SelectionStatus string

const (
	SelectionOpen      SelectionStatus = "open"
	SelectionSubmitted SelectionStatus = "submitted"
	SelectionEditing   SelectionStatus = "editing"
	SelectionReview    SelectionStatus = "review"
	SelectionAccepted  SelectionStatus = "accepted"
)

// Event represents a photographer's shoot: the unit clients are assigned to,
// photos belong to, and payments are recorded against.
type Event struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Date             time.Time       `json:"date"`
	CoverImage       string          `json:"cover_image,omitempty"`
	PhotographerID   uuid.UUID       `json:"photographer_id"`
	SelectionStatus  SelectionStatus `json:"selection_status"`
	PriceCents       int64           `json:"price_cents"`
	PaidCents        int64           `json:"paid_cents"`
	DeliveryEstimate *time.Time      `json:"delivery_estimate,omitempty"`
	PhotoCount       int             `json:"photo_count"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Loaded on demand, not on every row scan.
	SubEvents     []SubEvent  `json:"sub_events,omitempty"`
	AssignedUsers []uuid.UUID `json:"assigned_users,omitempty"`
}

// BalanceCents is price minus collected payments. It goes negative when a
// photographer over-collects; that is recorded, not rejected.
func (e *Event) BalanceCents() int64 {
	return e.PriceCents - e.PaidCents
}

// SubEvent is one occasion within an event (e.g. "Reception"), used to facet
// the gallery.
type SubEvent struct {
	ID       uuid.UUID  `json:"id"`
	EventID  uuid.UUID  `json:"event_id"`
	Name     string     `json:"name"`
	Date     *time.Time `json:"date,omitempty"`
	Location string     `json:"location,omitempty"`
	Position int        `json:"position"`
}

// Addon request statuses.
const (
	AddonRequested = "requested"
	AddonApproved  = "approved"
	AddonDeclined  = "declined"
	AddonDelivered = "delivered"
)

// AddonRequest is a client's request for an extra service (album, prints, ...).
type AddonRequest struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	ServiceID   string    `json:"service_id"`
	Status      string    `json:"status"`
	RequestedBy uuid.UUID `json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
