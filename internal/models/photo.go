package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus applies to edited deliverables only: a photo without an edited
// version stays pending regardless of what a caller sends.
type ReviewStatus string

const (
	ReviewPending          ReviewStatus = "pending"
	ReviewApproved         ReviewStatus = "approved"
	ReviewChangesRequested ReviewStatus = "changes_requested"
)

// Photo represents one uploaded photograph within an event.
type Photo struct {
	ID           uuid.UUID    `json:"id"`
	EventID      uuid.UUID    `json:"event_id"`
	FileName     string       `json:"file_name"`
	URL          string       `json:"url"`
	EditedURL    *string      `json:"edited_url,omitempty"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	PreviewURL   string       `json:"preview_url,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	People       []string     `json:"people,omitempty"`
	IsAiPick     bool         `json:"is_ai_pick"`
	Category     string       `json:"category,omitempty"`
	SubEventID   *uuid.UUID   `json:"sub_event_id,omitempty"`
	IsSelected   bool         `json:"is_selected"`
	ReviewStatus ReviewStatus `json:"review_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// HasEdited reports whether a delivered edited version exists.
func (p *Photo) HasEdited() bool {
	return p.EditedURL != nil && *p.EditedURL != ""
}

// Comment is one entry in a photo's append-only comment thread.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	PhotoID    uuid.UUID `json:"photo_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Text       string    `json:"text"`
	Resolved   bool      `json:"resolved"`
	CreatedAt  time.Time `json:"created_at"`
}
