// Package workflow governs the selection/editing/delivery lifecycle of an
// event: the status transitions a photographer and their clients can perform,
// and the lock predicate gating client selection rights.
package workflow

import (
	"errors"
	"fmt"

	"github.com/focalframe/backend/internal/models"
)

var (
	// ErrInvalidTransition is returned when a requested status change is not
	// reachable from the current status.
	ErrInvalidTransition = errors.New("invalid workflow transition")
	// ErrSelectionLocked is returned when a client mutates a selection on an
	// event that has left the open state.
	ErrSelectionLocked = errors.New("selection is locked")
	// ErrStaleStatus is returned when a guarded transition matched no rows:
	// the event moved on since the caller last read it.
	ErrStaleStatus = errors.New("event status changed since last read")
)

// forward holds the allowed forward transitions. Reopening to open is handled
// separately: it is allowed from every status.
var forward = map[models.SelectionStatus][]models.SelectionStatus{
	models.SelectionOpen:      {models.SelectionSubmitted},
	models.SelectionSubmitted: {models.SelectionEditing},
	models.SelectionEditing:   {models.SelectionReview},
	models.SelectionReview:    {models.SelectionAccepted},
	models.SelectionAccepted:  {},
}

// CanTransition reports whether from -> to is a legal workflow step.
// Any status may return to open (the photographer's reopen escape hatch).
func CanTransition(from, to models.SelectionStatus) bool {
	if to == models.SelectionOpen {
		_, known := forward[from]
		return known
	}
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PhotographerOnly reports whether a transition may only be performed by the
// photographer. Clients trigger open -> submitted (submitting their selection)
// and review -> accepted (approving all edits); everything else, including
// reopen, is the photographer's.
func PhotographerOnly(from, to models.SelectionStatus) bool {
	if from == models.SelectionOpen && to == models.SelectionSubmitted {
		return false
	}
	if from == models.SelectionReview && to == models.SelectionAccepted {
		return false
	}
	return true
}

// IsLocked reports whether the viewer is barred from mutating the selection.
// The photographer is never locked out; clients are locked the moment the
// event leaves open.
func IsLocked(status models.SelectionStatus, viewerIsPhotographer bool) bool {
	return status != models.SelectionOpen && !viewerIsPhotographer
}

// ParseStatus validates a status string from the wire.
func ParseStatus(s string) (models.SelectionStatus, error) {
	st := models.SelectionStatus(s)
	if _, ok := forward[st]; !ok {
		return "", fmt.Errorf("unknown selection status %q", s)
	}
	return st, nil
}
