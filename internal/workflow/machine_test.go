package workflow

import (
	"testing"

	"github.com/focalframe/backend/internal/models"
)

func TestCanTransitionForwardSteps(t *testing.T) {
	steps := []struct {
		from, to models.SelectionStatus
	}{
		{models.SelectionOpen, models.SelectionSubmitted},
		{models.SelectionSubmitted, models.SelectionEditing},
		{models.SelectionEditing, models.SelectionReview},
		{models.SelectionReview, models.SelectionAccepted},
	}
	for _, s := range steps {
		if !CanTransition(s.from, s.to) {
			t.Fatalf("expected %s -> %s to be allowed", s.from, s.to)
		}
	}
}

func TestCanTransitionRejectsSkips(t *testing.T) {
	if CanTransition(models.SelectionOpen, models.SelectionEditing) {
		t.Fatalf("open -> editing skips submitted")
	}
	if CanTransition(models.SelectionSubmitted, models.SelectionAccepted) {
		t.Fatalf("submitted -> accepted skips editing and review")
	}
	if CanTransition(models.SelectionAccepted, models.SelectionReview) {
		t.Fatalf("no backward step except reopen")
	}
}

func TestReopenAllowedFromEverywhere(t *testing.T) {
	all := []models.SelectionStatus{
		models.SelectionOpen,
		models.SelectionSubmitted,
		models.SelectionEditing,
		models.SelectionReview,
		models.SelectionAccepted,
	}
	for _, from := range all {
		if !CanTransition(from, models.SelectionOpen) {
			t.Fatalf("expected reopen from %s", from)
		}
	}
}

func TestIsLocked(t *testing.T) {
	all := []models.SelectionStatus{
		models.SelectionOpen,
		models.SelectionSubmitted,
		models.SelectionEditing,
		models.SelectionReview,
		models.SelectionAccepted,
	}
	for _, st := range all {
		if IsLocked(st, true) {
			t.Fatalf("photographer must never be locked (status %s)", st)
		}
		want := st != models.SelectionOpen
		if IsLocked(st, false) != want {
			t.Fatalf("client lock for %s: want %v", st, want)
		}
	}
}

func TestPhotographerOnly(t *testing.T) {
	if PhotographerOnly(models.SelectionOpen, models.SelectionSubmitted) {
		t.Fatalf("clients submit their own selection")
	}
	if PhotographerOnly(models.SelectionReview, models.SelectionAccepted) {
		t.Fatalf("clients accept by approving all edits")
	}
	if !PhotographerOnly(models.SelectionSubmitted, models.SelectionEditing) {
		t.Fatalf("starting edit work is the photographer's")
	}
	if !PhotographerOnly(models.SelectionReview, models.SelectionOpen) {
		t.Fatalf("reopen is the photographer's")
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("editing"); err != nil {
		t.Fatalf("expected editing to parse: %v", err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
}
