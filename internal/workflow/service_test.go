package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/focalframe/backend/internal/models"
)

// fakeStore keeps one event in memory and can be told to fail the bulk
// approve so the atomicity contract is observable.
type fakeStore struct {
	event       models.Event
	failApprove bool
	statusSets  int
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if id != f.event.ID {
		return nil, errors.New("not found")
	}
	ev := f.event
	return &ev, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, id uuid.UUID, from, to models.SelectionStatus, deliveryEstimate *time.Time) (*models.Event, error) {
	if f.event.SelectionStatus != from {
		return nil, ErrStaleStatus
	}
	f.event.SelectionStatus = to
	if deliveryEstimate != nil {
		f.event.DeliveryEstimate = deliveryEstimate
	}
	f.statusSets++
	ev := f.event
	return &ev, nil
}

func (f *fakeStore) ApproveEditedAndAccept(ctx context.Context, id uuid.UUID, from models.SelectionStatus) (*models.Event, int, error) {
	if f.failApprove {
		// Simulates a failed transaction: nothing changed.
		return nil, 0, errors.New("bulk update failed")
	}
	if f.event.SelectionStatus != from {
		return nil, 0, ErrStaleStatus
	}
	f.event.SelectionStatus = models.SelectionAccepted
	ev := f.event
	return &ev, 3, nil
}

func newFake(status models.SelectionStatus) *fakeStore {
	return &fakeStore{event: models.Event{ID: uuid.New(), SelectionStatus: status}}
}

func TestSubmitSelectionsHappyPath(t *testing.T) {
	store := newFake(models.SelectionOpen)
	svc := NewService(store, nil)
	ev, err := svc.SubmitSelections(context.Background(), store.event.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ev.SelectionStatus != models.SelectionSubmitted {
		t.Fatalf("expected submitted, got %s", ev.SelectionStatus)
	}
}

func TestSubmitSelectionsIdempotent(t *testing.T) {
	store := newFake(models.SelectionOpen)
	svc := NewService(store, nil)
	if _, err := svc.SubmitSelections(context.Background(), store.event.ID); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	ev, err := svc.SubmitSelections(context.Background(), store.event.ID)
	if err != nil {
		t.Fatalf("retried submit must succeed: %v", err)
	}
	if ev.SelectionStatus != models.SelectionSubmitted {
		t.Fatalf("retry changed status to %s", ev.SelectionStatus)
	}
	if store.statusSets != 1 {
		t.Fatalf("retry must not write again, got %d writes", store.statusSets)
	}
}

func TestSubmitSelectionsRejectedPastSubmitted(t *testing.T) {
	store := newFake(models.SelectionEditing)
	svc := NewService(store, nil)
	if _, err := svc.SubmitSelections(context.Background(), store.event.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if store.event.SelectionStatus != models.SelectionEditing {
		t.Fatalf("rejected submit must not change status")
	}
}

func TestTransitionRejectsSkip(t *testing.T) {
	store := newFake(models.SelectionOpen)
	svc := NewService(store, nil)
	_, err := svc.Transition(context.Background(), store.event.ID, models.SelectionReview, nil, true)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionPhotographerOnlySteps(t *testing.T) {
	store := newFake(models.SelectionSubmitted)
	svc := NewService(store, nil)
	if _, err := svc.Transition(context.Background(), store.event.ID, models.SelectionEditing, nil, false); !errors.Is(err, ErrSelectionLocked) {
		t.Fatalf("client must not start editing, got %v", err)
	}
	if _, err := svc.Transition(context.Background(), store.event.ID, models.SelectionEditing, nil, true); err != nil {
		t.Fatalf("photographer transition: %v", err)
	}
}

func TestTransitionReopen(t *testing.T) {
	store := newFake(models.SelectionAccepted)
	svc := NewService(store, nil)
	ev, err := svc.Transition(context.Background(), store.event.ID, models.SelectionOpen, nil, true)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ev.SelectionStatus != models.SelectionOpen {
		t.Fatalf("expected open after reopen, got %s", ev.SelectionStatus)
	}
}

func TestTransitionRecordsDeliveryEstimate(t *testing.T) {
	store := newFake(models.SelectionSubmitted)
	svc := NewService(store, nil)
	estimate := time.Now().Add(14 * 24 * time.Hour)
	ev, err := svc.Transition(context.Background(), store.event.ID, models.SelectionEditing, &estimate, true)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if ev.DeliveryEstimate == nil || !ev.DeliveryEstimate.Equal(estimate) {
		t.Fatalf("delivery estimate not recorded")
	}
}

func TestApproveAllEdits(t *testing.T) {
	store := newFake(models.SelectionReview)
	svc := NewService(store, nil)
	ev, n, err := svc.ApproveAllEdits(context.Background(), store.event.ID)
	if err != nil {
		t.Fatalf("approve all: %v", err)
	}
	if ev.SelectionStatus != models.SelectionAccepted || n != 3 {
		t.Fatalf("expected accepted with 3 approvals, got %s/%d", ev.SelectionStatus, n)
	}
}

func TestApproveAllEditsAtomicity(t *testing.T) {
	store := newFake(models.SelectionReview)
	store.failApprove = true
	svc := NewService(store, nil)
	if _, _, err := svc.ApproveAllEdits(context.Background(), store.event.ID); err == nil {
		t.Fatalf("expected bulk failure to surface")
	}
	if store.event.SelectionStatus != models.SelectionReview {
		t.Fatalf("failed approve-all must leave status unchanged, got %s", store.event.SelectionStatus)
	}
}

func TestApproveAllEditsInvalidFromOpen(t *testing.T) {
	store := newFake(models.SelectionOpen)
	svc := NewService(store, nil)
	if _, _, err := svc.ApproveAllEdits(context.Background(), store.event.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApproveAllEditsIdempotentWhenAccepted(t *testing.T) {
	store := newFake(models.SelectionAccepted)
	svc := NewService(store, nil)
	ev, n, err := svc.ApproveAllEdits(context.Background(), store.event.ID)
	if err != nil {
		t.Fatalf("repeat approve-all must be a no-op: %v", err)
	}
	if ev.SelectionStatus != models.SelectionAccepted || n != 0 {
		t.Fatalf("unexpected result %s/%d", ev.SelectionStatus, n)
	}
}
