package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/focalframe/backend/internal/models"
)

// Store is the persistence surface the service needs. Status writes are
// guarded by the expected current status so a stale caller cannot clobber a
// newer state: a guarded write that matches no rows returns ErrStaleStatus.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	// SetStatus moves the event from one status to another, optionally
	// recording a delivery estimate in the same write.
	SetStatus(ctx context.Context, id uuid.UUID, from, to models.SelectionStatus, deliveryEstimate *time.Time) (*models.Event, error)
	// ApproveEditedAndAccept marks every edited photo of the event approved
	// and moves the event to accepted in one transaction. Neither change is
	// visible unless both commit.
	ApproveEditedAndAccept(ctx context.Context, id uuid.UUID, from models.SelectionStatus) (*models.Event, int, error)
}

// Service exposes the workflow mutations: submit, transition, reopen and
// approve-all. Handlers decide who the viewer is; the service decides what
// the viewer may do.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a workflow service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// SubmitSelections freezes the client's selection by moving open -> submitted.
// Calling it while already submitted is a successful no-op, so a retried
// request cannot corrupt state. Any later status rejects the call.
func (s *Service) SubmitSelections(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	ev, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.SelectionStatus == models.SelectionSubmitted {
		return ev, nil
	}
	if ev.SelectionStatus != models.SelectionOpen {
		return nil, ErrInvalidTransition
	}
	updated, err := s.store.SetStatus(ctx, eventID, models.SelectionOpen, models.SelectionSubmitted, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("selections submitted", zap.String("event_id", eventID.String()))
	return updated, nil
}

// Transition performs one explicit workflow step. Reopening (to == open) is
// always photographer-only and allowed from any status; forward steps must be
// adjacent per the machine.
func (s *Service) Transition(ctx context.Context, eventID uuid.UUID, to models.SelectionStatus, deliveryEstimate *time.Time, viewerIsPhotographer bool) (*models.Event, error) {
	ev, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	from := ev.SelectionStatus
	if from == to {
		// Repeating the current status is a retry, not an error.
		return ev, nil
	}
	if !CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}
	if PhotographerOnly(from, to) && !viewerIsPhotographer {
		return nil, ErrSelectionLocked
	}
	updated, err := s.store.SetStatus(ctx, eventID, from, to, deliveryEstimate)
	if err != nil {
		return nil, err
	}
	s.logger.Info("workflow transition",
		zap.String("event_id", eventID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return updated, nil
}

// ApproveAllEdits approves every edited deliverable and moves the event to
// accepted. The bulk photo update and the status change commit together: a
// partial failure leaves the event status untouched.
func (s *Service) ApproveAllEdits(ctx context.Context, eventID uuid.UUID) (*models.Event, int, error) {
	ev, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}
	if ev.SelectionStatus == models.SelectionAccepted {
		return ev, 0, nil
	}
	if !CanTransition(ev.SelectionStatus, models.SelectionAccepted) {
		return nil, 0, ErrInvalidTransition
	}
	updated, approved, err := s.store.ApproveEditedAndAccept(ctx, eventID, ev.SelectionStatus)
	if err != nil {
		return nil, 0, err
	}
	s.logger.Info("all edits approved",
		zap.String("event_id", eventID.String()),
		zap.Int("photos_approved", approved),
	)
	return updated, approved, nil
}
