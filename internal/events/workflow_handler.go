package events

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/focalframe/backend/internal/workflow"
	"github.com/focalframe/backend/pkg/response"
)

// Broadcaster pushes a workflow event to everyone watching the event's room.
// Nil disables notifications.
type Broadcaster interface {
	Broadcast(eventID uuid.UUID, event string, payload interface{})
}

// WorkflowHandler handles the selection workflow endpoints: submit,
// transition and approve-all.
type WorkflowHandler struct {
	service *workflow.Service
	hub     Broadcaster
	logger  *zap.Logger
}

// NewWorkflowHandler creates a workflow handler.
func NewWorkflowHandler(service *workflow.Service, hub Broadcaster, logger *zap.Logger) *WorkflowHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowHandler{service: service, hub: hub, logger: logger}
}

// UpdateRequest is the body for PATCH /events/:id/workflow.
type UpdateRequest struct {
	Status           string  `json:"status" binding:"required"`
	DeliveryEstimate *string `json:"delivery_estimate"`
}

// Submit handles POST /events/:id/submit: the client freezes their selection.
// Retrying while already submitted succeeds without another write.
func (h *WorkflowHandler) Submit(c *gin.Context) {
	ev := EventFromContext(c)
	updated, err := h.service.SubmitSelections(c.Request.Context(), ev.ID)
	if err != nil {
		h.writeError(c, err, "failed to submit selections")
		return
	}
	h.notify(ev.ID, "selection_submitted", updated)
	response.OK(c, updated)
}

// Update handles PATCH /events/:id/workflow: an explicit transition,
// optionally recording a delivery estimate in the same write. The delivery
// estimate is the photographer's to set.
func (h *WorkflowHandler) Update(c *gin.Context) {
	ev := EventFromContext(c)
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	isPhotographer := IsPhotographerViewer(c, ev)
	var estimate *time.Time
	if req.DeliveryEstimate != nil {
		if !isPhotographer {
			response.Forbidden(c, "only the photographer can set the delivery estimate")
			return
		}
		t, err := time.Parse(time.RFC3339, *req.DeliveryEstimate)
		if err != nil {
			response.BadRequest(c, "invalid delivery_estimate")
			return
		}
		estimate = &t
	}
	updated, err := h.service.Transition(c.Request.Context(), ev.ID, status, estimate, isPhotographer)
	if err != nil {
		h.writeError(c, err, "failed to update workflow")
		return
	}
	h.notify(ev.ID, "workflow_status", updated)
	response.OK(c, updated)
}

// ApproveAll handles POST /events/:id/approve-all: approves every edited
// deliverable and accepts the event in one transaction.
func (h *WorkflowHandler) ApproveAll(c *gin.Context) {
	ev := EventFromContext(c)
	updated, approved, err := h.service.ApproveAllEdits(c.Request.Context(), ev.ID)
	if err != nil {
		h.writeError(c, err, "failed to approve edits")
		return
	}
	h.notify(ev.ID, "workflow_status", updated)
	response.OK(c, gin.H{"event": updated, "photos_approved": approved})
}

func (h *WorkflowHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, workflow.ErrInvalidTransition):
		response.Conflict(c, "transition not allowed from current status")
	case errors.Is(err, workflow.ErrSelectionLocked):
		response.Forbidden(c, "selection is locked for this viewer")
	case errors.Is(err, workflow.ErrStaleStatus):
		response.Conflict(c, "event status changed, reload and retry")
	default:
		h.logger.Error(fallback, zap.Error(err))
		response.Internal(c, fallback)
	}
}

func (h *WorkflowHandler) notify(eventID uuid.UUID, event string, payload interface{}) {
	if h.hub != nil {
		h.hub.Broadcast(eventID, event, payload)
	}
}
