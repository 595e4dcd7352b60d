package events

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focalframe/backend/internal/middleware"
	"github.com/focalframe/backend/internal/models"
	"github.com/focalframe/backend/pkg/response"
)

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Name       string `json:"name" binding:"required"`
	Date       string `json:"date" binding:"required"`
	CoverImage string `json:"cover_image"`
	PriceCents int64  `json:"price_cents"`
}

// AssignClientRequest is the body for POST /events/:id/clients.
type AssignClientRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// SubEventRequest is the body for POST /events/:id/sub-events.
type SubEventRequest struct {
	Name     string  `json:"name" binding:"required"`
	Date     *string `json:"date"`
	Location string  `json:"location"`
}

// AddonRequestBody is the body for POST /events/:id/addons.
type AddonRequestBody struct {
	ServiceID string `json:"service_id" binding:"required"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an event handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /events (photographer or admin).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date, err := parseTime(req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	e := &models.Event{
		Name:           req.Name,
		Date:           date,
		CoverImage:     req.CoverImage,
		PhotographerID: userID,
		PriceCents:     req.PriceCents,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// List handles GET /events: the viewer's events per role.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	list, err := h.repo.ListForViewer(c.Request.Context(), userID, models.Role(role))
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /events/:id. Runs behind RequireEventAccess; loads the
// sub-event taxonomy and client assignments onto the event.
func (h *Handler) GetByID(c *gin.Context) {
	ev := EventFromContext(c)
	subEvents, err := h.repo.ListSubEvents(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to load sub-events")
		return
	}
	ev.SubEvents = subEvents
	assigned, err := h.repo.ListAssignedUsers(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to load assignments")
		return
	}
	ev.AssignedUsers = assigned
	response.OK(c, ev)
}

// Update handles PATCH /events/:id (owning photographer or admin).
func (h *Handler) Update(c *gin.Context) {
	ev := EventFromContext(c)
	if !IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can update this event")
		return
	}
	var req struct {
		Name       *string `json:"name"`
		Date       *string `json:"date"`
		CoverImage *string `json:"cover_image"`
		PriceCents *int64  `json:"price_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	var date *time.Time
	if req.Date != nil {
		t, err := parseTime(*req.Date)
		if err != nil {
			response.BadRequest(c, "invalid date")
			return
		}
		date = &t
	}
	if err := h.repo.Update(c.Request.Context(), ev.ID, req.Name, req.CoverImage, date, req.PriceCents); err != nil {
		response.Internal(c, "failed to update event")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), ev.ID)
	response.OK(c, updated)
}

// Delete handles DELETE /events/:id (owning photographer or admin).
func (h *Handler) Delete(c *gin.Context) {
	ev := EventFromContext(c)
	if !IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can delete this event")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), ev.ID); err != nil {
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}

// AssignClient handles POST /events/:id/clients (owning photographer or admin).
func (h *Handler) AssignClient(c *gin.Context) {
	ev := EventFromContext(c)
	if !IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can assign clients")
		return
	}
	var req AssignClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	clientID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user_id")
		return
	}
	if err := h.repo.AssignClient(c.Request.Context(), ev.ID, clientID); err != nil {
		response.Internal(c, "failed to assign client")
		return
	}
	response.Created(c, gin.H{"event_id": ev.ID, "user_id": clientID})
}

// AddSubEvent handles POST /events/:id/sub-events (owning photographer or admin).
func (h *Handler) AddSubEvent(c *gin.Context) {
	ev := EventFromContext(c)
	if !IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can add sub-events")
		return
	}
	var req SubEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	se := &models.SubEvent{EventID: ev.ID, Name: req.Name, Location: req.Location}
	if req.Date != nil {
		t, err := parseTime(*req.Date)
		if err != nil {
			response.BadRequest(c, "invalid date")
			return
		}
		se.Date = &t
	}
	if err := h.repo.AddSubEvent(c.Request.Context(), se); err != nil {
		response.Internal(c, "failed to add sub-event")
		return
	}
	response.Created(c, se)
}

// CreateAddon handles POST /events/:id/addons. Any viewer with event access
// may request an addon.
func (h *Handler) CreateAddon(c *gin.Context) {
	ev := EventFromContext(c)
	var req AddonRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	a := &models.AddonRequest{EventID: ev.ID, ServiceID: req.ServiceID, RequestedBy: userID}
	if err := h.repo.CreateAddon(c.Request.Context(), a); err != nil {
		response.Internal(c, "failed to create addon request")
		return
	}
	response.Created(c, a)
}

// ListAddons handles GET /events/:id/addons.
func (h *Handler) ListAddons(c *gin.Context) {
	ev := EventFromContext(c)
	list, err := h.repo.ListAddons(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to list addon requests")
		return
	}
	response.OK(c, list)
}

// UpdateAddon handles PATCH /addons/:id (photographer or admin roles; route-gated).
func (h *Handler) UpdateAddon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid addon id")
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	switch req.Status {
	case models.AddonRequested, models.AddonApproved, models.AddonDeclined, models.AddonDelivered:
	default:
		response.BadRequest(c, "invalid addon status")
		return
	}
	a, err := h.repo.UpdateAddonStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.NotFound(c, "addon request not found")
		return
	}
	response.OK(c, a)
}
