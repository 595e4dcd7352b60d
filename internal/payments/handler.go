package payments

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/focalframe/backend/internal/events"
	"github.com/focalframe/backend/internal/middleware"
	"github.com/focalframe/backend/internal/models"
	"github.com/focalframe/backend/pkg/response"
)

// Handler handles payment HTTP endpoints. Routes are mounted under
// /events/:id behind the event access middleware.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a payments handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Record handles POST /events/:id/payments (photographer only). Amounts are
// integer cents; overpayment is allowed and shows up as a negative balance.
func (h *Handler) Record(c *gin.Context) {
	ev := events.EventFromContext(c)
	if !events.IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can record payments")
		return
	}
	var req struct {
		AmountCents int64   `json:"amount_cents" binding:"required"`
		Note        string  `json:"note"`
		PaidAt      *string `json:"paid_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.AmountCents <= 0 {
		response.BadRequest(c, "amount_cents must be positive")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	p := &models.Payment{
		EventID:     ev.ID,
		AmountCents: req.AmountCents,
		Note:        req.Note,
		RecordedBy:  userID,
	}
	if req.PaidAt != nil {
		t, err := time.Parse(time.RFC3339, *req.PaidAt)
		if err != nil {
			response.BadRequest(c, "invalid paid_at")
			return
		}
		p.PaidAt = t
	}
	paidCents, err := h.repo.Record(c.Request.Context(), p)
	if err != nil {
		h.logger.Error("record payment failed", zap.Error(err), zap.String("event_id", ev.ID.String()))
		response.Internal(c, "failed to record payment")
		return
	}
	response.Created(c, gin.H{
		"payment":       p,
		"paid_cents":    paidCents,
		"balance_cents": ev.PriceCents - paidCents,
	})
}

// List handles GET /events/:id/payments: the ledger plus the derived balance.
func (h *Handler) List(c *gin.Context) {
	ev := events.EventFromContext(c)
	list, err := h.repo.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to list payments")
		return
	}
	response.OK(c, gin.H{
		"payments":      list,
		"price_cents":   ev.PriceCents,
		"paid_cents":    ev.PaidCents,
		"balance_cents": ev.BalanceCents(),
	})
}
