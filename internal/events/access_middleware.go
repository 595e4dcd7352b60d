package events

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focalframe/backend/internal/middleware"
	"github.com/focalframe/backend/internal/models"
	"github.com/focalframe/backend/pkg/response"
)

// ContextEvent is the gin context key for the event loaded by RequireEventAccess.
const ContextEvent = "event"

// RequireEventAccess returns middleware that loads the event from the :id
// param and allows admins, the owning photographer, and assigned clients.
// The loaded event is stored in the context for the handler.
func RequireEventAccess(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid event id")
			c.Abort()
			return
		}
		ev, err := repo.GetByID(c.Request.Context(), eventID)
		if err != nil {
			response.NotFound(c, "event not found")
			c.Abort()
			return
		}

		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		role, _ := c.MustGet(middleware.ContextUserRole).(string)
		if role == string(models.RoleAdmin) || ev.PhotographerID == userID {
			c.Set(ContextEvent, ev)
			c.Next()
			return
		}
		assigned, err := repo.IsAssigned(c.Request.Context(), eventID, userID)
		if err != nil || !assigned {
			response.Forbidden(c, "no access to this event")
			c.Abort()
			return
		}
		c.Set(ContextEvent, ev)
		c.Next()
	}
}

// EventFromContext returns the event loaded by RequireEventAccess.
func EventFromContext(c *gin.Context) *models.Event {
	return c.MustGet(ContextEvent).(*models.Event)
}

// IsPhotographerViewer reports whether the current viewer holds photographer
// rights over the event: the owner, or an admin. This is the viewer side of
// the selection lock predicate.
func IsPhotographerViewer(c *gin.Context, ev *models.Event) bool {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	return role == string(models.RoleAdmin) || ev.PhotographerID == userID
}
