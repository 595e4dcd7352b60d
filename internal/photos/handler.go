package photos

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/focalframe/backend/config"
	"github.com/focalframe/backend/internal/events"
	"github.com/focalframe/backend/internal/gallery"
	"github.com/focalframe/backend/internal/middleware"
	"github.com/focalframe/backend/internal/models"
	"github.com/focalframe/backend/internal/workflow"
	"github.com/focalframe/backend/pkg/queue"
	"github.com/focalframe/backend/pkg/response"
	"github.com/focalframe/backend/pkg/storage"
)

// Handler handles photo HTTP endpoints.
type Handler struct {
	repo      *Repository
	eventRepo *events.Repository
	s3        *storage.S3
	queue     *queue.Queue
	hub       events.Broadcaster
	uploads   config.UploadsConfig
	logger    *zap.Logger
}

// NewHandler creates a photo handler. s3, queue and hub may be nil in
// degraded deployments; the endpoints that need them report unavailability.
func NewHandler(repo *Repository, eventRepo *events.Repository, s3 *storage.S3, q *queue.Queue, hub events.Broadcaster, uploads config.UploadsConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, eventRepo: eventRepo, s3: s3, queue: q, hub: hub, uploads: uploads, logger: logger}
}

// galleryQuery parses the tab/filter query parameters of a gallery request.
func galleryQuery(c *gin.Context) (gallery.MainTab, gallery.SubTab, gallery.Filters) {
	main := gallery.MainTab(c.DefaultQuery("tab", string(gallery.TabAll)))
	switch main {
	case gallery.TabAll, gallery.TabSelected, gallery.TabEdited:
	default:
		main = gallery.TabAll
	}
	sub := gallery.SubTab(c.DefaultQuery("sub_tab", string(gallery.SubTabGrid)))
	f := gallery.Filters{
		People:    splitParam(c.Query("people")),
		SubEvents: splitParam(c.Query("sub_events")),
		Tags:      splitParam(c.Query("tags")),
	}
	return main, sub, f
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, ",") {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ListByEvent handles GET /events/:id/photos. Tab and filter query params
// select the visible subset; the selection set is always derived from the
// full freshly loaded collection.
func (h *Handler) ListByEvent(c *gin.Context) {
	ev := events.EventFromContext(c)
	subEvents, err := h.eventRepo.ListSubEvents(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to load sub-events")
		return
	}
	ev.SubEvents = subEvents

	photos, err := h.repo.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to list photos")
		return
	}
	main, sub, filters := galleryQuery(c)
	visible := gallery.Visible(photos, ev, main, sub, filters)
	response.OK(c, gin.H{
		"photos":       visible,
		"selected_ids": gallery.SelectedIDs(photos),
		"total":        len(photos),
	})
}

// Facets handles GET /events/:id/facets.
func (h *Handler) Facets(c *gin.Context) {
	ev := events.EventFromContext(c)
	subEvents, err := h.eventRepo.ListSubEvents(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to load sub-events")
		return
	}
	ev.SubEvents = subEvents
	photos, err := h.repo.ListByEvent(c.Request.Context(), ev.ID)
	if err != nil {
		response.Internal(c, "failed to list photos")
		return
	}
	response.OK(c, gallery.Compute(photos, ev))
}

func (h *Handler) uploadOne(c *gin.Context, ev *models.Event, fh *multipart.FileHeader) (*models.Photo, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	key := storage.OriginalKey(ev.ID.String(), uuid.New().String(), fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fh.Filename)
	}
	if _, err := h.s3.Upload(c.Request.Context(), key, contentType, file); err != nil {
		return nil, err
	}

	p := &models.Photo{
		EventID:  ev.ID,
		FileName: fh.Filename,
		URL:      key,
		Tags:     []string{},
		People:   []string{},
		Category: c.PostForm("category"),
	}
	if seID := c.PostForm("sub_event_id"); seID != "" {
		if id, err := uuid.Parse(seID); err == nil {
			p.SubEventID = &id
		}
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		return nil, err
	}
	if h.queue != nil {
		_ = h.queue.EnqueuePhotoDerivative(c.Request.Context(), queue.PhotoDerivativePayload{
			PhotoID:   p.ID,
			EventID:   ev.ID,
			SourceKey: key,
		})
	}
	return p, nil
}

// Upload handles POST /events/:id/photos (photographer only). Accepts one or
// more files under the "photos" field and enqueues derivative generation.
func (h *Handler) Upload(c *gin.Context) {
	ev := events.EventFromContext(c)
	if !events.IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can upload photos")
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "photo storage not configured")
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		response.BadRequest(c, "no photos in request")
		return
	}
	maxSize := int64(h.uploads.MaxPhotoSizeMB) * 1024 * 1024

	var created []models.Photo
	for _, fh := range files {
		if fh.Size > maxSize {
			response.BadRequest(c, "file too large: "+fh.Filename)
			return
		}
		if !storage.ValidatePhotoType(fh.Header.Get("Content-Type"), fh.Filename) {
			response.BadRequest(c, "unsupported file type: "+fh.Filename)
			return
		}
		p, err := h.uploadOne(c, ev, fh)
		if err != nil {
			h.logger.Error("photo upload failed", zap.Error(err), zap.String("file", fh.Filename))
			response.Internal(c, "failed to upload "+fh.Filename)
			return
		}
		created = append(created, *p)
	}
	if h.hub != nil {
		h.hub.Broadcast(ev.ID, "photos_uploaded", gin.H{"event_id": ev.ID, "count": len(created)})
	}
	response.Created(c, created)
}

// photoAccess loads the photo from :id and checks the viewer can see its
// event. Returns the photo, its event and whether the viewer holds
// photographer rights; writes the response on failure.
func (h *Handler) photoAccess(c *gin.Context) (*models.Photo, *models.Event, bool, bool) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid photo id")
		return nil, nil, false, false
	}
	p, err := h.repo.GetByID(c.Request.Context(), photoID)
	if err != nil {
		response.NotFound(c, "photo not found")
		return nil, nil, false, false
	}
	ev, err := h.eventRepo.GetByID(c.Request.Context(), p.EventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return nil, nil, false, false
	}
	isPhotographer := events.IsPhotographerViewer(c, ev)
	if !isPhotographer {
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		assigned, err := h.eventRepo.IsAssigned(c.Request.Context(), ev.ID, userID)
		if err != nil || !assigned {
			response.Forbidden(c, "no access to this photo")
			return nil, nil, false, false
		}
	}
	return p, ev, isPhotographer, true
}

// ToggleSelection handles POST /photos/:id/toggle-selection. Clients may
// only toggle while the event's selection is open; the photographer is never
// locked out.
func (h *Handler) ToggleSelection(c *gin.Context) {
	p, ev, isPhotographer, ok := h.photoAccess(c)
	if !ok {
		return
	}
	if workflow.IsLocked(ev.SelectionStatus, isPhotographer) {
		response.Forbidden(c, "selection is locked")
		return
	}
	updated, err := h.repo.ToggleSelection(c.Request.Context(), p.ID)
	if err != nil {
		response.Internal(c, "failed to toggle selection")
		return
	}
	if h.hub != nil {
		h.hub.Broadcast(ev.ID, "photo_selection", updated)
	}
	response.OK(c, updated)
}

// Review handles POST /photos/:id/review: sets the review status of an
// edited deliverable.
func (h *Handler) Review(c *gin.Context) {
	p, _, _, ok := h.photoAccess(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.ReviewStatus(req.Status)
	switch status {
	case models.ReviewPending, models.ReviewApproved, models.ReviewChangesRequested:
	default:
		response.BadRequest(c, "invalid review status")
		return
	}
	updated, err := h.repo.SetReviewStatus(c.Request.Context(), p.ID, status)
	if errors.Is(err, ErrNotEdited) {
		response.BadRequest(c, "photo has no edited version to review")
		return
	}
	if err != nil {
		response.Internal(c, "failed to set review status")
		return
	}
	response.OK(c, updated)
}

// UpdateMetadata handles PATCH /photos/:id (photographer only): curation
// fields like tags, people, category, sub-event and the ai pick flag. This is
// also the write path for the external face-grouping service.
func (h *Handler) UpdateMetadata(c *gin.Context) {
	p, _, isPhotographer, ok := h.photoAccess(c)
	if !ok {
		return
	}
	if !isPhotographer {
		response.Forbidden(c, "only the photographer can edit photo metadata")
		return
	}
	var req struct {
		Tags       *[]string `json:"tags"`
		People     *[]string `json:"people"`
		Category   *string   `json:"category"`
		SubEventID *string   `json:"sub_event_id"`
		IsAiPick   *bool     `json:"is_ai_pick"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	var subEventID *uuid.UUID
	if req.SubEventID != nil {
		id, err := uuid.Parse(*req.SubEventID)
		if err != nil {
			response.BadRequest(c, "invalid sub_event_id")
			return
		}
		subEventID = &id
	}
	category := ""
	if req.Category != nil {
		category = *req.Category
	}
	updated, err := h.repo.UpdateMetadata(c.Request.Context(), p.ID, req.Tags, req.People, &category, subEventID, req.IsAiPick)
	if err != nil {
		response.Internal(c, "failed to update photo")
		return
	}
	response.OK(c, updated)
}

// RenamePerson handles POST /events/:id/people/rename (photographer only):
// rewrites a person name across every photo of the event.
func (h *Handler) RenamePerson(c *gin.Context) {
	ev := events.EventFromContext(c)
	if !events.IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can rename people")
		return
	}
	var req struct {
		OldName string `json:"old_name" binding:"required"`
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	updated, err := h.repo.RenamePerson(c.Request.Context(), ev.ID, req.OldName, req.NewName)
	if err != nil {
		response.Internal(c, "failed to rename person")
		return
	}
	response.OK(c, gin.H{"photos_updated": updated})
}

// Delete handles DELETE /photos/:id (photographer only).
func (h *Handler) Delete(c *gin.Context) {
	p, _, isPhotographer, ok := h.photoAccess(c)
	if !ok {
		return
	}
	if !isPhotographer {
		response.Forbidden(c, "only the photographer can delete photos")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), p.ID); err != nil {
		response.Internal(c, "failed to delete photo")
		return
	}
	response.NoContent(c)
}

// DownloadURL handles GET /photos/:id/download-url. Returns a presigned URL
// for the photo's best asset: the edited version on the edited tab, the
// original otherwise. Read-only; nothing is mutated.
func (h *Handler) DownloadURL(c *gin.Context) {
	p, _, _, ok := h.photoAccess(c)
	if !ok {
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "photo storage not configured")
		return
	}
	main := gallery.MainTab(c.DefaultQuery("tab", string(gallery.TabAll)))
	key := gallery.BestURL(p, main)
	expire := h.s3.PresignExpire()
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), key, expire)
	if err != nil {
		h.logger.Error("presign download failed", zap.Error(err), zap.String("photo_id", p.ID.String()))
		response.Internal(c, "failed to generate download URL")
		return
	}
	response.OK(c, gin.H{"download_url": url, "expires_in": int(expire.Seconds())})
}

// AddComment handles POST /photos/:id/comments. Comments are append-only.
func (h *Handler) AddComment(c *gin.Context) {
	p, _, _, ok := h.photoAccess(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	cm := &models.Comment{PhotoID: p.ID, AuthorID: userID, Text: req.Text}
	if err := h.repo.AddComment(c.Request.Context(), cm); err != nil {
		response.Internal(c, "failed to add comment")
		return
	}
	response.Created(c, cm)
}

// ListComments handles GET /photos/:id/comments.
func (h *Handler) ListComments(c *gin.Context) {
	p, _, _, ok := h.photoAccess(c)
	if !ok {
		return
	}
	list, err := h.repo.ListComments(c.Request.Context(), p.ID)
	if err != nil {
		response.Internal(c, "failed to list comments")
		return
	}
	response.OK(c, list)
}

// ResolveComment handles PATCH /comments/:id/resolve.
func (h *Handler) ResolveComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	cm, err := h.repo.ResolveComment(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "comment not found")
		return
	}
	response.OK(c, cm)
}
