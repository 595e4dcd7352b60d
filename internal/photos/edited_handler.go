package photos

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/focalframe/backend/internal/events"
	"github.com/focalframe/backend/internal/models"
	"github.com/focalframe/backend/pkg/response"
	"github.com/focalframe/backend/pkg/storage"
)

func (h *Handler) storeEdited(c *gin.Context, p *models.Photo, fh *multipart.FileHeader) (*models.Photo, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	key := storage.EditedKey(p.EventID.String(), p.ID.String(), fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fh.Filename)
	}
	if _, err := h.s3.Upload(c.Request.Context(), key, contentType, file); err != nil {
		return nil, err
	}
	// Replacing the edited version resets its review status to pending.
	return h.repo.SetEditedURL(c.Request.Context(), p.ID, key)
}

// UploadEdited handles POST /photos/:id/edited (photographer only): attach
// the retouched deliverable to a single photo.
func (h *Handler) UploadEdited(c *gin.Context) {
	p, ev, isPhotographer, ok := h.photoAccess(c)
	if !ok {
		return
	}
	if !isPhotographer {
		response.Forbidden(c, "only the photographer can upload edited versions")
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "photo storage not configured")
		return
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "photo file required")
		return
	}
	if !storage.ValidatePhotoType(fh.Header.Get("Content-Type"), fh.Filename) {
		response.BadRequest(c, "unsupported file type: "+fh.Filename)
		return
	}
	updated, err := h.storeEdited(c, p, fh)
	if err != nil {
		h.logger.Error("edited upload failed", zap.Error(err), zap.String("photo_id", p.ID.String()))
		response.Internal(c, "failed to upload edited version")
		return
	}
	if h.hub != nil {
		h.hub.Broadcast(ev.ID, "photo_edited", updated)
	}
	response.OK(c, updated)
}

// BatchEditedResult reports what happened to each file in a batch upload.
type BatchEditedResult struct {
	Matched   []models.Photo `json:"matched"`
	Unmatched []string       `json:"unmatched"`
	Ambiguous []string       `json:"ambiguous"`
}

// UploadEditedBatch handles POST /events/:id/edited (photographer only).
// Each uploaded file is matched to its photo by case-insensitive filename;
// files matching zero or more than one photo are skipped and reported.
func (h *Handler) UploadEditedBatch(c *gin.Context) {
	ev := events.EventFromContext(c)
	if !events.IsPhotographerViewer(c, ev) {
		response.Forbidden(c, "only the photographer can upload edited versions")
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

	var result BatchEditedResult
	for _, fh := range files {
		if !storage.ValidatePhotoType(fh.Header.Get("Content-Type"), fh.Filename) {
			result.Unmatched = append(result.Unmatched, fh.Filename)
			continue
		}
		matches, err := h.repo.FindByFileName(c.Request.Context(), ev.ID, fh.Filename)
		if err != nil {
			response.Internal(c, "failed to match filenames")
			return
		}
		switch len(matches) {
		case 0:
			result.Unmatched = append(result.Unmatched, fh.Filename)
			continue
		case 1:
		default:
			result.Ambiguous = append(result.Ambiguous, fh.Filename)
			continue
		}
		updated, err := h.storeEdited(c, &matches[0], fh)
		if err != nil {
			h.logger.Error("batch edited upload failed", zap.Error(err), zap.String("file", fh.Filename))
			response.Internal(c, "failed to upload "+fh.Filename)
			return
		}
		result.Matched = append(result.Matched, *updated)
	}
	if h.hub != nil && len(result.Matched) > 0 {
		h.hub.Broadcast(ev.ID, "photos_edited", gin.H{"event_id": ev.ID, "count": len(result.Matched)})
	}
	response.OK(c, result)
}
