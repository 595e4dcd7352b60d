package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/focalframe/backend/internal/photos"
	"github.com/focalframe/backend/pkg/queue"
	"github.com/focalframe/backend/pkg/storage"
)

// DerivativeProcessor processes photo derivative jobs: download the original
// from S3, render thumbnail and preview, upload both and update the DB.
type DerivativeProcessor struct {
	photoRepo      *photos.Repository
	s3             *storage.S3
	queue          *queue.Queue
	thumbnailWidth int
	previewWidth   int
	logger         *zap.Logger
}

// NewDerivativeProcessor creates a photo derivative processor.
func NewDerivativeProcessor(photoRepo *photos.Repository, s3 *storage.S3, q *queue.Queue, thumbnailWidth, previewWidth int, logger *zap.Logger) *DerivativeProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if thumbnailWidth <= 0 {
		thumbnailWidth = 400
	}
	if previewWidth <= 0 {
		previewWidth = 1600
	}
	return &DerivativeProcessor{
		photoRepo:      photoRepo,
		s3:             s3,
		queue:          q,
		thumbnailWidth: thumbnailWidth,
		previewWidth:   previewWidth,
		logger:         logger,
	}
}

func (p *DerivativeProcessor) render(img image.Image, width int) (*bytes.Buffer, error) {
	// Never upscale: keep the original when it is already narrower.
	if img.Bounds().Dx() > width {
		img = resize.Resize(uint(width), 0, img, resize.Lanczos3)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &buf, nil
}

// Process executes one derivative job.
func (p *DerivativeProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypePhotoDerivative {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.PhotoDerivativePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	photo, err := p.photoRepo.GetByID(ctx, payload.PhotoID)
	if err != nil || photo == nil {
		return fmt.Errorf("photo not found: %s", payload.PhotoID)
	}
	if photo.ThumbnailURL != "" && photo.PreviewURL != "" {
		p.logger.Info("derivatives already generated", zap.String("photo_id", photo.ID.String()))
		return nil
	}

	body, err := p.s3.Download(ctx, payload.SourceKey)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}
	defer body.Close()

	img, _, err := image.Decode(body)
	if err != nil {
		return fmt.Errorf("decode %s: %w", payload.SourceKey, err)
	}

	thumb, err := p.render(img, p.thumbnailWidth)
	if err != nil {
		return err
	}
	preview, err := p.render(img, p.previewWidth)
	if err != nil {
		return err
	}

	thumbKey := storage.ThumbnailKey(payload.EventID.String(), payload.PhotoID.String())
	previewKey := storage.PreviewKey(payload.EventID.String(), payload.PhotoID.String())
	if _, err := p.s3.Upload(ctx, thumbKey, "image/jpeg", thumb); err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}
	if _, err := p.s3.Upload(ctx, previewKey, "image/jpeg", preview); err != nil {
		return fmt.Errorf("upload preview: %w", err)
	}

	if err := p.photoRepo.SetDerivatives(ctx, payload.PhotoID, thumbKey, previewKey); err != nil {
		p.logger.Error("update derivatives failed", zap.Error(err), zap.String("photo_id", payload.PhotoID.String()))
		return fmt.Errorf("update db: %w", err)
	}

	p.logger.Info("derivatives generated",
		zap.String("photo_id", payload.PhotoID.String()),
		zap.String("thumbnail_key", thumbKey),
		zap.String("preview_key", previewKey),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *DerivativeProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("derivative worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
