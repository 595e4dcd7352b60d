package photos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focalframe/backend/internal/models"
)

// ErrNotEdited is returned when a review status is set on a photo that has no
// edited deliverable; review only applies to edited versions.
var ErrNotEdited = errors.New("photo has no edited version")

const photoColumns = `id, event_id, file_name, url, edited_url,
	COALESCE(thumbnail_url,''), COALESCE(preview_url,''),
	tags, people, is_ai_pick, COALESCE(category,''), sub_event_id,
	is_selected, review_status, created_at, updated_at`

// Repository handles photo persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a photo repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var p models.Photo
	err := row.Scan(&p.ID, &p.EventID, &p.FileName, &p.URL, &p.EditedURL,
		&p.ThumbnailURL, &p.PreviewURL,
		&p.Tags, &p.People, &p.IsAiPick, &p.Category, &p.SubEventID,
		&p.IsSelected, &p.ReviewStatus, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new photo.
func (r *Repository) Create(ctx context.Context, p *models.Photo) error {
	const q = `INSERT INTO photos (id, event_id, file_name, url, tags, people, category, sub_event_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NULLIF($6,''), $7)
		RETURNING id, is_selected, review_status, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.EventID, p.FileName, p.URL, p.Tags, p.People, p.Category, p.SubEventID).
		Scan(&p.ID, &p.IsSelected, &p.ReviewStatus, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a photo by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	return scanPhoto(r.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
}

// ListByEvent returns all photos of an event in upload order.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Photo, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+photoColumns+` FROM photos WHERE event_id = $1 ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// ToggleSelection flips the photo's selected flag and returns the updated row.
func (r *Repository) ToggleSelection(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	const q = `UPDATE photos SET is_selected = NOT is_selected, updated_at = NOW()
		WHERE id = $1 RETURNING ` + photoColumns
	return scanPhoto(r.pool.QueryRow(ctx, q, id))
}

// SetEditedURL records a delivered edited version. The review status resets to
// pending: a fresh edit has not been reviewed yet.
func (r *Repository) SetEditedURL(ctx context.Context, id uuid.UUID, url string) (*models.Photo, error) {
	const q = `UPDATE photos SET edited_url = $1, review_status = 'pending', updated_at = NOW()
		WHERE id = $2 RETURNING ` + photoColumns
	return scanPhoto(r.pool.QueryRow(ctx, q, url, id))
}

// SetDerivatives records worker-generated thumbnail and preview URLs.
func (r *Repository) SetDerivatives(ctx context.Context, id uuid.UUID, thumbnailURL, previewURL string) error {
	const q = `UPDATE photos SET thumbnail_url = $1, preview_url = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.pool.Exec(ctx, q, thumbnailURL, previewURL, id)
	return err
}

// SetReviewStatus sets the review status of an edited photo. The edited_url
// guard keeps unedited photos out of review.
func (r *Repository) SetReviewStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) (*models.Photo, error) {
	const q = `UPDATE photos SET review_status = $1, updated_at = NOW()
		WHERE id = $2 AND edited_url IS NOT NULL RETURNING ` + photoColumns
	p, err := scanPhoto(r.pool.QueryRow(ctx, q, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotEdited
	}
	return p, err
}

// UpdateMetadata updates curation fields; nil pointers leave columns as-is.
func (r *Repository) UpdateMetadata(ctx context.Context, id uuid.UUID, tags, people *[]string, category *string, subEventID *uuid.UUID, isAiPick *bool) (*models.Photo, error) {
	const q = `UPDATE photos SET
		tags = COALESCE($1, tags),
		people = COALESCE($2, people),
		category = COALESCE(NULLIF($3,''), category),
		sub_event_id = COALESCE($4, sub_event_id),
		is_ai_pick = COALESCE($5, is_ai_pick),
		updated_at = NOW()
		WHERE id = $6 RETURNING ` + photoColumns
	return scanPhoto(r.pool.QueryRow(ctx, q, tags, people, category, subEventID, isAiPick, id))
}

// RenamePerson rewrites oldName to newName in every photo's people array for
// the event. array_replace keeps order and the other entries; names that
// collide after the rename are kept as duplicates.
func (r *Repository) RenamePerson(ctx context.Context, eventID uuid.UUID, oldName, newName string) (int64, error) {
	const q = `UPDATE photos SET people = array_replace(people, $2, $3), updated_at = NOW()
		WHERE event_id = $1 AND $2 = ANY(people)`
	tag, err := r.pool.Exec(ctx, q, eventID, oldName, newName)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// FindByFileName returns every photo of the event whose original file name
// matches case-insensitively. More than one match means the name is ambiguous.
func (r *Repository) FindByFileName(ctx context.Context, eventID uuid.UUID, fileName string) ([]models.Photo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE event_id = $1 AND LOWER(file_name) = LOWER($2)`, eventID, fileName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// Delete removes a photo.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	return err
}

// AddComment appends to a photo's comment thread.
func (r *Repository) AddComment(ctx context.Context, cm *models.Comment) error {
	const q = `INSERT INTO photo_comments (id, photo_id, author_id, text)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, resolved, created_at`
	return r.pool.QueryRow(ctx, q, cm.PhotoID, cm.AuthorID, cm.Text).
		Scan(&cm.ID, &cm.Resolved, &cm.CreatedAt)
}

// ListComments returns a photo's comments oldest first.
func (r *Repository) ListComments(ctx context.Context, photoID uuid.UUID) ([]models.Comment, error) {
	const q = `SELECT c.id, c.photo_id, c.author_id, COALESCE(u.full_name,''), c.text, c.resolved, c.created_at
		FROM photo_comments c LEFT JOIN users u ON u.id = c.author_id
		WHERE c.photo_id = $1 ORDER BY c.created_at, c.id`
	rows, err := r.pool.Query(ctx, q, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Comment
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.PhotoID, &cm.AuthorID, &cm.AuthorName, &cm.Text, &cm.Resolved, &cm.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// ResolveComment marks a comment resolved. Comments are append-only
// otherwise.
func (r *Repository) ResolveComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	const q = `UPDATE photo_comments SET resolved = TRUE WHERE id = $1
		RETURNING id, photo_id, author_id, text, resolved, created_at`
	var cm models.Comment
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&cm.ID, &cm.PhotoID, &cm.AuthorID, &cm.Text, &cm.Resolved, &cm.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}
