package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focalframe/backend/internal/models"
	"github.com/focalframe/backend/internal/workflow"
)

const eventColumns = `id, name, date, cover_image, photographer_id, selection_status,
	price_cents, paid_cents, delivery_estimate,
	(SELECT COUNT(*) FROM photos p WHERE p.event_id = events.id) AS photo_count,
	created_at, updated_at`

// Repository handles event persistence. It also implements workflow.Store:
// status writes are guarded by the expected current status.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	var cover *string
	err := row.Scan(&e.ID, &e.Name, &e.Date, &cover, &e.PhotographerID, &e.SelectionStatus,
		&e.PriceCents, &e.PaidCents, &e.DeliveryEstimate, &e.PhotoCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cover != nil {
		e.CoverImage = *cover
	}
	return &e, nil
}

// Create inserts a new event. New events always start open.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (id, name, date, cover_image, photographer_id, selection_status, price_cents)
		VALUES (gen_random_uuid(), $1, $2, NULLIF($3,''), $4, 'open', $5)
		RETURNING id, selection_status, paid_cents, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Name, e.Date, e.CoverImage, e.PhotographerID, e.PriceCents).
		Scan(&e.ID, &e.SelectionStatus, &e.PaidCents, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// ListForViewer returns the events the viewer can see: admins see all,
// photographers their own, clients the events they are assigned to.
func (r *Repository) ListForViewer(ctx context.Context, userID uuid.UUID, role models.Role) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events`
	var args []interface{}
	switch role {
	case models.RoleAdmin:
	case models.RolePhotographer:
		q += ` WHERE photographer_id = $1`
		args = append(args, userID)
	default:
		q += ` WHERE id IN (SELECT event_id FROM event_clients WHERE user_id = $1)`
		args = append(args, userID)
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY date DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update updates mutable event fields; nil pointers leave the column as-is.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, coverImage *string, date *time.Time, priceCents *int64) error {
	const q = `UPDATE events SET
		name = COALESCE($1, name),
		cover_image = COALESCE($2, cover_image),
		date = COALESCE($3, date),
		price_cents = COALESCE($4, price_cents),
		updated_at = NOW()
		WHERE id = $5`
	_, err := r.pool.Exec(ctx, q, name, coverImage, date, priceCents, id)
	return err
}

// Delete removes an event; photos, sub-events, assignments and the payment
// ledger cascade in the schema.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// AssignClient gives a client read/select rights on an event.
func (r *Repository) AssignClient(ctx context.Context, eventID, userID uuid.UUID) error {
	const q = `INSERT INTO event_clients (event_id, user_id) VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, eventID, userID)
	return err
}

// IsAssigned reports whether the user is an assigned client of the event.
func (r *Repository) IsAssigned(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM event_clients WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAssignedUsers returns the client ids assigned to an event.
func (r *Repository) ListAssignedUsers(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM event_clients WHERE event_id = $1 ORDER BY added_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddSubEvent appends a sub-event to the event's taxonomy.
func (r *Repository) AddSubEvent(ctx context.Context, se *models.SubEvent) error {
	const q = `INSERT INTO sub_events (id, event_id, name, date, location, position)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''),
			COALESCE((SELECT MAX(position)+1 FROM sub_events WHERE event_id = $1), 0))
		RETURNING id, position`
	return r.pool.QueryRow(ctx, q, se.EventID, se.Name, se.Date, se.Location).Scan(&se.ID, &se.Position)
}

// ListSubEvents returns the event's sub-events in defined order.
func (r *Repository) ListSubEvents(ctx context.Context, eventID uuid.UUID) ([]models.SubEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, event_id, name, date, COALESCE(location,''), position FROM sub_events WHERE event_id = $1 ORDER BY position`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.SubEvent
	for rows.Next() {
		var se models.SubEvent
		if err := rows.Scan(&se.ID, &se.EventID, &se.Name, &se.Date, &se.Location, &se.Position); err != nil {
			return nil, err
		}
		list = append(list, se)
	}
	return list, rows.Err()
}

// SetStatus implements workflow.Store. The WHERE clause on the expected
// current status makes the write a no-op when the event moved on; that is
// reported as workflow.ErrStaleStatus, never silently applied.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, from, to models.SelectionStatus, deliveryEstimate *time.Time) (*models.Event, error) {
	const q = `UPDATE events SET selection_status = $1,
		delivery_estimate = COALESCE($2, delivery_estimate),
		updated_at = NOW()
		WHERE id = $3 AND selection_status = $4
		RETURNING ` + eventColumns
	e, err := scanEvent(r.pool.QueryRow(ctx, q, to, deliveryEstimate, id, from))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, workflow.ErrStaleStatus
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ApproveEditedAndAccept implements workflow.Store: approves every edited
// photo and moves the event to accepted in one transaction, so a partial
// failure can never leave the event accepted over an inconsistent photo set.
func (r *Repository) ApproveEditedAndAccept(ctx context.Context, id uuid.UUID, from models.SelectionStatus) (*models.Event, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE photos SET review_status = 'approved', updated_at = NOW()
		 WHERE event_id = $1 AND edited_url IS NOT NULL`, id)
	if err != nil {
		return nil, 0, err
	}

	const q = `UPDATE events SET selection_status = 'accepted', updated_at = NOW()
		WHERE id = $1 AND selection_status = $2
		RETURNING ` + eventColumns
	e, err := scanEvent(tx.QueryRow(ctx, q, id, from))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, workflow.ErrStaleStatus
	}
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return e, int(tag.RowsAffected()), nil
}

// CreateAddon records a client's addon request.
func (r *Repository) CreateAddon(ctx context.Context, a *models.AddonRequest) error {
	const q = `INSERT INTO addon_requests (id, event_id, service_id, status, requested_by)
		VALUES (gen_random_uuid(), $1, $2, 'requested', $3)
		RETURNING id, status, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.EventID, a.ServiceID, a.RequestedBy).
		Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
}

// UpdateAddonStatus moves an addon request to a new status.
func (r *Repository) UpdateAddonStatus(ctx context.Context, id uuid.UUID, status string) (*models.AddonRequest, error) {
	const q = `UPDATE addon_requests SET status = $1, updated_at = NOW() WHERE id = $2
		RETURNING id, event_id, service_id, status, requested_by, created_at, updated_at`
	var a models.AddonRequest
	err := r.pool.QueryRow(ctx, q, status, id).
		Scan(&a.ID, &a.EventID, &a.ServiceID, &a.Status, &a.RequestedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAddons returns an event's addon requests in request order.
func (r *Repository) ListAddons(ctx context.Context, eventID uuid.UUID) ([]models.AddonRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, event_id, service_id, status, requested_by, created_at, updated_at
		 FROM addon_requests WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AddonRequest
	for rows.Next() {
		var a models.AddonRequest
		if err := rows.Scan(&a.ID, &a.EventID, &a.ServiceID, &a.Status, &a.RequestedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
