package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/focalframe/backend/internal/models"
)

// Repository handles payment persistence. Payments are an append-only
// ledger; the running paid total lives on the event row and is updated in
// the same transaction as the ledger insert.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a payments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts a payment and bumps the event's paid_cents atomically.
// Returns the payment and the event's new paid total.
func (r *Repository) Record(ctx context.Context, p *models.Payment) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// Zero PaidAt means "now"; a backdated ledger entry keeps its given time.
	const insert = `INSERT INTO payments (event_id, amount_cents, note, paid_at, recorded_by)
		VALUES ($1, $2, NULLIF($3,''), COALESCE($4, NOW()), $5)
		RETURNING id, paid_at, created_at`
	var paidAt *time.Time
	if !p.PaidAt.IsZero() {
		paidAt = &p.PaidAt
	}
	if err := tx.QueryRow(ctx, insert, p.EventID, p.AmountCents, p.Note, paidAt, p.RecordedBy).
		Scan(&p.ID, &p.PaidAt, &p.CreatedAt); err != nil {
		return 0, err
	}

	const bump = `UPDATE events SET paid_cents = paid_cents + $2, updated_at = NOW()
		WHERE id = $1 RETURNING paid_cents`
	var paidCents int64
	if err := tx.QueryRow(ctx, bump, p.EventID, p.AmountCents).Scan(&paidCents); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return paidCents, nil
}

// ListByEvent returns the payment ledger for an event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Payment, error) {
	const q = `SELECT id, event_id, amount_cents, COALESCE(note,''), paid_at, recorded_by, created_at
		FROM payments WHERE event_id = $1 ORDER BY paid_at DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.EventID, &p.AmountCents, &p.Note, &p.PaidAt, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
