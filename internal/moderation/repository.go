package moderation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/models"
)

// Repository handles moderation review persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a moderation review repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateReview inserts a pending review.
func (r *Repository) CreateReview(ctx context.Context, rv *models.ModerationReview) error {
	const query = `INSERT INTO moderation_reviews (organizer_id, title, description, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		RETURNING id, status, created_at`
	var createdAt any
	if !rv.CreatedAt.IsZero() {
		createdAt = rv.CreatedAt
	}
	return r.pool.QueryRow(ctx, query, rv.OrganizerID, rv.Title, rv.Description, rv.Reason, models.ReviewStatusPending, createdAt).
		Scan(&rv.ID, &rv.Status, &rv.CreatedAt)
}

// ListPending returns pending reviews, oldest first.
func (r *Repository) ListPending(ctx context.Context) ([]models.ModerationReview, error) {
	const query = `SELECT id, organizer_id, title, description, reason, status, created_at, resolved_at
		FROM moderation_reviews WHERE status = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, models.ReviewStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.ModerationReview{}
	for rows.Next() {
		var rv models.ModerationReview
		if err := rows.Scan(&rv.ID, &rv.OrganizerID, &rv.Title, &rv.Description, &rv.Reason, &rv.Status, &rv.CreatedAt, &rv.ResolvedAt); err != nil {
			return nil, err
		}
		list = append(list, rv)
	}
	return list, rows.Err()
}

// Resolve marks a pending review as resolved.
func (r *Repository) Resolve(ctx context.Context, id int64) (*models.ModerationReview, error) {
	const query = `UPDATE moderation_reviews SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING id, organizer_id, title, description, reason, status, created_at, resolved_at`
	var rv models.ModerationReview
	err := r.pool.QueryRow(ctx, query, id, models.ReviewStatusResolved, models.ReviewStatusPending).
		Scan(&rv.ID, &rv.OrganizerID, &rv.Title, &rv.Description, &rv.Reason, &rv.Status, &rv.CreatedAt, &rv.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errdef.NewNotFound("moderation review %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}
