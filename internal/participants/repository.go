package participants

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/database"
)

// ErrNotFound is returned for a participant without a profile.
var ErrNotFound = errdef.NewNotFound("Participant not found.")

// Repository handles participant preferences and swipes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a participants repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetPreferences returns the participant's categories and budget.
func (r *Repository) GetPreferences(ctx context.Context, participantID int64) (*models.Preferences, error) {
	p := &models.Preferences{CategoryIDs: []int64{}, CategoryNames: []string{}}
	err := r.pool.QueryRow(ctx, `SELECT budget FROM participant_profiles WHERE user_id = $1`, participantID).Scan(&p.Budget)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	const query = `SELECT c.id, c.name FROM participant_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.participant_id = $1 ORDER BY c.id`
	rows, err := r.pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		p.CategoryIDs = append(p.CategoryIDs, id)
		p.CategoryNames = append(p.CategoryNames, name)
	}
	return p, rows.Err()
}

// UpdatePreferences replaces the category set and/or budget in one
// transaction. A nil argument leaves that part unchanged.
func (r *Repository) UpdatePreferences(ctx context.Context, participantID int64, categoryIDs *[]int64, budget *decimal.Decimal) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if budget != nil {
			tag, err := tx.Exec(ctx, `UPDATE participant_profiles SET budget = $2 WHERE user_id = $1`, participantID, budget.String())
			if err != nil {
				return fmt.Errorf("update budget: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}
		if categoryIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM participant_categories WHERE participant_id = $1`, participantID); err != nil {
				return fmt.Errorf("clear categories: %w", err)
			}
			const query = `INSERT INTO participant_categories (participant_id, category_id)
				SELECT $1, UNNEST($2::bigint[]) ON CONFLICT DO NOTHING`
			if _, err := tx.Exec(ctx, query, participantID, *categoryIDs); err != nil {
				return fmt.Errorf("set categories: %w", err)
			}
		}
		return nil
	})
}

// UpsertSwipe records a swipe; a repeated swipe on the same event overwrites liked.
func (r *Repository) UpsertSwipe(ctx context.Context, participantID, eventID int64, liked bool) (*models.Swipe, error) {
	const query = `INSERT INTO swipes (participant_id, event_id, liked)
		VALUES ($1, $2, $3)
		ON CONFLICT (participant_id, event_id) DO UPDATE SET liked = EXCLUDED.liked, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	s := &models.Swipe{ParticipantID: participantID, EventID: eventID, Liked: liked}
	if err := r.pool.QueryRow(ctx, query, participantID, eventID, liked).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// SwipedEventIDs returns every event the participant swiped, liked or not.
func (r *Repository) SwipedEventIDs(ctx context.Context, participantID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT event_id FROM swipes WHERE participant_id = $1`, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecentLikedTitles returns titles of the most recently liked events.
func (r *Repository) RecentLikedTitles(ctx context.Context, participantID int64, limit int) ([]string, error) {
	const query = `SELECT e.title FROM swipes s JOIN events e ON e.id = s.event_id
		WHERE s.participant_id = $1 AND s.liked
		ORDER BY s.updated_at DESC, s.id DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, participantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// History returns the participant's swipes, most recent first.
func (r *Repository) History(ctx context.Context, participantID int64) ([]models.Swipe, error) {
	const query = `SELECT id, participant_id, event_id, liked, created_at, updated_at
		FROM swipes WHERE participant_id = $1 ORDER BY updated_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Swipe{}
	for rows.Next() {
		var s models.Swipe
		if err := rows.Scan(&s.ID, &s.ParticipantID, &s.EventID, &s.Liked, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
