package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/database"
)

// Not-found messages do not distinguish missing from unapproved or foreign events.
var (
	ErrNotFound         = errdef.NewNotFound("Event not found.")
	ErrNotFoundApproved = errdef.NewNotFound("Event not found or not approved.")
)

const selectEvent = `SELECT e.id, e.organizer_id, e.title, e.description, e.price, e.date,
		e.approved, e.moderation_notes, e.created_at,
		ARRAY(SELECT ec.category_id FROM event_categories ec
			WHERE ec.event_id = e.id ORDER BY ec.category_id) AS category_ids,
		ARRAY(SELECT c.name FROM event_categories ec JOIN categories c ON c.id = ec.category_id
			WHERE ec.event_id = e.id ORDER BY c.id) AS category_names
	FROM events e`

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Price, &e.Date,
		&e.Approved, &e.ModerationNotes, &e.CreatedAt, &e.CategoryIDs, &e.CategoryNames)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *Repository) get(ctx context.Context, notFound error, query string, args ...any) (*models.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	return e, err
}

// GetApproved returns an approved event by ID.
func (r *Repository) GetApproved(ctx context.Context, id int64) (*models.Event, error) {
	return r.get(ctx, ErrNotFoundApproved, selectEvent+` WHERE e.id = $1 AND e.approved`, id)
}

// GetForOrganizer returns an event owned by the organizer.
func (r *Repository) GetForOrganizer(ctx context.Context, id, organizerID int64) (*models.Event, error) {
	return r.get(ctx, ErrNotFound, selectEvent+` WHERE e.id = $1 AND e.organizer_id = $2`, id, organizerID)
}

// ListByOrganizer returns an organizer's events, newest first.
func (r *Repository) ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error) {
	return r.list(ctx, selectEvent+` WHERE e.organizer_id = $1 ORDER BY e.created_at DESC, e.id DESC`, organizerID)
}

// ListApproved returns every approved event ordered by date.
func (r *Repository) ListApproved(ctx context.Context) ([]models.Event, error) {
	return r.list(ctx, selectEvent+` WHERE e.approved ORDER BY e.date, e.id`)
}

// ListCandidates returns approved events priced at or below MaxPrice, in at
// least one of CategoryIDs and not in ExcludeIDs. Each event appears once.
func (r *Repository) ListCandidates(ctx context.Context, f models.CandidateFilter) ([]models.Event, error) {
	if len(f.CategoryIDs) == 0 {
		return []models.Event{}, nil
	}
	exclude := f.ExcludeIDs
	if exclude == nil {
		exclude = []int64{}
	}
	const where = ` WHERE e.approved
		AND e.price <= $1
		AND EXISTS (SELECT 1 FROM event_categories ec
			WHERE ec.event_id = e.id AND ec.category_id = ANY($2))
		AND NOT (e.id = ANY($3))
		ORDER BY e.date, e.id`
	return r.list(ctx, selectEvent+where, f.MaxPrice.String(), f.CategoryIDs, exclude)
}

// Create inserts an event and its category links in one transaction.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `INSERT INTO events (organizer_id, title, description, price, date, approved, moderation_notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`
		err := tx.QueryRow(ctx, query, e.OrganizerID, e.Title, e.Description, e.Price.String(), e.Date, e.Approved, e.ModerationNotes).
			Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		if err := linkCategories(ctx, tx, e.ID, e.CategoryIDs); err != nil {
			return err
		}
		return loadCategoryNames(ctx, tx, e)
	})
}

// Update writes the editable fields. Category links are replaced when
// replaceCategories is set. Approval and moderation notes are left untouched.
func (r *Repository) Update(ctx context.Context, e *models.Event, replaceCategories bool) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `UPDATE events SET title = $3, description = $4, price = $5, date = $6
			WHERE id = $1 AND organizer_id = $2`
		tag, err := tx.Exec(ctx, query, e.ID, e.OrganizerID, e.Title, e.Description, e.Price.String(), e.Date)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if !replaceCategories {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM event_categories WHERE event_id = $1`, e.ID); err != nil {
			return fmt.Errorf("clear event categories: %w", err)
		}
		if err := linkCategories(ctx, tx, e.ID, e.CategoryIDs); err != nil {
			return err
		}
		return loadCategoryNames(ctx, tx, e)
	})
}

// Delete removes an organizer's event. Swipes and category links cascade.
func (r *Repository) Delete(ctx context.Context, id, organizerID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1 AND organizer_id = $2`, id, organizerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func linkCategories(ctx context.Context, tx pgx.Tx, eventID int64, categoryIDs []int64) error {
	const query = `INSERT INTO event_categories (event_id, category_id)
		SELECT $1, UNNEST($2::bigint[]) ON CONFLICT DO NOTHING`
	if _, err := tx.Exec(ctx, query, eventID, categoryIDs); err != nil {
		return fmt.Errorf("link event categories: %w", err)
	}
	return nil
}

func loadCategoryNames(ctx context.Context, tx pgx.Tx, e *models.Event) error {
	const query = `SELECT ARRAY(SELECT c.name FROM event_categories ec JOIN categories c ON c.id = ec.category_id
		WHERE ec.event_id = $1 ORDER BY c.id)`
	if err := tx.QueryRow(ctx, query, e.ID).Scan(&e.CategoryNames); err != nil {
		return fmt.Errorf("load event categories: %w", err)
	}
	return nil
}
