// Package users resolves callers to active users and serves the public
// organizer and participant profiles.
package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/models"
)

// ErrNotFound is the single answer for absent, inactive and wrong-role users.
var ErrNotFound = errdef.NewNotFound("User not found.")

var (
	errOrganizerNotFound   = errdef.NewNotFound("Organizer not found.")
	errParticipantNotFound = errdef.NewNotFound("Participant not found.")
)

// Repository handles user lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetActive returns the active user with the given ID and role.
func (r *Repository) GetActive(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	const query = `SELECT id, username, COALESCE(email, ''), role, is_active, created_at
		FROM users WHERE id = $1 AND role = $2 AND is_active`
	var u models.User
	err := r.pool.QueryRow(ctx, query, id, role).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const selectOrganizer = `SELECT u.id, u.username, o.name, o.surname, COALESCE(o.description, '')
	FROM users u JOIN organizer_profiles o ON o.user_id = u.id
	WHERE u.role = 'organizer' AND u.is_active`

// ListOrganizers returns every active organizer ordered by username.
func (r *Repository) ListOrganizers(ctx context.Context) ([]models.OrganizerPublic, error) {
	rows, err := r.pool.Query(ctx, selectOrganizer+` ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.OrganizerPublic{}
	for rows.Next() {
		var o models.OrganizerPublic
		if err := rows.Scan(&o.ID, &o.Username, &o.Name, &o.Surname, &o.Description); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// GetOrganizer returns the public profile of an active organizer.
func (r *Repository) GetOrganizer(ctx context.Context, id int64) (*models.OrganizerPublic, error) {
	var o models.OrganizerPublic
	err := r.pool.QueryRow(ctx, selectOrganizer+` AND u.id = $1`, id).
		Scan(&o.ID, &o.Username, &o.Name, &o.Surname, &o.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errOrganizerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetParticipant returns the public profile of an active participant with
// the names of the categories they follow.
func (r *Repository) GetParticipant(ctx context.Context, id int64) (*models.ParticipantPublic, error) {
	const query = `SELECT u.id, u.username, p.name, p.surname,
			ARRAY(SELECT c.name FROM participant_categories pc JOIN categories c ON c.id = pc.category_id
				WHERE pc.participant_id = u.id ORDER BY c.name)
		FROM users u JOIN participant_profiles p ON p.user_id = u.id
		WHERE u.id = $1 AND u.role = 'participant' AND u.is_active`
	var p models.ParticipantPublic
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Username, &p.Name, &p.Surname, &p.Categories)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errParticipantNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	return &p, nil
}
