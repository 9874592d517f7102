package models

import "time"

// Moderation review statuses.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusResolved = "resolved"
)

// ModerationReview is an event submission that automatic moderation could not
// decide on. No event exists for it; it is kept for an admin to follow up.
type ModerationReview struct {
	ID          int64      `json:"id"`
	OrganizerID int64      `json:"organizer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
