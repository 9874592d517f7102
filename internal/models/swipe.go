package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Swipe is a participant's like/dislike on one event. At most one exists per
// (participant, event) pair.
type Swipe struct {
	ID            int64     `json:"-"`
	ParticipantID int64     `json:"-"`
	EventID       int64     `json:"event_id"`
	Liked         bool      `json:"liked"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Preferences is a participant's interest set and budget.
type Preferences struct {
	CategoryIDs   []int64
	CategoryNames []string
	Budget        decimal.Decimal
}
