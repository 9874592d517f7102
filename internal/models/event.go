package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Event is an event published by an organizer. It is visible to the public
// and to recommendations only when Approved is true.
type Event struct {
	ID              int64           `json:"id"`
	OrganizerID     int64           `json:"organizer_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Date            time.Time       `json:"date"`
	CategoryIDs     []int64         `json:"categories"`
	CategoryNames   []string        `json:"-"`
	Approved        bool            `json:"approved"`
	ModerationNotes *string         `json:"moderation_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EventDetail is the participant/public facing representation of an event.
type EventDetail struct {
	ID          int64       `json:"id"`
	OrganizerID int64       `json:"organizer_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Date        time.Time   `json:"date"`
	Categories  []int64     `json:"categories"`
	Approved    bool        `json:"approved"`
}

// OrganizerEventDetail extends EventDetail with moderation notes for the owner.
type OrganizerEventDetail struct {
	EventDetail
	ModerationNotes *string `json:"moderation_notes"`
}

// PriceNumber renders a fixed-point amount as a JSON number with two decimals.
func PriceNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// Detail returns the public representation. Moderation notes are never included.
func (e *Event) Detail() EventDetail {
	categories := e.CategoryIDs
	if categories == nil {
		categories = []int64{}
	}
	return EventDetail{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Description: e.Description,
		Price:       PriceNumber(e.Price),
		Date:        e.Date,
		Categories:  categories,
		Approved:    e.Approved,
	}
}

// OrganizerDetail returns the owner's representation including moderation notes.
func (e *Event) OrganizerDetail() OrganizerEventDetail {
	return OrganizerEventDetail{EventDetail: e.Detail(), ModerationNotes: e.ModerationNotes}
}

// CandidateFilter narrows approved events to those a participant may be
// recommended.
type CandidateFilter struct {
	MaxPrice    decimal.Decimal
	CategoryIDs []int64
	ExcludeIDs  []int64
}
