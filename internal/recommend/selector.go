// Package recommend builds a participant's feed: candidate selection, profile
// text, ranking and assembly.
package recommend

import (
	"context"
	"fmt"

	"github.com/macerhappen/backend/internal/models"
)

// SwipeReader reads a participant's swipe history.
type SwipeReader interface {
	SwipedEventIDs(ctx context.Context, participantID int64) ([]int64, error)
	RecentLikedTitles(ctx context.Context, participantID int64, limit int) ([]string, error)
}

// CandidateStore lists approved events matching a filter.
type CandidateStore interface {
	ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.Event, error)
}

// Selector computes the events eligible for a participant's feed.
type Selector struct {
	swipes SwipeReader
	events CandidateStore
}

// NewSelector creates a candidate selector.
func NewSelector(swipes SwipeReader, events CandidateStore) *Selector {
	return &Selector{swipes: swipes, events: events}
}

// Select returns approved events the participant has not swiped, priced at or
// below the budget and sharing at least one category with the preferences.
// Each event appears once. No preferred categories means no candidates.
func (s *Selector) Select(ctx context.Context, participantID int64, prefs models.Preferences) ([]models.Event, error) {
	if len(prefs.CategoryIDs) == 0 {
		return []models.Event{}, nil
	}

	swiped, err := s.swipes.SwipedEventIDs(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("load swiped events: %w", err)
	}

	rows, err := s.events.ListCandidates(ctx, models.CandidateFilter{
		MaxPrice:    prefs.Budget,
		CategoryIDs: prefs.CategoryIDs,
		ExcludeIDs:  swiped,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	excluded := toSet(swiped)
	wanted := toSet(prefs.CategoryIDs)
	seen := make(map[int64]struct{}, len(rows))
	out := make([]models.Event, 0, len(rows))
	for _, e := range rows {
		if !e.Approved || e.Price.GreaterThan(prefs.Budget) {
			continue
		}
		if _, ok := excluded[e.ID]; ok {
			continue
		}
		if _, ok := seen[e.ID]; ok {
			continue
		}
		if !sharesAny(e.CategoryIDs, wanted) {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sharesAny(ids []int64, set map[int64]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
