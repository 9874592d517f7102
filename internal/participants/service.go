// Package participants handles participant preferences and swipes.
package participants

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/internal/validation"
)

// Store is the participant persistence used by Service.
type Store interface {
	GetPreferences(ctx context.Context, participantID int64) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, participantID int64, categoryIDs *[]int64, budget *decimal.Decimal) error
	UpsertSwipe(ctx context.Context, participantID, eventID int64, liked bool) (*models.Swipe, error)
	History(ctx context.Context, participantID int64) ([]models.Swipe, error)
}

// EventLookup resolves an approved event.
type EventLookup interface {
	GetApproved(ctx context.Context, id int64) (*models.Event, error)
}

// CategoryCounter reports how many of the given category IDs exist.
type CategoryCounter interface {
	CountExisting(ctx context.Context, ids []int64) (int, error)
}

// FeedInvalidator drops a participant's cached feed.
type FeedInvalidator interface {
	Invalidate(ctx context.Context, participantID int64)
}

// PreferencesInput holds the preference fields to change; nil means unchanged.
type PreferencesInput struct {
	CategoryIDs *[]int64
	Budget      *decimal.Decimal
}

// Service implements the participant operations.
type Service struct {
	store      Store
	events     EventLookup
	categories CategoryCounter
	feed       FeedInvalidator
	logger     *zap.Logger
}

// NewService creates a participant service. feed may be nil.
func NewService(store Store, events EventLookup, categories CategoryCounter, feed FeedInvalidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, events: events, categories: categories, feed: feed, logger: logger}
}

// Swipe records a like or dislike on an approved event.
func (s *Service) Swipe(ctx context.Context, participantID, eventID int64, liked bool) (*models.Swipe, error) {
	if _, err := s.events.GetApproved(ctx, eventID); err != nil {
		return nil, err
	}
	swipe, err := s.store.UpsertSwipe(ctx, participantID, eventID, liked)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, participantID)
	s.logger.Debug("swipe recorded", zap.Int64("participant_id", participantID), zap.Int64("event_id", eventID), zap.Bool("liked", liked))
	return swipe, nil
}

// Preferences returns the participant's preferences.
func (s *Service) Preferences(ctx context.Context, participantID int64) (*models.Preferences, error) {
	return s.store.GetPreferences(ctx, participantID)
}

// UpdatePreferences changes categories and/or budget and returns the result.
func (s *Service) UpdatePreferences(ctx context.Context, participantID int64, in PreferencesInput) (*models.Preferences, error) {
	if err := validation.AnyProvided(in.CategoryIDs != nil || in.Budget != nil, "category_ids", "budget"); err != nil {
		return nil, err
	}
	if in.Budget != nil {
		if err := validation.Amount("budget", *in.Budget); err != nil {
			return nil, err
		}
	}
	var categoryIDs *[]int64
	if in.CategoryIDs != nil {
		ids, err := validation.CategoryIDs(*in.CategoryIDs, false)
		if err != nil {
			return nil, err
		}
		n, err := s.categories.CountExisting(ctx, ids)
		if err != nil {
			return nil, err
		}
		if err := validation.KnownCategories(ids, n); err != nil {
			return nil, err
		}
		categoryIDs = &ids
	}

	if err := s.store.UpdatePreferences(ctx, participantID, categoryIDs, in.Budget); err != nil {
		return nil, err
	}
	s.invalidate(ctx, participantID)
	return s.store.GetPreferences(ctx, participantID)
}

// History returns the participant's swipes.
func (s *Service) History(ctx context.Context, participantID int64) ([]models.Swipe, error) {
	return s.store.History(ctx, participantID)
}

func (s *Service) invalidate(ctx context.Context, participantID int64) {
	if s.feed != nil {
		s.feed.Invalidate(ctx, participantID)
	}
}
