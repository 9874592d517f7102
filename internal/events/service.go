// Package events lets organizers publish and manage events and exposes the
// approved ones publicly. Every new event passes the moderation gate first.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/internal/moderation"
	"github.com/macerhappen/backend/internal/validation"
	"github.com/macerhappen/backend/pkg/queue"
)

// Store is the event persistence used by Service.
type Store interface {
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event, replaceCategories bool) error
	Delete(ctx context.Context, id, organizerID int64) error
	GetForOrganizer(ctx context.Context, id, organizerID int64) (*models.Event, error)
	GetApproved(ctx context.Context, id int64) (*models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error)
	ListApproved(ctx context.Context) ([]models.Event, error)
}

// Moderator decides whether content may be published.
type Moderator interface {
	Moderate(ctx context.Context, title, description string) moderation.Decision
}

// CategoryCounter reports how many of the given category IDs exist.
type CategoryCounter interface {
	CountExisting(ctx context.Context, ids []int64) (int, error)
}

// ReviewQueue receives submissions that need a human decision.
type ReviewQueue interface {
	EnqueueModerationReview(ctx context.Context, payload queue.ModerationReviewPayload) error
}

// CreateInput is an organizer's new event.
type CreateInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Date        time.Time
	CategoryIDs []int64
}

// UpdateInput holds the fields an organizer wants to change; nil means unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Date        *time.Time
	CategoryIDs *[]int64
}

// Service implements the organizer and public event operations.
type Service struct {
	store      Store
	moderator  Moderator
	categories CategoryCounter
	reviews    ReviewQueue
	logger     *zap.Logger
}

// NewService creates an event service. reviews may be nil.
func NewService(store Store, moderator Moderator, categories CategoryCounter, reviews ReviewQueue, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, moderator: moderator, categories: categories, reviews: reviews, logger: logger}
}

// Create validates and moderates a new event. A rejected event is never
// stored; an approved one is stored with its category links in one step.
func (s *Service) Create(ctx context.Context, organizerID int64, in CreateInput) (*models.Event, error) {
	title, err := validation.Title(in.Title)
	if err != nil {
		return nil, err
	}
	description, err := validation.Description(in.Description)
	if err != nil {
		return nil, err
	}
	if err := validation.Amount("price", in.Price); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, errdef.NewBadRequest("date is required")
	}
	categoryIDs, err := s.checkCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.Int64("organizer_id", organizerID))
	decision := s.moderator.Moderate(ctx, title, description)
	if !decision.Approved {
		if decision.Failed {
			s.queueReview(ctx, organizerID, title, description, decision.Reason)
		}
		log.Info("event creation rejected", zap.String("reason", decision.Reason), zap.Bool("moderation_failed", decision.Failed))
		return nil, errdef.NewModerationRejected(decision.Reason)
	}

	e := &models.Event{
		OrganizerID: organizerID,
		Title:       title,
		Description: description,
		Price:       in.Price,
		Date:        in.Date,
		CategoryIDs: categoryIDs,
		Approved:    true,
	}
	if decision.Reason != "" {
		notes := decision.Reason
		e.ModerationNotes = &notes
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}
	log.Info("event created", zap.Int64("event_id", e.ID))
	return e, nil
}

// Update applies an organizer's changes. Edits are not moderated again.
func (s *Service) Update(ctx context.Context, organizerID, eventID int64, in UpdateInput) (*models.Event, error) {
	provided := in.Title != nil || in.Description != nil || in.Price != nil || in.Date != nil || in.CategoryIDs != nil
	if err := validation.AnyProvided(provided, "title", "description", "price", "date", "categories"); err != nil {
		return nil, err
	}

	e, err := s.store.GetForOrganizer(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if e.Title, err = validation.Title(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if e.Description, err = validation.Description(*in.Description); err != nil {
			return nil, err
		}
	}
	if in.Price != nil {
		if err := validation.Amount("price", *in.Price); err != nil {
			return nil, err
		}
		e.Price = *in.Price
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return nil, errdef.NewBadRequest("date is required")
		}
		e.Date = *in.Date
	}
	if in.CategoryIDs != nil {
		if e.CategoryIDs, err = s.checkCategories(ctx, *in.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := s.store.Update(ctx, e, in.CategoryIDs != nil); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an organizer's event.
func (s *Service) Delete(ctx context.Context, organizerID, eventID int64) error {
	return s.store.Delete(ctx, eventID, organizerID)
}

// Get returns one of the organizer's events.
func (s *Service) Get(ctx context.Context, organizerID, eventID int64) (*models.Event, error) {
	return s.store.GetForOrganizer(ctx, eventID, organizerID)
}

// ListForOrganizer returns the organizer's events.
func (s *Service) ListForOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error) {
	return s.store.ListByOrganizer(ctx, organizerID)
}

// ListPublic returns approved events.
func (s *Service) ListPublic(ctx context.Context) ([]models.Event, error) {
	return s.store.ListApproved(ctx)
}

// GetPublic returns an approved event.
func (s *Service) GetPublic(ctx context.Context, eventID int64) (*models.Event, error) {
	return s.store.GetApproved(ctx, eventID)
}

func (s *Service) checkCategories(ctx context.Context, ids []int64) ([]int64, error) {
	ids, err := validation.CategoryIDs(ids, true)
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
	return ids, nil
}

func (s *Service) queueReview(ctx context.Context, organizerID int64, title, description, reason string) {
	if s.reviews == nil {
		return
	}
	err := s.reviews.EnqueueModerationReview(ctx, queue.ModerationReviewPayload{
		OrganizerID: organizerID,
		Title:       title,
		Description: description,
		Reason:      reason,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("enqueue moderation review failed", zap.Int64("organizer_id", organizerID), zap.Error(err))
	}
}
