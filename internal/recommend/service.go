package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/metrics"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/internal/ranking"
)

// PreferenceReader loads a participant's preferences.
type PreferenceReader interface {
	GetPreferences(ctx context.Context, participantID int64) (*models.Preferences, error)
}

// Ranker orders candidates. ranked is false when it fell back to input order.
type Ranker interface {
	Rank(ctx context.Context, profile string, candidates []ranking.Candidate) (ids []int64, ranked bool)
}

// FeedCache stores the ranked order of a participant's last feed.
type FeedCache interface {
	Get(ctx context.Context, participantID int64) ([]int64, bool, error)
	Set(ctx context.Context, participantID int64, order []int64) error
	Invalidate(ctx context.Context, participantID int64) error
}

// Service produces participant feeds.
type Service struct {
	prefs    PreferenceReader
	selector *Selector
	profiles *ProfileBuilder
	ranker   Ranker
	cache    FeedCache
	logger   *zap.Logger
}

// NewService creates a recommendation service. cache may be nil.
func NewService(prefs PreferenceReader, selector *Selector, profiles *ProfileBuilder, ranker Ranker, cache FeedCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{prefs: prefs, selector: selector, profiles: profiles, ranker: ranker, cache: cache, logger: logger}
}

// Feed returns the participant's recommended events, most relevant first.
// Ranking problems degrade to candidate order; only store errors fail.
//
// Candidates are selected on every call. A cached ranking only replaces the
// ranker call, and only while it still covers every current candidate, so
// swipes and event changes made since it was stored are always honored.
func (s *Service) Feed(ctx context.Context, participantID int64) ([]models.EventDetail, error) {
	log := s.logger.With(zap.Int64("participant_id", participantID))

	prefs, err := s.prefs.GetPreferences(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	candidates, err := s.selector.Select(ctx, participantID, *prefs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.RankingRequests.WithLabelValues(metrics.OutcomeEmpty).Inc()
		return []models.EventDetail{}, nil
	}

	if order, ok := s.cachedOrder(ctx, log, participantID, candidates); ok {
		return Assemble(candidates, order), nil
	}

	profile, err := s.profiles.Build(ctx, participantID, *prefs)
	if err != nil {
		return nil, err
	}

	summaries := make([]ranking.Candidate, len(candidates))
	for i, e := range candidates {
		summaries[i] = ranking.Candidate{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Price:       e.Price.InexactFloat64(),
			Categories:  e.CategoryNames,
		}
	}
	rankedIDs, ranked := s.ranker.Rank(ctx, profile, summaries)
	feed := Assemble(candidates, rankedIDs)

	if !ranked {
		log.Warn("serving feed in candidate order", zap.Int("candidates", len(candidates)))
		return feed, nil
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, participantID, feedIDs(feed)); err != nil {
			log.Warn("feed cache write failed", zap.Error(err))
		}
	}
	return feed, nil
}

func (s *Service) cachedOrder(ctx context.Context, log *zap.Logger, participantID int64, candidates []models.Event) ([]int64, bool) {
	if s.cache == nil {
		return nil, false
	}
	order, ok, err := s.cache.Get(ctx, participantID)
	if err != nil {
		log.Warn("feed cache read failed", zap.Error(err))
		metrics.FeedCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	if !ok {
		metrics.FeedCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	known := make(map[int64]struct{}, len(order))
	for _, id := range order {
		known[id] = struct{}{}
	}
	for _, e := range candidates {
		if _, found := known[e.ID]; !found {
			// A new candidate has never been ranked for this participant.
			metrics.FeedCache.WithLabelValues("stale").Inc()
			return nil, false
		}
	}
	metrics.FeedCache.WithLabelValues("hit").Inc()
	return order, true
}

func feedIDs(feed []models.EventDetail) []int64 {
	out := make([]int64, len(feed))
	for i, d := range feed {
		out[i] = d.ID
	}
	return out
}

// Invalidate drops the cached feed after the participant's state changed.
// Failures are logged only.
func (s *Service) Invalidate(ctx context.Context, participantID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, participantID); err != nil {
		s.logger.Warn("feed cache invalidation failed", zap.Int64("participant_id", participantID), zap.Error(err))
	}
}
