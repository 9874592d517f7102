// Package ranking orders recommendation candidates with an LLM. A failed or
// malformed ranking degrades to the input order and is never an error.
package ranking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/llm"
	"github.com/macerhappen/backend/internal/metrics"
)

// DefaultDescriptionLimit bounds the description sent per candidate, in characters.
const DefaultDescriptionLimit = 300

const systemPrompt = "You are a recommendation engine for events. " +
	"Given a user profile and a list of events, return ONLY a JSON object with " +
	"a single key 'ranked_event_ids': an array of event IDs ordered from most " +
	"to least relevant for this user."

// Candidate is the summary of an event sent to the ranker.
type Candidate struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Categories  []string `json:"categories"`
}

// Ranker calls the LLM to order candidates.
type Ranker struct {
	llm              llm.Completer
	descriptionLimit int
	logger           *zap.Logger
}

// NewRanker creates a ranker. A non-positive descriptionLimit selects DefaultDescriptionLimit.
func NewRanker(completer llm.Completer, descriptionLimit int, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if descriptionLimit <= 0 {
		descriptionLimit = DefaultDescriptionLimit
	}
	return &Ranker{llm: completer, descriptionLimit: descriptionLimit, logger: logger}
}

// Rank returns candidate IDs from most to least relevant. The returned list
// may omit candidates or name unknown IDs; callers reconcile it with the
// candidate set. ranked is false when the input order was used as a fallback.
func (r *Ranker) Rank(ctx context.Context, profile string, candidates []Candidate) (ids []int64, ranked bool) {
	if len(candidates) == 0 {
		metrics.RankingRequests.WithLabelValues(metrics.OutcomeEmpty).Inc()
		return []int64{}, true
	}

	payload := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.Description = truncate(c.Description, r.descriptionLimit)
		if c.Categories == nil {
			c.Categories = []string{}
		}
		payload[i] = c
	}
	events, err := json.Marshal(payload)
	if err != nil {
		r.logger.Warn("encode ranking candidates", zap.Error(err))
		return fallback(candidates), false
	}

	user := fmt.Sprintf("USER PROFILE:\n%s\n\nEVENTS (as JSON list):\n%s\n\nReturn JSON like:\n{\"ranked_event_ids\": [1, 5, 2]}\n", profile, events)
	content, err := r.llm.CompleteJSON(ctx, systemPrompt, user)
	if err != nil {
		r.logger.Warn("ranking call failed, using input order", zap.Error(err), zap.Int("candidates", len(candidates)))
		return fallback(candidates), false
	}

	ids, err = ParseRankedIDs(content)
	if err != nil {
		r.logger.Warn("ranking response unusable, using input order", zap.Error(err), zap.String("content", content))
		return fallback(candidates), false
	}
	metrics.RankingRequests.WithLabelValues(metrics.OutcomeRanked).Inc()
	return ids, true
}

// ParseRankedIDs extracts "ranked_event_ids" from a JSON object. Integers and
// strings holding integers are kept; any other entry is dropped. A missing key
// yields an empty list. It fails only when the document is not a JSON object
// or the key does not hold an array.
func ParseRankedIDs(content string) ([]int64, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ranking response: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("ranking response is null")
	}
	raw, ok := doc["ranked_event_ids"]
	if !ok || raw == nil {
		return []int64{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("ranked_event_ids is %T, not an array", raw)
	}

	ids := make([]int64, 0, len(list))
	for _, v := range list {
		switch t := v.(type) {
		case json.Number:
			if id, err := t.Int64(); err == nil {
				ids = append(ids, id)
			}
		case string:
			if id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func fallback(candidates []Candidate) []int64 {
	metrics.RankingRequests.WithLabelValues(metrics.OutcomeFallback).Inc()
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
