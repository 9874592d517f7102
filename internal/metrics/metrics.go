// Package metrics declares the Prometheus collectors for the moderation and
// recommendation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Moderation outcomes.
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Ranking outcomes.
const (
	OutcomeRanked   = "ranked"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
)

var (
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "macerhappen_moderation_decisions_total",
		Help: "Moderation gate decisions by outcome.",
	}, []string{"outcome"})

	RankingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "macerhappen_ranking_requests_total",
		Help: "Ranking calls by outcome; fallback means identity order was used.",
	}, []string{"outcome"})

	FeedCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "macerhappen_feed_cache_total",
		Help: "Cached ranking lookups by result (hit, miss, stale).",
	}, []string{"result"})

	// LLMCircuitState is 0 closed, 1 half-open, 2 open.
	LLMCircuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "macerhappen_llm_circuit_state",
		Help: "Circuit breaker state of LLM clients.",
	}, []string{"name"})
)
