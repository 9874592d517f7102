// Package moderation decides whether event content may be published and keeps
// the backlog of submissions that automatic moderation could not decide.
package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/llm"
	"github.com/macerhappen/backend/internal/metrics"
)

// FailedReason is the reason given whenever the classifier cannot be consulted
// or its answer cannot be understood.
const FailedReason = "Automatic moderation failed; requires manual review."

const defaultRejectReason = "Content violates the publishing policy."

const systemPrompt = "You are a content moderator for a public events platform. " +
	"Decide whether an event listing may be published. " +
	"Reject listings that contain or promote: sexual content; hate speech, harassment or threats; " +
	"self-harm; facilitation of illegal activity; graphic violence. " +
	"Approve borderline but mostly safe content, for example nightlife, parties or festivals. " +
	"Respond ONLY with a JSON object of the form " +
	`{"approved": true or false, "reason": "short explanation"}.`

// Decision is the outcome of a moderation check. Failed is set when the
// decision was forced by an error rather than made by the classifier.
type Decision struct {
	Approved bool
	Reason   string
	Failed   bool
}

// Gate runs event content past an LLM classifier and fails closed.
type Gate struct {
	llm    llm.Completer
	logger *zap.Logger
}

// NewGate creates a moderation gate using the given completer.
func NewGate(completer llm.Completer, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{llm: completer, logger: logger}
}

type verdict struct {
	Approved *bool  `json:"approved"`
	Reason   string `json:"reason"`
}

// Moderate classifies a title and description. It never returns Approved=true
// unless the classifier explicitly answered so.
func (g *Gate) Moderate(ctx context.Context, title, description string) Decision {
	user := fmt.Sprintf("TITLE:\n%s\n\nDESCRIPTION:\n%s\n", title, description)

	content, err := g.llm.CompleteJSON(ctx, systemPrompt, user)
	if err != nil {
		g.logger.Warn("moderation call failed", zap.Error(err))
		return failed()
	}

	var v verdict
	if err := json.Unmarshal([]byte(content), &v); err != nil || v.Approved == nil {
		g.logger.Warn("moderation response unusable", zap.String("content", content), zap.Error(err))
		return failed()
	}

	reason := strings.TrimSpace(v.Reason)
	if !*v.Approved {
		if reason == "" {
			reason = defaultRejectReason
		}
		metrics.ModerationDecisions.WithLabelValues(metrics.OutcomeRejected).Inc()
		g.logger.Info("event rejected by moderation", zap.String("reason", reason))
		return Decision{Approved: false, Reason: reason}
	}

	metrics.ModerationDecisions.WithLabelValues(metrics.OutcomeApproved).Inc()
	return Decision{Approved: true, Reason: reason}
}

func failed() Decision {
	metrics.ModerationDecisions.WithLabelValues(metrics.OutcomeFailed).Inc()
	return Decision{Approved: false, Reason: FailedReason, Failed: true}
}
