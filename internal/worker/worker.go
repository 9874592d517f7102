// Package worker drains background jobs from the Redis queue.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/queue"
)

// ReviewStore persists manual moderation reviews.
type ReviewStore interface {
	CreateReview(ctx context.Context, rv *models.ModerationReview) error
}

// JobQueue is the queue surface the worker consumes.
type JobQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// ReviewRecorder turns queued moderation failures into review records.
type ReviewRecorder struct {
	reviews ReviewStore
	queue   JobQueue
	backoff time.Duration
	logger  *zap.Logger
}

// NewReviewRecorder creates a moderation review processor.
func NewReviewRecorder(reviews ReviewStore, q JobQueue, logger *zap.Logger) *ReviewRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewRecorder{reviews: reviews, queue: q, backoff: queue.RetryBackoff, logger: logger}
}

// Process executes one moderation review job.
func (p *ReviewRecorder) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeModerationReview {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ModerationReviewPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	rv := &models.ModerationReview{
		OrganizerID: payload.OrganizerID,
		Title:       payload.Title,
		Description: payload.Description,
		Reason:      payload.Reason,
		CreatedAt:   payload.SubmittedAt,
	}
	if err := p.reviews.CreateReview(ctx, rv); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	p.logger.Info("moderation review recorded", zap.Int64("review_id", rv.ID), zap.Int64("organizer_id", rv.OrganizerID))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ReviewRecorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("moderation review worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, queue.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *ReviewRecorder) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
