package moderation

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/response"
)

// ReviewStore lists and resolves manual reviews.
type ReviewStore interface {
	ListPending(ctx context.Context) ([]models.ModerationReview, error)
	Resolve(ctx context.Context, id int64) (*models.ModerationReview, error)
}

// Handler serves the admin review backlog.
type Handler struct {
	reviews ReviewStore
	logger  *zap.Logger
}

// NewHandler creates a moderation review handler.
func NewHandler(reviews ReviewStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{reviews: reviews, logger: logger}
}

// ListPending handles GET /admin/moderation-reviews.
func (h *Handler) ListPending(c *gin.Context) {
	list, err := h.reviews.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"reviews": list})
}

// Resolve handles PATCH /admin/moderation-reviews/:id/resolve.
func (h *Handler) Resolve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid review id")
		return
	}
	rv, err := h.reviews.Resolve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	h.logger.Info("moderation review resolved", zap.Int64("review_id", rv.ID), zap.Int64("organizer_id", rv.OrganizerID))
	response.OK(c, gin.H{"review": rv})
}
