package categories

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/response"
)

// Lister lists categories.
type Lister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Handler handles category endpoints.
type Handler struct {
	repo   Lister
	logger *zap.Logger
}

// NewHandler creates a categories handler.
func NewHandler(repo Lister, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /public/categories.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"categories": list})
}
