package recommend

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/middleware"
	"github.com/macerhappen/backend/pkg/response"
)

// Handler serves the participant feed.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a feed handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Feed handles GET /participants/feed.
func (h *Handler) Feed(c *gin.Context) {
	user := middleware.CurrentUser(c)
	feed, err := h.svc.Feed(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"events": feed})
}
