package users

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/response"
)

// ProfileReader reads public profiles.
type ProfileReader interface {
	ListOrganizers(ctx context.Context) ([]models.OrganizerPublic, error)
	GetOrganizer(ctx context.Context, id int64) (*models.OrganizerPublic, error)
	GetParticipant(ctx context.Context, id int64) (*models.ParticipantPublic, error)
}

// Handler serves the public profile endpoints.
type Handler struct {
	profiles ProfileReader
	logger   *zap.Logger
}

// NewHandler creates a public profiles handler.
func NewHandler(profiles ProfileReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{profiles: profiles, logger: logger}
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid user id")
		return 0, false
	}
	return id, true
}

// ListOrganizers handles GET /public/organizers.
func (h *Handler) ListOrganizers(c *gin.Context) {
	list, err := h.profiles.ListOrganizers(c.Request.Context())
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"organizers": list})
}

// GetOrganizer handles GET /public/organizers/:id.
func (h *Handler) GetOrganizer(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	o, err := h.profiles.GetOrganizer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, o)
}

// GetParticipant handles GET /public/participants/:id.
func (h *Handler) GetParticipant(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	p, err := h.profiles.GetParticipant(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, p)
}
