package participants

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/middleware"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/response"
)

// SwipeRequest is the body for POST /participants/swipes.
type SwipeRequest struct {
	EventID *int64 `json:"event_id"`
	Liked   *bool  `json:"liked"`
}

// PreferencesRequest is the body for PATCH /participants/preferences.
type PreferencesRequest struct {
	CategoryIDs *[]int64         `json:"category_ids"`
	Budget      *decimal.Decimal `json:"budget"`
}

// PreferencesResponse is the participant's view of their preferences.
type PreferencesResponse struct {
	Categories []int64     `json:"categories"`
	Budget     json.Number `json:"budget"`
}

func preferencesResponse(p *models.Preferences) PreferencesResponse {
	return PreferencesResponse{Categories: p.CategoryIDs, Budget: models.PriceNumber(p.Budget)}
}

// Handler handles participant endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a participants handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Swipe handles POST /participants/swipes.
func (h *Handler) Swipe(c *gin.Context) {
	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.EventID == nil {
		response.BadRequest(c, "event_id is required.")
		return
	}
	if req.Liked == nil {
		response.BadRequest(c, "liked is required.")
		return
	}
	if _, err := h.svc.Swipe(c.Request.Context(), middleware.CurrentUser(c).ID, *req.EventID, *req.Liked); err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.Created(c, gin.H{"detail": "Swipe recorded successfully."})
}

// History handles GET /participants/swipes/history.
func (h *Handler) History(c *gin.Context) {
	list, err := h.svc.History(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"swipes": list})
}

// GetPreferences handles GET /participants/preferences.
func (h *Handler) GetPreferences(c *gin.Context) {
	p, err := h.svc.Preferences(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, preferencesResponse(p))
}

// UpdatePreferences handles PATCH /participants/preferences.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := h.svc.UpdatePreferences(c.Request.Context(), middleware.CurrentUser(c).ID, PreferencesInput{
		CategoryIDs: req.CategoryIDs,
		Budget:      req.Budget,
	})
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, preferencesResponse(p))
}
