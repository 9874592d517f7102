package events

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/middleware"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/response"
)

// CreateRequest is the body for POST /organizers/events.
type CreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Date        time.Time        `json:"date" binding:"required"`
	Categories  []int64          `json:"categories"`
}

// UpdateRequest is the body for PATCH /organizers/events/:id.
type UpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Date        *time.Time       `json:"date"`
	Categories  *[]int64         `json:"categories"`
}

// Handler handles organizer and public event endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return 0, false
	}
	return id, true
}

// Create handles POST /organizers/events.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	organizer := middleware.CurrentUser(c)

	e, err := h.svc.Create(c.Request.Context(), organizer.ID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Date:        req.Date,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.Created(c, gin.H{"event": e.OrganizerDetail()})
}

// ListMine handles GET /organizers/events.
func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.svc.ListForOrganizer(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	out := make([]models.OrganizerEventDetail, len(list))
	for i := range list {
		out[i] = list[i].OrganizerDetail()
	}
	response.OK(c, gin.H{"events": out})
}

// GetMine handles GET /organizers/events/:id.
func (h *Handler) GetMine(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	e, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"event": e.OrganizerDetail()})
}

// Update handles PATCH /organizers/events/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c).ID, id, UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Date:        req.Date,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"event": e.OrganizerDetail()})
}

// Delete handles DELETE /organizers/events/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.NoContent(c)
}

// ListPublic handles GET /public/events.
func (h *Handler) ListPublic(c *gin.Context) {
	list, err := h.svc.ListPublic(c.Request.Context())
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	out := make([]models.EventDetail, len(list))
	for i := range list {
		out[i] = list[i].Detail()
	}
	response.OK(c, gin.H{"events": out})
}

// GetPublic handles GET /public/events/:id.
func (h *Handler) GetPublic(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	e, err := h.svc.GetPublic(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, h.logger)
		return
	}
	response.OK(c, gin.H{"event": e.Detail()})
}
