package handler

import (
	"github.com/gin-gonic/gin"

	appregistry "github.com/fieldserve/backend/internal/application/registry"
)

// PartHandler handles spare part endpoints
type PartHandler struct {
	BaseHandler
	partService *appregistry.PartService
}

// NewPartHandler creates a new part handler
func NewPartHandler(partService *appregistry.PartService) *PartHandler {
	return &PartHandler{partService: partService}
}

// RegisterRoutes registers part routes
func (h *PartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	parts := rg.Group("/parts")
	{
		parts.POST("", h.Create)
		parts.GET("", h.List)
		parts.GET("/:id", h.Get)
		parts.PUT("/:id", h.Update)
	}
}

// Create adds a spare part to the catalog
func (h *PartHandler) Create(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req appregistry.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	part, err := h.partService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, part)
}

// Get returns a single part
func (h *PartHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	part, err := h.partService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, part)
}

// List returns parts, optionally filtered by category or low stock
func (h *PartHandler) List(c *gin.Context) {
	var filter appregistry.PartListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits part details or adjusts stock
func (h *PartHandler) Update(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appregistry.UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	part, err := h.partService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, part)
}
