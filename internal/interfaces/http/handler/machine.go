package handler

import (
	"github.com/gin-gonic/gin"

	appregistry "github.com/fieldserve/backend/internal/application/registry"
)

// MachineHandler handles machine endpoints
type MachineHandler struct {
	BaseHandler
	machineService *appregistry.MachineService
}

// NewMachineHandler creates a new machine handler
func NewMachineHandler(machineService *appregistry.MachineService) *MachineHandler {
	return &MachineHandler{machineService: machineService}
}

// RegisterRoutes registers machine routes
func (h *MachineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	machines := rg.Group("/machines")
	{
		machines.POST("", h.Create)
		machines.GET("", h.List)
		machines.GET("/:id", h.Get)
		machines.PUT("/:id", h.Update)
	}
}

// Create registers a machine at a customer site
func (h *MachineHandler) Create(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req appregistry.CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	machine, err := h.machineService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, machine)
}

// Get returns a single machine
func (h *MachineHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	machine, err := h.machineService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, machine)
}

// List returns machines, optionally filtered by customer or type
func (h *MachineHandler) List(c *gin.Context) {
	var filter appregistry.MachineListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.machineService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits a machine's location, notes, or installation date
func (h *MachineHandler) Update(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appregistry.UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	machine, err := h.machineService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, machine)
}
