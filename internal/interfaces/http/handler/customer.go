package handler

import (
	"github.com/gin-gonic/gin"

	appregistry "github.com/fieldserve/backend/internal/application/registry"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *appregistry.CustomerService
	machineService  *appregistry.MachineService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *appregistry.CustomerService, machineService *appregistry.MachineService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, machineService: machineService}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.GET("/:id/machines", h.Machines)
	}
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req appregistry.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// Get returns a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List returns customers, hiding disabled ones unless requested
func (h *CustomerHandler) List(c *gin.Context) {
	var filter appregistry.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits or disables a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appregistry.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Machines returns the machines installed at a customer site
func (h *CustomerHandler) Machines(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	machines, err := h.machineService.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, machines)
}
