package handler

import (
	"github.com/gin-gonic/gin"

	appticketing "github.com/fieldserve/backend/internal/application/ticketing"
)

// TicketHandler handles service ticket endpoints
type TicketHandler struct {
	BaseHandler
	ticketService *appticketing.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *appticketing.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// RegisterRoutes registers ticket routes
func (h *TicketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets")
	{
		tickets.POST("", h.Create)
		tickets.GET("", h.List)
		tickets.GET("/:id", h.Get)
		tickets.GET("/number/:number", h.GetByNumber)
		tickets.PUT("/:id", h.Update)
		tickets.POST("/:id/close", h.Close)
		tickets.PATCH("/:id/technician", h.TechnicianUpdate)
	}
}

// Create opens a new service ticket
func (h *TicketHandler) Create(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req appticketing.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ticket)
}

// Get returns a single ticket by id
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

type ticketNumberRequest struct {
	Number string `uri:"number" binding:"required,ticket_number"`
}

// GetByNumber returns a single ticket by its ticket number
func (h *TicketHandler) GetByNumber(c *gin.Context) {
	var req ticketNumberRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid ticket number")
		return
	}

	ticket, err := h.ticketService.GetByNumber(c.Request.Context(), req.Number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

// List returns tickets; technicians only see their own assignments
func (h *TicketHandler) List(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}

	var filter appticketing.TicketListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ticketService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits a ticket, including assignment and status changes
func (h *TicketHandler) Update(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appticketing.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ticket, err := h.ticketService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

// Close closes a ticket once all machines have work details logged
func (h *TicketHandler) Close(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Close(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

// TechnicianUpdate lets the assigned technician update notes, schedule
// the next visit, or record departure (which closes the ticket).
func (h *TicketHandler) TechnicianUpdate(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appticketing.TechnicianUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ticket, err := h.ticketService.TechnicianUpdate(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}
