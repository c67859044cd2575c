package handler

import (
	"github.com/gin-gonic/gin"

	appticketing "github.com/fieldserve/backend/internal/application/ticketing"
)

// WorkLogHandler handles work log endpoints
type WorkLogHandler struct {
	BaseHandler
	workLogService *appticketing.WorkLogService
}

// NewWorkLogHandler creates a new work log handler
func NewWorkLogHandler(workLogService *appticketing.WorkLogService) *WorkLogHandler {
	return &WorkLogHandler{workLogService: workLogService}
}

// RegisterRoutes registers work log routes
func (h *WorkLogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets/:id/work-logs")
	{
		tickets.POST("", h.AddEntry)
		tickets.POST("/bulk", h.AddBulkEntries)
		tickets.GET("", h.ListForTicket)
	}
	rg.GET("/machines/:id/work-logs", h.MachineHistory)
}

// AddEntry records work details for one machine on a ticket
func (h *WorkLogHandler) AddEntry(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	ticketID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appticketing.WorkLogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	log, err := h.workLogService.AddEntry(c.Request.Context(), actor, ticketID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, log)
}

// AddBulkEntries records work details for several machines in one atomic call
func (h *WorkLogHandler) AddBulkEntries(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	ticketID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appticketing.BulkWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	logs, err := h.workLogService.AddBulkEntries(c.Request.Context(), actor, ticketID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, logs)
}

// ListForTicket returns all work logs on a ticket
func (h *WorkLogHandler) ListForTicket(c *gin.Context) {
	ticketID, ok := h.parseID(c)
	if !ok {
		return
	}

	logs, err := h.workLogService.ListForTicket(c.Request.Context(), ticketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, logs)
}

// MachineHistory returns the service history of a machine across tickets
func (h *WorkLogHandler) MachineHistory(c *gin.Context) {
	machineID, ok := h.parseID(c)
	if !ok {
		return
	}

	logs, err := h.workLogService.MachineHistory(c.Request.Context(), machineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, logs)
}
