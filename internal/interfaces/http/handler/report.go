package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fieldserve/backend/internal/application/report"
	"github.com/fieldserve/backend/internal/domain/identity"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *report.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/technicians", h.Technicians)
		reports.GET("/tickets", h.Tickets)
		reports.GET("/customers", h.Customers)
		reports.GET("/equipment", h.Equipment)
		reports.GET("/revenue", h.Revenue)
		reports.GET("/service-quality", h.ServiceQuality)
	}
}

func (h *ReportHandler) serve(c *gin.Context, fn func(context.Context, *identity.User) (any, error)) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Technicians returns per-technician workload and hours
func (h *ReportHandler) Technicians(c *gin.Context) {
	h.serve(c, func(ctx context.Context, actor *identity.User) (any, error) {
		return h.reportService.TechnicianMetrics(ctx, actor)
	})
}

// Tickets returns ticket volume, resolution, and aging metrics
func (h *ReportHandler) Tickets(c *gin.Context) {
	h.serve(c, func(ctx context.Context, actor *identity.User) (any, error) {
		return h.reportService.TicketMetrics(ctx, actor)
	})
}

// Customers returns per-customer machine and service metrics
func (h *ReportHandler) Customers(c *gin.Context) {
	h.serve(c, func(ctx context.Context, actor *identity.User) (any, error) {
		return h.reportService.CustomerMetrics(ctx, actor)
	})
}

// Equipment returns per-machine-type service metrics
func (h *ReportHandler) Equipment(c *gin.Context) {
	h.serve(c, func(ctx context.Context, actor *identity.User) (any, error) {
		return h.reportService.EquipmentMetrics(ctx, actor)
	})
}

// Revenue returns revenue, cost, and margin by technician
func (h *ReportHandler) Revenue(c *gin.Context) {
	h.serve(c, func(ctx context.Context, actor *identity.User) (any, error) {
		return h.reportService.RevenueMetrics(ctx, actor)
	})
}

// ServiceQuality returns first-time-fix and resolution quality metrics
func (h *ReportHandler) ServiceQuality(c *gin.Context) {
	h.serve(c, func(ctx context.Context, actor *identity.User) (any, error) {
		return h.reportService.ServiceQualityMetrics(ctx, actor)
	})
}
