package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/fieldserve/backend/internal/application/identity"
	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	userService  *appidentity.UserService
	statsService *appidentity.StatsService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService, statsService *appidentity.StatsService) *UserHandler {
	return &UserHandler{userService: userService, statsService: statsService}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/technicians", h.ListTechnicians)
		users.GET("/:id", h.Get)

		adminOnly := users.Group("", middleware.RequireRoles(identity.RoleAdmin))
		adminOnly.POST("", h.Create)
		adminOnly.PUT("/:id", h.Update)
		adminOnly.POST("/:id/stats/recalculate", h.RecalculateStats)
	}
}

// Create registers a new user account
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req appidentity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Get returns a single user
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List returns users with optional role and search filters
func (h *UserHandler) List(c *gin.Context) {
	var filter appidentity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, users, total, page, pageSize)
}

// ListTechnicians returns active technicians for assignment pickers
func (h *UserHandler) ListTechnicians(c *gin.Context) {
	technicians, err := h.userService.ListTechnicians(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, technicians)
}

// Update edits a user account
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appidentity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// RecalculateStats rebuilds a call admin's denormalized ticket counters
func (h *UserHandler) RecalculateStats(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.statsService.Recalculate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
