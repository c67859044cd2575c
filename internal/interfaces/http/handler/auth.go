package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/fieldserve/backend/internal/application/identity"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
	}
}

// Login authenticates a user and issues an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var input appidentity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
