package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/infrastructure/auth"
	"github.com/fieldserve/backend/internal/interfaces/http/dto"
)

// Context keys and header constants for authentication
const (
	CurrentUserKey = "current_user"
	JWTClaimsKey   = "jwt_claims"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTAuth validates the bearer token and loads the authenticated user
// into the request context. Disabled users are rejected even when their
// token is still valid.
func JWTAuth(jwtService *auth.JWTService, userRepo identity.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Missing token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Token validation failed")
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token carries no valid user id")
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Unknown user")
			return
		}
		if user.Disabled {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Account is disabled", GetRequestID(c)))
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireRoles rejects requests whose authenticated user has none of
// the given roles. Must run after JWTAuth.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Insufficient role", GetRequestID(c)))
	}
}

// CurrentUser returns the authenticated user loaded by JWTAuth
func CurrentUser(c *gin.Context) (*identity.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*identity.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
