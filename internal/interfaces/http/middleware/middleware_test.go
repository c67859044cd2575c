package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/backend/internal/domain/identity"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates an id when none supplied", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/", func(c *gin.Context) {
			assert.NotEmpty(t, GetRequestID(c))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagates a caller-supplied id", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/", func(c *gin.Context) {
			assert.Equal(t, "req-from-caller", GetRequestID(c))
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-from-caller")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "req-from-caller", w.Header().Get(RequestIDHeader))
	})
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type ticketRef struct {
		Number string `binding:"ticket_number"`
	}

	assert.NoError(t, v.Struct(ticketRef{Number: "TKT-20260830-001"}))
	assert.Error(t, v.Struct(ticketRef{Number: "TKT-2026-1"}))
	assert.Error(t, v.Struct(ticketRef{Number: "20260830-001"}))
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(user *identity.User, roles ...identity.Role) *gin.Engine {
		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			if user != nil {
				c.Set(CurrentUserKey, user)
			}
		})
		engine.Use(RequireRoles(roles...))
		engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return engine
	}

	admin, err := identity.NewUser("Rita Vos", "rita@fieldserve.test", "s3cret-pass", identity.RoleAdmin)
	require.NoError(t, err)
	tech, err := identity.NewUser("Sam de Boer", "sam@fieldserve.test", "s3cret-pass", identity.RoleTechnician)
	require.NoError(t, err)

	t.Run("allows a matching role", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine(admin, identity.RoleAdmin, identity.RoleManagement).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a non-matching role", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine(tech, identity.RoleAdmin, identity.RoleManagement).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine(nil, identity.RoleAdmin).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
