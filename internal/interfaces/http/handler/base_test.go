package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/interfaces/http/dto"
	"github.com/fieldserve/backend/internal/interfaces/http/middleware"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	c, w := newTestContext(t)
	h := &BaseHandler{}

	h.Success(c, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerHandleError(t *testing.T) {
	t.Run("maps not-found domain errors to 404", func(t *testing.T) {
		c, w := newTestContext(t)
		h := &BaseHandler{}

		h.HandleError(c, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("maps assignment gate errors to 403", func(t *testing.T) {
		c, w := newTestContext(t)
		h := &BaseHandler{}

		h.HandleError(c, shared.NewDomainError("TICKET_NOT_ASSIGNED", "ticket is not assigned to you"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
		assert.Equal(t, "ticket is not assigned to you", resp.Error.Message)
	})

	t.Run("maps business-rule errors to 422", func(t *testing.T) {
		c, w := newTestContext(t)
		h := &BaseHandler{}

		h.HandleError(c, shared.NewDomainError("WORK_DETAILS_MISSING",
			"All machines must have work details logged before closing"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeBusinessRule, resp.Error.Code)
		assert.Equal(t, "All machines must have work details logged before closing", resp.Error.Message)
	})

	t.Run("hides non-domain errors behind a 500", func(t *testing.T) {
		c, w := newTestContext(t)
		h := &BaseHandler{}

		h.HandleError(c, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq:")
	})

	t.Run("includes the request id from the context", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Set(middleware.RequestIDKey, "req-abc")
		h := &BaseHandler{}

		h.HandleError(c, shared.ErrNotFound)

		resp := decodeResponse(t, w)
		assert.Equal(t, "req-abc", resp.Error.RequestID)
	})
}

func TestBaseHandlerParseID(t *testing.T) {
	t.Run("rejects malformed ids", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		h := &BaseHandler{}

		_, ok := h.parseID(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("accepts valid uuids", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Params = gin.Params{{Key: "id", Value: "7f9c01d2-5f90-4f7a-9f38-2f4f9d3f0c11"}}
		h := &BaseHandler{}

		id, ok := h.parseID(c)

		require.True(t, ok)
		assert.Equal(t, "7f9c01d2-5f90-4f7a-9f38-2f4f9d3f0c11", id.String())
	})
}
