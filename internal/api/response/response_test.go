package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripgate/tripgate/internal/api/middleware"
	"github.com/tripgate/tripgate/internal/api/models"
	"github.com/tripgate/tripgate/internal/api/response"
)

// withRequestID runs the handler behind the request id middleware so responses
// carry a correlation header.
func withRequestID(h http.HandlerFunc) http.Handler {
	return middleware.RequestID(h)
}

func TestJSON_WritesBodyAndHeaders(t *testing.T) {
	handler := withRequestID(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"hello": "world"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestJSON_NilBody(t *testing.T) {
	handler := withRequestID(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusNoContent, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter, r *http.Request)
		status int
	}{
		{
			name: "bad request",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.BadRequest(w, r, "bad input", nil)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "not found",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.NotFound(w, r, "nothing here")
			},
			status: http.StatusNotFound,
		},
		{
			name: "internal error",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.InternalError(w, r, "boom")
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "bad gateway",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.BadGateway(w, r, "upstream said no")
			},
			status: http.StatusBadGateway,
		},
		{
			name: "service unavailable",
			write: func(w http.ResponseWriter, r *http.Request) {
				response.ServiceUnavailable(w, r, "try later")
			},
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := withRequestID(tt.write)

			req := httptest.NewRequest(http.MethodGet, "/some/path", http.NoBody)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

			var problem models.Problem
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
			assert.Equal(t, tt.status, problem.Status)
			assert.Equal(t, "/some/path", problem.Instance)
		})
	}
}
