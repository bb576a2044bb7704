package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripgate/tripgate/internal/api/models"
)

func TestProblem_Write(t *testing.T) {
	problem := models.NewBadRequest("req_123", "date must be in the format YYYY-MM-DD", []models.FieldError{
		{Field: "date", Message: "must be YYYY-MM-DD", Code: "format"},
	})
	problem.Instance = "/v1/routing/plan"

	w := httptest.NewRecorder()
	problem.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_123", w.Header().Get("X-Request-Id"))

	var decoded models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, models.ProblemTypeValidation, decoded.Type)
	assert.Equal(t, "Validation error", decoded.Title)
	assert.Equal(t, http.StatusBadRequest, decoded.Status)
	assert.Equal(t, "/v1/routing/plan", decoded.Instance)
	require.Len(t, decoded.Errors, 1)
	assert.Equal(t, "date", decoded.Errors[0].Field)
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		name     string
		problem  *models.Problem
		status   int
		probType string
	}{
		{"not found", models.NewNotFound("id", "gone"), http.StatusNotFound, models.ProblemTypeNotFound},
		{"too many requests", models.NewTooManyRequests("id", "slow down"), http.StatusTooManyRequests, models.ProblemTypeTooManyRequests},
		{"internal", models.NewInternalError("id", "boom"), http.StatusInternalServerError, models.ProblemTypeInternal},
		{"bad gateway", models.NewBadGateway("id", "upstream"), http.StatusBadGateway, models.ProblemTypeBadGateway},
		{"unavailable", models.NewServiceUnavailable("id", "later"), http.StatusServiceUnavailable, models.ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, tt.probType, tt.problem.Type)
			assert.Equal(t, "id", tt.problem.TraceID)
		})
	}
}
