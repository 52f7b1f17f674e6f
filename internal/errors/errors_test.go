package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("user not found", nil), http.StatusNotFound},
		{"invalid input", InvalidInput("bad id", nil), http.StatusBadRequest},
		{"validation", ValidationError("bad role", nil), http.StatusBadRequest},
		{"forbidden", Forbidden("access denied", nil), http.StatusForbidden},
		{"unauthorized", Unauthorized("no token", nil), http.StatusUnauthorized},
		{"service", ServiceError("failed to calculate reliability score", nil), http.StatusInternalServerError},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("opportunity not found", nil)), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppError_UnwrapAndMessage(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ServiceError("failed to calculate leader performance", cause).WithOperation("ComputeLeaderPerformance")

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "ComputeLeaderPerformance", err.Operation)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "failed to calculate leader performance", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(cause))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("missing", nil)))
	assert.False(t, IsNotFound(ServiceError("failed", NotFound("missing", nil))))
	assert.True(t, IsForbidden(fmt.Errorf("check: %w", Forbidden("nope", nil))))
}
