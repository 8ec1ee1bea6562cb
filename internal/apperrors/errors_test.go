package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NotFound("session not found"), http.StatusNotFound},
		{Forbidden("not yours"), http.StatusForbidden},
		{InvalidReference("unknown tasks", []uint{3, 7}), http.StatusBadRequest},
		{Validation("bad input"), http.StatusBadRequest},
		{MalformedResult("missing task"), http.StatusInternalServerError},
		{Unavailable("store timeout", errors.New("deadline exceeded")), http.StatusServiceUnavailable},
		{Internal("boom", errors.New("cause")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
			assert.Equal(t, tt.want, StatusOf(tt.err))
			assert.Equal(t, tt.err.Kind, KindOf(tt.err))
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("fetching session: %w", NotFound("gone"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
}

func TestKindOf_PlainError(t *testing.T) {
	err := errors.New("driver: bad connection")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("store unreachable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
