package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *Error
		typ    ErrorType
		status int
	}{
		{"validation", ValidationError("bad input", nil), TypeValidation, http.StatusBadRequest},
		{"not found", NotFoundError("no such route"), TypeNotFound, http.StatusNotFound},
		{"rate limited", RateLimitedError("slow down"), TypeRateLimited, http.StatusTooManyRequests},
		{"unavailable", UnavailableError("redis down", cause), TypeUnavailable, http.StatusServiceUnavailable},
		{"internal", InternalError("failed", cause), TypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.NotNil(t, tt.err.Fields)
			assert.Contains(t, tt.err.Error(), string(tt.typ))
		})
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	err := InternalError("failed to publish", errors.New("broker down"))
	assert.Equal(t, "internal: failed to publish: broker down", err.Error())
}

func TestError_UnwrapSupportsIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := fmt.Errorf("outer: %w", ValidationError("wrapped", sentinel))

	assert.ErrorIs(t, err, sentinel)

	var structured *Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, TypeValidation, structured.Type)
}

func TestWithField(t *testing.T) {
	err := ValidationError("unsupported currency", nil).
		WithField("currency", "XYZ").
		WithField("supported", []string{"EUR", "USD"})

	resp := err.ToResponse()
	assert.Equal(t, "unsupported currency", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "XYZ", resp.Fields["currency"])
}

func TestWithField_NilMap(t *testing.T) {
	err := &Error{Type: TypeInternal, Message: "x"}
	err.WithField("k", "v")
	assert.Equal(t, "v", err.Fields["k"])
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	original := NotFoundError("missing")
	assert.Same(t, original, AsStructuredError(fmt.Errorf("wrap: %w", original)))

	plain := errors.New("plain")
	got := AsStructuredError(plain)
	assert.Equal(t, TypeInternal, got.Type)
	assert.Equal(t, "internal server error", got.Message)
	assert.Equal(t, plain, got.Cause)
}

func TestAsStructuredError_Mappers(t *testing.T) {
	sentinel := errors.New("unsupported currency")
	mapper := func(err error) *Error {
		if errors.Is(err, sentinel) {
			return ValidationError(err.Error(), err)
		}
		return nil
	}
	ignore := func(error) *Error { return nil }

	got := AsStructuredError(fmt.Errorf("get: %w", sentinel), ignore, mapper)
	assert.Equal(t, TypeValidation, got.Type)
	assert.Equal(t, "get: unsupported currency", got.Message)

	got = AsStructuredError(errors.New("other"), ignore, mapper)
	assert.Equal(t, TypeInternal, got.Type)
}
