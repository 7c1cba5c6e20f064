package perrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/curaious/finca/internal/perrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want perrors.ErrCode
	}{
		{"not_found", fmt.Errorf("%w: plot", perrors.ErrNotFound), perrors.ErrCodeNotFound},
		{"unauthenticated", fmt.Errorf("%w: bad token", perrors.ErrUnauthenticated), perrors.ErrCodeUnauthorized},
		{"unauthorized", fmt.Errorf("%w: missing permission", perrors.ErrUnauthorized), perrors.ErrCodeForbidden},
		{"invalid_state", fmt.Errorf("%w: task is inactive", perrors.ErrInvalidState), perrors.ErrCodeInvalidState},
		{"validation", fmt.Errorf("%w: bad date", perrors.ErrValidation), perrors.ErrCodeInvalidRequest},
		{"configuration", fmt.Errorf("%w: status missing", perrors.ErrConfiguration), perrors.ErrCodeConfiguration},
		{"doubly_wrapped", fmt.Errorf("outer: %w", fmt.Errorf("%w: inner", perrors.ErrNotFound)), perrors.ErrCodeNotFound},
		{"unknown", errors.New("boom"), perrors.ErrCodeInternalServer},
		{"already_converted", perrors.NewErrInvalidRequest("Invalid body", errors.New("eof")), perrors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, perrors.CodeOf(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	err := perrors.FromError("Failed to delete task", fmt.Errorf("%w: task is inactive", perrors.ErrInvalidState))

	var perr perrors.Err
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadRequest, perr.HttpStatus())
	assert.Equal(t, "invalid_state", perr.Code.Code)
	assert.Equal(t, "invalid state: task is inactive", perr.Error())
	assert.Equal(t, "Failed to delete task", perr.Message)
	assert.NotEmpty(t, perr.Stacktrace)

	again := perrors.FromError("ignored", perr)
	assert.Equal(t, perr.Message, again.(perrors.Err).Message)
}

func TestNewWithoutCause(t *testing.T) {
	err := perrors.NewErrInternalServerError("Unexpected", nil)
	assert.Equal(t, "error missing", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.(perrors.Err).HttpStatus())
}
