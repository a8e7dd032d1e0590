package apierror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Is(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("login: %w", NewErrInvalidCredentials())

	assert.ErrorIs(t, wrapped, NewErrInvalidCredentials())
	assert.NotErrorIs(t, wrapped, NewErrTaskNotFound())
	assert.ErrorIs(t, NewErrMissingAuthorizationToken(), NewErrInvalidAuthorizationToken())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: NewErrValidation("title is required"), want: KindValidation},
		{name: "duplicate", err: NewErrEmailIsTaken(), want: KindDuplicateEmail},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", NewErrTaskNotFound()), want: KindNotFound},
		{name: "plain error", err: fmt.Errorf("boom"), want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestConstructors_StatusAndMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, NewErrEmailIsTaken().HTTPCode)
	assert.Equal(t, "User already exists", NewErrEmailIsTaken().Message)
	assert.Equal(t, http.StatusUnauthorized, NewErrInvalidCredentials().HTTPCode)
	assert.Equal(t, "Not authorized, no token", NewErrMissingAuthorizationToken().Error())
	assert.Equal(t, "Not authorized, invalid token", NewErrInvalidAuthorizationToken().Error())
	assert.Equal(t, http.StatusNotFound, NewErrTaskNotFound().HTTPCode)
	assert.Equal(t, "Not Found - /api/nope", NewErrRouteNotFound("/api/nope").Message)
}
