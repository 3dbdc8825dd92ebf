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
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"no profile", NoProfile(), http.StatusBadRequest},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("Profile"), http.StatusNotFound},
		{"duplicate", Duplicate(), http.StatusConflict},
		{"unauthorized", Unauthorized("who"), http.StatusUnauthorized},
		{"wrapped duplicate", fmt.Errorf("express: %w", Duplicate()), http.StatusConflict},
		{"internal", Internal(errors.New("db down")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Duplicate())
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Interest already sent", PublicMessage(Duplicate()))
	assert.Equal(t, "Create at least one profile to express interest", PublicMessage(NoProfile()))
	assert.Equal(t, "Something went wrong", PublicMessage(Internal(errors.New("pq: relation missing"))))
	assert.Equal(t, "Something went wrong", PublicMessage(errors.New("raw")))
}

func TestValidationFields(t *testing.T) {
	one := ValidationFields(map[string]string{"phone": "Phone must be 10 digits"})
	assert.Equal(t, "Phone must be 10 digits", one.Message)

	many := ValidationFields(map[string]string{"a": "x", "b": "y"})
	assert.Equal(t, "Validation failed", many.Message)
	assert.Len(t, FieldErrors(many), 2)
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("cause")
	assert.ErrorIs(t, Internal(cause), cause)
}
