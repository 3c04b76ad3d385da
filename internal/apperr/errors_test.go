package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped invalid", fmt.Errorf("parse: %w", ErrInvalidInput), http.StatusBadRequest},
		{"conflict", ErrConflict, http.StatusConflict},
		{"unprocessable", ErrUnprocessable, http.StatusUnprocessableEntity},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"explicit code wins", New(ErrNotFound, http.StatusGone, "gone"), http.StatusGone},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrNotFound, http.StatusNotFound, "recipe %d not found", 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "not found: recipe 7 not found", err.Error())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "recipe 7 not found", Message(Newf(ErrNotFound, 0, "recipe %d not found", 7)))
	assert.Equal(t, "Internal server error", Message(errors.New("db exploded")))
	assert.Equal(t, "invalid input", Message(ErrInvalidInput))
}
