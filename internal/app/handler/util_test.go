package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"budget/internal/app/apperr"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.Validation("email", "invalid"), http.StatusBadRequest},
		{fmt.Errorf("user 1: %w", apperr.ErrAlreadyExists), http.StatusBadRequest},
		{errMalformedID, http.StatusBadRequest},
		{fmt.Errorf("user 1: %w", apperr.ErrNotFound), http.StatusNotFound},
		{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperr.ErrUnauthorized, http.StatusUnauthorized},
		{apperr.StoreFailure(errors.New("boom"), "insert"), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, StatusCode(tt.err))
		})
	}
}

func TestWriteServiceError_HidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	writeServiceError(w, r, "Test", apperr.StoreFailure(errors.New("password=secret"), "connect"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestWriteServiceError_ListsFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	writeServiceError(w, r, "Test", apperr.Validation("phone", "must be 9 to 10 digits"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"must be 9 to 10 digits","param":"phone"}]}`, w.Body.String())
}
