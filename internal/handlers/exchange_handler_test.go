package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"obmenBack/internal/models"
)

func TestExchangeErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrSameAd, http.StatusBadRequest},
		{models.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("%w: details", models.ErrValidation), http.StatusBadRequest},
		{models.ErrUnauthenticated, http.StatusUnauthorized},
		{models.ErrPermissionDenied, http.StatusForbidden},
		{models.ErrProposalNotFound, http.StatusNotFound},
		{models.ErrAdNotFound, http.StatusNotFound},
		{models.ErrInvalidStatus, http.StatusConflict},
		{errors.New("generic error"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := exchangeErrorStatus(tc.err); got != tc.want {
			t.Errorf("exchangeErrorStatus(%v): got %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestUserErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrValidation, http.StatusBadRequest},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrSessionNotFound, http.StatusUnauthorized},
		{models.ErrPermissionDenied, http.StatusForbidden},
		{models.ErrUserNotFound, http.StatusNotFound},
		{models.ErrDuplicateEmail, http.StatusConflict},
		{errors.New("generic error"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := userErrorStatus(tc.err); got != tc.want {
			t.Errorf("userErrorStatus(%v): got %d, want %d", tc.err, got, tc.want)
		}
	}
}
