package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"chirp/internal/core/errs"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errs.Validation("content is required"), http.StatusBadRequest},
		{errs.New(errs.ErrDuplicateUsername, "username already exists"), http.StatusBadRequest},
		{errs.New(errs.ErrInvalidCredentials, "invalid credentials"), http.StatusUnauthorized},
		{errs.ErrUnauthenticated, http.StatusUnauthorized},
		{errs.ErrForbidden, http.StatusForbidden},
		{errs.New(errs.ErrInvalidToken, "invalid token"), http.StatusForbidden},
		{fmt.Errorf("find: %w", errs.NotFound("post not found")), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusOf(tc.err); got != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, got)
		}
	}
}
