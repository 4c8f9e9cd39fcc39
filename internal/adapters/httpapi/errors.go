package httpapi

import (
	"errors"
	"net/http"

	"chirp/internal/core/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByKind = []struct {
	kind   error
	status int
}{
	{errs.ErrValidation, http.StatusBadRequest},
	{errs.ErrDuplicateUsername, http.StatusBadRequest},
	{errs.ErrInvalidCredentials, http.StatusUnauthorized},
	{errs.ErrUnauthenticated, http.StatusUnauthorized},
	{errs.ErrForbidden, http.StatusForbidden},
	{errs.ErrInvalidToken, http.StatusForbidden},
	{errs.ErrNotFound, http.StatusNotFound},
}

// statusOf maps an error kind to its HTTP status; anything unknown is a 500.
func statusOf(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg}. Internal failures are logged and
// answered with a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("❌ Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
