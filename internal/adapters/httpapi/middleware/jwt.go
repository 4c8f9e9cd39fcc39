package middleware

import (
	"net/http"
	"strings"

	"chirp/internal/core/errs"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user ID.
const ContextUserID = "userID"

// TokenVerifier resolves a bearer token to the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token.
// A missing or malformed header is 401, a token that fails verification 403.
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errs.ErrUnauthenticated.Error()})
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errs.ErrInvalidToken.Error()})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the ID stored by JWTAuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
