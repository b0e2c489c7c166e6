package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studentportal/portal/backend/go-services/internal/models"
	"github.com/studentportal/portal/backend/go-services/internal/sessions"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
	"github.com/studentportal/portal/backend/go-services/pkg/metrics"
)

// AccountIDKey holds the id of the account the bearer token resolved to. It
// is read by the request logger only.
const AccountIDKey = "auth.account_id"

const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired token"
)

// TokenValidator is the minimal interface the middleware depends on
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*models.Account, error)
}

// AuthRequired returns a Gin middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header before any handler runs.
func AuthRequired(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthGateDecisions.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgAuthRequired})
			return
		}

		account, err := v.Validate(c.Request.Context(), token)
		switch {
		case errors.Is(err, sessions.ErrMissingToken):
			metrics.AuthGateDecisions.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgAuthRequired})
			return
		case errors.Is(err, sessions.ErrInvalidToken):
			metrics.AuthGateDecisions.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidToken})
			return
		case err != nil:
			metrics.AuthGateDecisions.WithLabelValues("error").Inc()
			logger.Errorf("auth gate: token lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication check failed"})
			return
		}

		metrics.AuthGateDecisions.WithLabelValues("ok").Inc()
		c.Set(AccountIDKey, account.ID)
		c.Next()
	}
}

// bearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-sensitively and the token is trimmed.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
