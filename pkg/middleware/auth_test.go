package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/studentportal/portal/backend/go-services/internal/models"
	"github.com/studentportal/portal/backend/go-services/internal/sessions"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator implements TokenValidator
type fakeValidator struct {
	calls int
}

func (f *fakeValidator) Validate(ctx context.Context, token string) (*models.Account, error) {
	f.calls++
	switch token {
	case "goodtoken":
		return &models.Account{ID: 7, Email: "test@student.com"}, nil
	case "":
		return nil, sessions.ErrMissingToken
	case "dbdown":
		return nil, errors.New("connection refused")
	}
	return nil, sessions.ErrInvalidToken
}

func serveGate(t *testing.T, v TokenValidator, header string) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.GET("/", AuthRequired(v), func(c *gin.Context) {
		id, ok := c.Get(AccountIDKey)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"account": id})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func errorOf(t *testing.T, rw *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthRequired_RejectsMissingOrMalformedHeader(t *testing.T) {
	for _, h := range []string{"", "BadHeader", "Basic dXNlcjpwYXNz", "bearer goodtoken", "Bearer", "Bearer    "} {
		v := &fakeValidator{}
		rw := serveGate(t, v, h)
		require.Equal(t, http.StatusUnauthorized, rw.Code, "header %q", h)
		assert.Equal(t, "Authentication required", errorOf(t, rw), "header %q", h)
		assert.Zero(t, v.calls, "validator must not run for header %q", h)
	}
}

func TestAuthRequired_UnknownToken(t *testing.T) {
	rw := serveGate(t, &fakeValidator{}, "Bearer stale")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	assert.Equal(t, "Invalid or expired token", errorOf(t, rw))
}

func TestAuthRequired_ValidToken(t *testing.T) {
	rw := serveGate(t, &fakeValidator{}, "Bearer goodtoken  ")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, `{"account":7}`, rw.Body.String())
}

func TestAuthRequired_LookupFailure(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	rw := serveGate(t, &fakeValidator{}, "Bearer dbdown")
	require.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, buf.String(), "connection refused")
}

func TestAuthRequired_WithSessionService(t *testing.T) {
	accounts := &staticAccounts{a: &models.Account{ID: 1, Email: "test@student.com"}}
	svc := sessions.NewService(sessions.NewMemoryRepository(), accounts)
	ctx := context.Background()

	first, err := svc.Issue(ctx, accounts.a)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, accounts.a)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serveGate(t, svc, "Bearer "+first).Code)
	assert.Equal(t, http.StatusOK, serveGate(t, svc, "Bearer "+second).Code)
}

type staticAccounts struct{ a *models.Account }

func (s *staticAccounts) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if id == s.a.ID {
		return s.a, nil
	}
	return nil, nil
}
