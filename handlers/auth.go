package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studentportal/portal/backend/go-services/internal/sessions"
	"github.com/studentportal/portal/backend/go-services/internal/users"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
	"github.com/studentportal/portal/backend/go-services/pkg/metrics"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(u *users.Service, s *sessions.Service) *AuthHandler {
	return &AuthHandler{usersSvc: u, sessionsSvc: s}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
}

// Login checks email and password and returns a fresh bearer token. Any
// token the account held before stops working.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// unreadable bodies count as missing fields
		req = LoginRequest{}
	}
	if req.Email == "" || req.Password == "" {
		metrics.LoginAttempts.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	account, err := h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		logger.Errorf("login: account lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := h.sessionsSvc.Issue(c.Request.Context(), account)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		logger.Errorf("login: failed to issue token for account %d: %v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.Infof("login: account %d signed in", account.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":    account.ID,
			"email": account.Email,
		},
		"token": token,
	})
}
