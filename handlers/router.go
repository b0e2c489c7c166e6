package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/studentportal/portal/backend/go-services/internal/config"
	"github.com/studentportal/portal/backend/go-services/internal/document/handler"
	"github.com/studentportal/portal/backend/go-services/internal/document/service"
	"github.com/studentportal/portal/backend/go-services/internal/sessions"
	"github.com/studentportal/portal/backend/go-services/internal/users"
	"github.com/studentportal/portal/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

// ReadinessCheck is one dependency probed by GET /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies are the services the HTTP surface is assembled from.
type Dependencies struct {
	Config    *config.Config
	Users     *users.Service
	Sessions  *sessions.Service
	Documents service.Service
	Readiness []ReadinessCheck
}

// NewRouter builds the gin engine with global middleware, ambient endpoints
// and the portal API.
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	var uploadLimit int64
	if d.Config != nil && d.Config.Server.MaxUploadMB > 0 {
		uploadLimit = d.Config.Server.MaxUploadMB << 20
		r.MaxMultipartMemory = uploadLimit
	}

	var origins []string
	if d.Config != nil {
		origins = d.Config.CORS.AllowedOrigins
	}
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery(), middleware.CORS(origins))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readyHandler(d.Readiness))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterSwagger(r)

	api := r.Group("/api")
	NewAuthHandler(d.Users, d.Sessions).Register(api)

	docs := api.Group("/documents", middleware.AuthRequired(d.Sessions), middleware.BodyLimit(uploadLimit))
	handler.RegisterDocumentRoutes(docs, d.Documents)

	return r
}

// readyHandler returns 200 only when every configured dependency answers.
func readyHandler(checks []ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for _, rc := range checks {
			ok := rc.Check(ctx) == nil
			deps[rc.Name] = ok
			ready = ready && ok
		}

		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}
