package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/studentportal/portal/backend/go-services/handlers"
	"github.com/studentportal/portal/backend/go-services/internal/app"
	"github.com/studentportal/portal/backend/go-services/internal/config"
	"github.com/studentportal/portal/backend/go-services/internal/document/service"
	"github.com/studentportal/portal/backend/go-services/internal/sessions"
	"github.com/studentportal/portal/backend/go-services/internal/users"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
	"github.com/studentportal/portal/backend/go-services/pkg/metrics"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: driver=%s tokens=%s storage=%s", cfg.Database.Driver, cfg.Tokens.Store, cfg.Storage.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open stores: %v", err)
	}
	defer stores.Close(context.Background())
	// Fatalf skips deferred calls, so release the open stores first
	fatalf := func(format string, v ...interface{}) {
		stores.Close(context.Background())
		stop()
		logger.Fatalf(format, v...)
	}

	if err := stores.OpenBlobStore(ctx, cfg); err != nil {
		fatalf("failed to open blob storage: %v", err)
	}

	userSvc := users.NewService(stores.Accounts, cfg.Auth.BcryptCost)
	sessionsSvc := sessions.NewService(stores.Tokens, userSvc)
	docSvc := service.New(stores.Documents, stores.Blobs)

	if cfg.Auth.SeedDemoAccounts {
		n, err := userSvc.EnsureSeedAccounts(ctx, users.DemoSeeds)
		if err != nil {
			fatalf("failed to seed accounts: %v", err)
		}
		if n > 0 {
			logger.Infof("seed accounts ensured: %d created", n)
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := handlers.NewRouter(handlers.Dependencies{
		Config:    cfg,
		Users:     userSvc,
		Sessions:  sessionsSvc,
		Documents: docSvc,
		Readiness: stores.Readiness,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("starting student portal on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %v", err)
		}
	}
}
