package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/studentportal/portal/backend/go-services/handlers"
	"github.com/studentportal/portal/backend/go-services/internal/config"
	"github.com/studentportal/portal/backend/go-services/internal/database"
	"github.com/studentportal/portal/backend/go-services/internal/document/repository"
	"github.com/studentportal/portal/backend/go-services/internal/sessions"
	"github.com/studentportal/portal/backend/go-services/internal/storage"
	"github.com/studentportal/portal/backend/go-services/internal/users"
	"github.com/studentportal/portal/backend/go-services/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

const mongoConnectAttempts = 5

// Stores are the persistence backends selected by configuration.
type Stores struct {
	Accounts  users.Repository
	Tokens    sessions.Repository
	Documents repository.Repository
	Blobs     storage.BlobStore

	// Readiness lists one probe per external dependency.
	Readiness []handlers.ReadinessCheck

	closers []func(ctx context.Context) error
}

// OpenStores connects the account, token and document stores. Blob storage
// is left nil; see OpenBlobStore.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{}
	var tokensDB sessions.Repository

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.onClose(func(context.Context) error { return db.Close() })
		s.Accounts = users.NewSQLRepository(db)
		s.Documents = repository.NewSQLRepo(db)
		tokensDB = sessions.NewSQLRepository(db)
		s.addCheck("sqlite", func(ctx context.Context) error { return pingSQL(ctx, db) })
		logger.Infof("using sqlite database at %s", cfg.Database.SQLitePath)

	case config.DriverMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts,
			func(attempt int, err error) {
				logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, mongoConnectAttempts, err)
			})
		if err != nil {
			return nil, err
		}
		s.onClose(client.Disconnect)
		if err := s.openMongo(ctx, client.Database(cfg.MongoDB.Database), &tokensDB); err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.addCheck("mongodb", func(ctx context.Context) error { return client.Ping(ctx, nil) })
		logger.Infof("using MongoDB database %s", cfg.MongoDB.Database)

	case config.DriverMemory:
		s.Accounts = users.NewMemoryRepository()
		s.Documents = repository.NewMemoryRepo()
		tokensDB = sessions.NewMemoryRepository()
		logger.Warnf("using in-memory stores; nothing survives a restart")

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	s.Tokens = tokensDB
	if cfg.Tokens.Store == config.TokenStoreRedis {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			s.Close(ctx)
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr(), err)
		}
		s.onClose(func(context.Context) error { return rdb.Close() })
		s.Tokens = sessions.NewRedisRepository(rdb, cfg.Tokens.RedisPrefix)
		s.addCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Infof("using Redis for auth tokens: %s", cfg.Redis.Addr())
	}
	return s, nil
}

func (s *Stores) openMongo(ctx context.Context, db *mongo.Database, tokens *sessions.Repository) error {
	counters := db.Collection("counters")
	accounts, err := users.NewMongoRepository(ctx, db.Collection("users"), counters)
	if err != nil {
		return err
	}
	docs, err := repository.NewMongoRepo(ctx, db.Collection("documents"), counters)
	if err != nil {
		return err
	}
	toks, err := sessions.NewMongoRepository(ctx, db.Collection("auth_tokens"))
	if err != nil {
		return err
	}
	s.Accounts, s.Documents, *tokens = accounts, docs, toks
	return nil
}

// OpenBlobStore sets s.Blobs from the configured storage backend.
func (s *Stores) OpenBlobStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Backend {
	case config.StorageLocal:
		ls, err := storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			return err
		}
		s.Blobs = ls
		logger.Infof("storing uploads under %s", cfg.Storage.UploadDir)
	case config.StorageMinIO:
		mcfg := &storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		}
		ms, err := storage.NewMinIOStorage(ctx, mcfg)
		if err != nil {
			return err
		}
		s.Blobs = ms
		logger.Infof("storing uploads in MinIO bucket %s at %s", mcfg.Bucket, mcfg.Endpoint)
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	s.addCheck("storage", s.Blobs.Ping)
	return nil
}

// Close releases every opened backend in reverse order.
func (s *Stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			logger.Warnf("close: %v", err)
		}
	}
	s.closers = nil
}

func (s *Stores) onClose(fn func(ctx context.Context) error) {
	s.closers = append(s.closers, fn)
}

func (s *Stores) addCheck(name string, fn func(ctx context.Context) error) {
	s.Readiness = append(s.Readiness, handlers.ReadinessCheck{Name: name, Check: fn})
}

func pingSQL(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
