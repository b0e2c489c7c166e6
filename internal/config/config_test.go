package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "student_portal.db", cfg.Database.SQLitePath)
	assert.Equal(t, TokenStoreDatabase, cfg.Tokens.Store)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.SeedDemoAccounts)
	assert.Equal(t, defaultOrigins, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "student-portal-uploads", cfg.MinIO.Bucket)
	assert.False(t, cfg.MinIO.UseSSL)
}

func TestLoadConfig_MinIO(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "portal")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_BUCKET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMinIO, cfg.Storage.Backend)
	assert.Equal(t, MinIOConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "portal",
		SecretKey: "secret",
		UseSSL:    true,
		Bucket:    "student-portal-uploads",
	}, cfg.MinIO)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("TOKEN_STORE", "redis")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("SEED_DEMO_ACCOUNTS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, TokenStoreRedis, cfg.Tokens.Store)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Auth.SeedDemoAccounts)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverMemory},
			Tokens:   TokensConfig{Store: TokenStoreDatabase},
			Storage:  StorageConfig{Backend: StorageLocal, UploadDir: "uploads"},
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.Database.Driver = "postgres"
	assert.Error(t, c.Validate())

	c = base()
	c.Database.Driver = DriverMongo
	assert.Error(t, c.Validate())

	c = base()
	c.Tokens.Store = TokenStoreRedis
	assert.Error(t, c.Validate())

	c = base()
	c.Storage.Backend = StorageMinIO
	assert.Error(t, c.Validate())
	c.MinIO.Endpoint = "localhost:9000"
	assert.NoError(t, c.Validate())

	c = base()
	c.Storage.Backend = "s3"
	assert.Error(t, c.Validate())
}
