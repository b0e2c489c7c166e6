package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	TokenStoreDatabase = "database"
	TokenStoreRedis    = "redis"

	StorageLocal = "local"
	StorageMinIO = "minio"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Tokens   TokensConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxUploadMB  int64
}

type DatabaseConfig struct {
	Driver     string
	SQLitePath string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the Redis client.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type TokensConfig struct {
	Store       string
	RedisPrefix string
}

type StorageConfig struct {
	Backend   string
	UploadDir string
}

// MinIOConfig is read only when STORAGE_BACKEND=minio.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type AuthConfig struct {
	BcryptCost       int
	SeedDemoAccounts bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("MAX_UPLOAD_MB", 32)
	viper.SetDefault("DATABASE_DRIVER", DriverSQLite)
	viper.SetDefault("SQLITE_PATH", "student_portal.db")
	viper.SetDefault("MONGODB_DATABASE", "student_portal")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TOKEN_STORE", TokenStoreDatabase)
	viper.SetDefault("TOKEN_REDIS_PREFIX", "auth:")
	viper.SetDefault("STORAGE_BACKEND", StorageLocal)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MINIO_BUCKET", "student-portal-uploads")
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("SEED_DEMO_ACCOUNTS", true)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", strings.Join(defaultOrigins, ","))

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(viper.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
			MaxUploadMB:  viper.GetInt64("MAX_UPLOAD_MB"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(viper.GetString("DATABASE_DRIVER")),
			SQLitePath: viper.GetString("SQLITE_PATH"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Tokens: TokensConfig{
			Store:       strings.ToLower(viper.GetString("TOKEN_STORE")),
			RedisPrefix: viper.GetString("TOKEN_REDIS_PREFIX"),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(viper.GetString("STORAGE_BACKEND")),
			UploadDir: viper.GetString("UPLOAD_DIR"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		Auth: AuthConfig{
			BcryptCost:       viper.GetInt("BCRYPT_COST"),
			SeedDemoAccounts: viper.GetBool("SEED_DEMO_ACCOUNTS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend selections and their required settings.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for driver %q", DriverSQLite)
		}
	case DriverMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required for driver %q", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.Database.Driver)
	}

	switch c.Tokens.Store {
	case TokenStoreDatabase:
	case TokenStoreRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for TOKEN_STORE=%s", TokenStoreRedis)
		}
	default:
		return fmt.Errorf("unknown TOKEN_STORE %q", c.Tokens.Store)
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for backend %q", StorageLocal)
		}
	case StorageMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for backend %q", StorageMinIO)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
