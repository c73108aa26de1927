package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreKind is the persistence backend chosen from DATABASE_URL.
type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreMongo    StoreKind = "mongo"
)

const (
	MediaDisk = "disk"
	MediaS3   = "s3"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Media    MediaConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	OpTimeout      time.Duration
	MaxUploadBytes int64
	CORSOrigins    []string
}

type DatabaseConfig struct {
	URL           string
	MongoDatabase string
}

type MediaConfig struct {
	Driver        string
	UploadDir     string
	PublicBaseURL string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3PublicURL   string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			OpTimeout:      getEnvAsDuration("OP_TIMEOUT", 5*time.Second),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 2<<20)),
			CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			URL:           os.Getenv("DATABASE_URL"),
			MongoDatabase: getEnv("MONGO_DATABASE", "folio"),
		},
		Media: MediaConfig{
			Driver:        strings.ToLower(getEnv("MEDIA_DRIVER", MediaDisk)),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
			S3Bucket:      os.Getenv("S3_BUCKET"),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:    os.Getenv("S3_ENDPOINT"),
			S3PublicURL:   os.Getenv("S3_PUBLIC_URL"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := c.Database.Kind(); err != nil {
		return err
	}
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.OpTimeout <= 0 {
		return fmt.Errorf("OP_TIMEOUT must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	switch c.Media.Driver {
	case MediaDisk:
		if c.Media.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the disk media driver")
		}
	case MediaS3:
		if c.Media.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 media driver")
		}
	default:
		return fmt.Errorf("unknown MEDIA_DRIVER %q", c.Media.Driver)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("unknown LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}

// Kind picks the backend from the URL scheme.
func (d DatabaseConfig) Kind() (StoreKind, error) {
	scheme, _, ok := strings.Cut(d.URL, "://")
	if !ok {
		return "", fmt.Errorf("DATABASE_URL has no scheme")
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return StorePostgres, nil
	case "mongodb", "mongodb+srv":
		return StoreMongo, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", scheme)
	}
}

// SlogLevel maps LOG_LEVEL onto slog. Unknown values fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
