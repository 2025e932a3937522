package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	ConnectTimeoutSec  int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	// Prefix is prepended to every object key so several installations can share a bucket.
	Prefix string
	UseSSL bool
}

// Media storage backends.
const (
	BackendLocal = "local"
	BackendMinIO = "minio"
)

// MediaConfig controls where uploads are staged and placed and how videos are checked.
type MediaConfig struct {
	// Backend is either BackendLocal (filesystem) or BackendMinIO (object storage).
	Backend string
	// StaticRoot is the public static-serving root; global uploads live under StaticRoot/uploads.
	StaticRoot string
	// DataDir is the per-installation data directory holding scoped uploads.
	DataDir string
	// TempDir receives staged uploads before validation.
	TempDir         string
	MaxVideoSeconds float64
	ProbeTimeout    time.Duration
	FFProbePath     string
	MaxUploadSizeMB int
}

// MusicConfig holds the music search provider settings.
type MusicConfig struct {
	ClientID     string
	ClientSecret string
	Market       string
	CacheTTL     time.Duration
}

// RedisConfig holds the optional Redis connection used for the music search cache.
// An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Timezone    string
	CORSOrigins []string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Media       MediaConfig
	Music       MusicConfig
	Redis       RedisConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	dataDir := getEnv("MEDIA_DATA_DIR", "instance")
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "memorybook"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Region:    getEnv("MINIO_REGION", ""),
			Prefix:    getEnv("MINIO_PREFIX", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Media: MediaConfig{
			Backend:         strings.ToLower(getEnv("MEDIA_BACKEND", BackendLocal)),
			StaticRoot:      getEnv("MEDIA_STATIC_ROOT", "static"),
			DataDir:         dataDir,
			TempDir:         getEnv("MEDIA_TEMP_DIR", dataDir+"/tmp"),
			MaxVideoSeconds: float64(getEnvInt("MEDIA_MAX_VIDEO_SECONDS", 30)),
			ProbeTimeout:    getEnvDuration("MEDIA_PROBE_TIMEOUT_SEC", 10*time.Second),
			FFProbePath:     getEnv("MEDIA_FFPROBE_PATH", "ffprobe"),
			MaxUploadSizeMB: getEnvInt("MAX_UPLOAD_SIZE_MB", 16),
		},
		Music: MusicConfig{
			ClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
			ClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
			Market:       getEnv("SPOTIFY_MARKET", "BR"),
			CacheTTL:     getEnvDuration("MUSIC_CACHE_TTL_SEC", 10*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration reads a whole number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
