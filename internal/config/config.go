package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	DBType        string
	DataDir       string
	DBDSN         string
	MongoURI      string
	MongoDatabase string

	RedisAddr  string
	CacheTTL   time.Duration
	CORSOrigin []string

	AuthMode       string
	AuthToken      string
	AuthServiceURL string
	JWTSecret      string
	JWTTTL         time.Duration

	Timezone string

	OtelEnabled     bool
	OtelServiceName string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv reads the environment without memoization and validates the result.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8088"),
		DBType:          getEnv("STORAGE_BACKEND", "file"),
		DataDir:         getEnv("DATA_DIR", "data"),
		DBDSN:           getEnv("POSTGRES_DSN", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "polaris"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CacheTTL:        getDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),
		CORSOrigin:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:9002")),
		AuthMode:        getEnv("AUTH_MODE", "jwt"),
		AuthToken:       getEnv("AUTH_TOKEN", "MOCK-TOKEN"),
		AuthServiceURL:  getEnv("AUTH_SERVICE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTTTL:          getDuration("JWT_TTL", 24*time.Hour),
		Timezone:        getEnv("APP_TIMEZONE", ""),
		OtelEnabled:     getBool("OTEL_ENABLED", false),
		OtelServiceName: getEnv("OTEL_SERVICE_NAME", "polaris"),
	}
	if c.JWTSecret == "" && c.Env == "development" {
		c.JWTSecret = "dev-secret-change-me"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "file":
		if c.DataDir == "" {
			return errors.New("file storage requires DATA_DIR to be set")
		}
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORAGE_BACKEND=mongo")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, postgres, mongo")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.AuthMode {
	case "jwt":
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case "local":
		if c.AuthToken == "" {
			return errors.New("AUTH_TOKEN is required when AUTH_MODE=local")
		}
	case "remote":
		if c.AuthServiceURL == "" {
			return errors.New("AUTH_SERVICE_URL is required when AUTH_MODE=remote")
		}
	default:
		return errors.New("AUTH_MODE must be one of: jwt, local, remote")
	}
	if _, err := c.Location(); err != nil {
		return errors.New("APP_TIMEZONE is not a valid IANA zone: " + err.Error())
	}
	return nil
}

// Location is the zone whose midnight delimits journal days.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
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
