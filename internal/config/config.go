package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env  string
	Port int

	StorageDriver string
	DBURL         string
	DBMaxConns    int32

	JWTSecret             string
	JWTAlgorithm          string
	AccessTokenTTLMinutes int
	BcryptCost            int

	AllowedOrigins []string
	MaxBodyBytes   int64

	AuthRateLimit         int
	AuthRateWindowSeconds int

	// per user; 0 disables
	BookingRateLimit         int
	BookingRateWindowSeconds int

	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RoomsCacheTTLSeconds int

	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64

	// memory storage and cmd/seed
	SeedOnStart bool
}

// Load reads the environment, after merging an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DBURL:         getEnv("DB_URL", buildDBURL()),
		DBMaxConns:    int32(getEnvInt("DB_MAX_CONNS", 5)),

		JWTSecret:             getEnv("SECRET_KEY", "secret"),
		JWTAlgorithm:          getEnv("ALGORITHM", "HS256"),
		AccessTokenTTLMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 180),
		BcryptCost:            getEnvInt("BCRYPT_COST", 10),

		AllowedOrigins: getEnvList("ALLOWED_HOSTS", []string{"http://localhost:5173"}),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		AuthRateLimit:         getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindowSeconds: getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60),

		BookingRateLimit:         getEnvInt("BOOKING_RATE_LIMIT", 30),
		BookingRateWindowSeconds: getEnvInt("BOOKING_RATE_WINDOW_SECONDS", 60),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RoomsCacheTTLSeconds: getEnvInt("ROOMS_CACHE_TTL_SECONDS", 60),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1),

		SeedOnStart: getEnvBool("SEED_ON_START", false),
	}
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

func (c Config) RoomsCacheTTL() time.Duration {
	return time.Duration(c.RoomsCacheTTLSeconds) * time.Second
}

func (c Config) AuthRateWindow() time.Duration {
	return time.Duration(c.AuthRateWindowSeconds) * time.Second
}

func (c Config) BookingRateWindow() time.Duration {
	return time.Duration(c.BookingRateWindowSeconds) * time.Second
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "roomhub")
	pass := getEnv("DB_PASSWORD", "roomhub")
	name := getEnv("DB_NAME", "roomhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env var, using fallback", "key", key, "value", v, "fallback", fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float env var, using fallback", "key", key, "value", v, "fallback", fallback)
			return fallback
		}
		return f
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using fallback", "key", key, "value", v, "fallback", fallback)
			return fallback
		}
		return b
	}
	return fallback
}

// comma separated, blanks dropped
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
