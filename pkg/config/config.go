package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port                    string
	Env                     string
	Storage                 string
	MongoURI                string
	MongoDatabase           string
	PostgresUrl             string
	JWTSecret               string
	TokenTTL                time.Duration
	TokenHeader             string
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string
	UploadDir               string
	PublicUploadPath        string
	MaxUploadBytes          int64
	MetricsPort             string
	LogLevel                string
	LogJSON                 bool
	CORSOrigins             []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		Storage:                 strings.ToLower(getEnv("STORAGE", StorageMongo)),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "social-app"),
		PostgresUrl:             getEnv("POSTGRES_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", "change-me"),
		TokenTTL:                getDuration("TOKEN_TTL", 7*24*time.Hour),
		TokenHeader:             getEnv("TOKEN_HEADER", "x-auth-token"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		PublicUploadPath:        getEnv("PUBLIC_UPLOAD_PATH", "/uploads"),
		MaxUploadBytes:          getInt64("MAX_UPLOAD_BYTES", 5<<20),
		MetricsPort:             lookupEnv("METRICS_PORT", "9090"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogJSON:                 getBool("LOG_JSON", false),
		CORSOrigins:             splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv differs from getEnv in that an explicitly empty variable is kept.
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
