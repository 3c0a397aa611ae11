package config

import (
	"os"
	"strings"
)

// FreeWindowPolicy values: what happens when a free-plan user's one-month
// access window elapses.
const (
	// FreeWindowLock keeps the account locked out of new analysis sessions
	// until the user upgrades.
	FreeWindowLock = "lock"
	// FreeWindowReset starts a fresh 30-day window with a zeroed counter.
	FreeWindowReset = "reset"
)

type Config struct {
	PostgresURI string
	RedisURI    string
	MongoURI    string

	Port           string
	Environment    string // ENV: production, development, etc.
	AllowedOrigins []string

	// AllowedHost, when set in production, rejects requests whose Host
	// header does not match it.
	AllowedHost string

	EncryptionKey string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// FreeWindowPolicy is FreeWindowLock or FreeWindowReset.
	FreeWindowPolicy string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	policy := strings.ToLower(strings.TrimSpace(getEnv("FREE_WINDOW_POLICY", FreeWindowLock)))
	if policy != FreeWindowReset {
		policy = FreeWindowLock
	}

	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", "postgres://localhost:5432/ai_coach?sslmode=disable"),
		RedisURI:    getEnv("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:    getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/ai_coach")),

		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		AllowedOrigins: allowedOrigins,
		AllowedHost:    getEnv("ALLOWED_HOST", ""),

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		FreeWindowPolicy: policy,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
