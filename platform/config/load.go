package config

import (
	"strings"

	"github.com/joho/godotenv"
)

// Default scoring thresholds. Overridable through the environment but the
// reject < contact < hot ordering is always enforced.
const (
	defaultRejectThreshold  = 20
	defaultContactThreshold = 40
	defaultHotThreshold     = 70
)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := SplitCSV(GetEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(GetEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              GetEnv("APP_ENV", "development"),
		HTTPAddr:         GetEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      GetEnv("DATABASE_URL", ""),
		JWTAccessSecret:  GetEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(GetEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:         GetEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(GetEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   GetEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: GetEnvInt("ASYNQ_CONCURRENCY", 10),
		RejectThreshold:  GetEnvInt("REJECT_THRESHOLD", defaultRejectThreshold),
		ContactThreshold: GetEnvInt("CONTACT_THRESHOLD", defaultContactThreshold),
		HotThreshold:     GetEnvInt("HOT_THRESHOLD", defaultHotThreshold),
		PhoneRegion:      GetEnv("PHONE_REGION", "US"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
