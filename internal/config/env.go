package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// envConfig mirrors the JOURNAL_* environment variables.
type envConfig struct {
	HTTPAddr                string        `env:"JOURNAL_HTTP_ADDR"`
	Backend                 string        `env:"JOURNAL_BACKEND"`
	DataDir                 string        `env:"JOURNAL_DATA_DIR"`
	SQLiteDSN               string        `env:"JOURNAL_SQLITE_DSN"`
	DatabaseDSN             string        `env:"JOURNAL_DATABASE_DSN"`
	SecretKey               string        `env:"JOURNAL_SECRET_KEY"`
	SessionTTL              time.Duration `env:"JOURNAL_SESSION_TTL"`
	ReflectionAPIKey        string        `env:"JOURNAL_REFLECTION_API_KEY"`
	ReflectionBaseURL       string        `env:"JOURNAL_REFLECTION_BASE_URL"`
	ReflectionModel         string        `env:"JOURNAL_REFLECTION_MODEL"`
	ReflectionTimeout       time.Duration `env:"JOURNAL_REFLECTION_TIMEOUT"`
	ReflectionRatePerMinute int           `env:"JOURNAL_REFLECTION_RATE_PER_MINUTE"`
	S3RootUser              string        `env:"JOURNAL_S3_ROOT_USER"`
	S3RootPassword          string        `env:"JOURNAL_S3_ROOT_PASSWORD"`
	S3Bucket                string        `env:"JOURNAL_S3_BUCKET"`
	S3Region                string        `env:"JOURNAL_S3_REGION"`
	S3BaseEndpoint          string        `env:"JOURNAL_S3_BASE_ENDPOINT"`
	LogFormat               string        `env:"JOURNAL_LOG_FORMAT"`
	AllowedOrigins          string        `env:"JOURNAL_ALLOWED_ORIGINS"`
}

// Well-known names for the reflection key, checked when
// JOURNAL_REFLECTION_API_KEY is unset.
var apiKeyFallbacks = []string{"GEMINI_API_KEY", "API_KEY"}

var (
	loadDotenv = func() error { return godotenv.Load() }
	decodeEnv  = envdecode.Decode
)

// parseEnv overlays environment variables onto config. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment take precedence over it.
func parseEnv(config *Config) {
	if err := loadDotenv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	var e envConfig
	if err := decodeEnv(&e); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		panic(err)
	}

	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.Backend, e.Backend)
	setString(&config.DataDir, e.DataDir)
	setString(&config.SQLiteDSN, e.SQLiteDSN)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	setDuration(&config.SessionTTL, e.SessionTTL)
	setString(&config.ReflectionBaseURL, e.ReflectionBaseURL)
	setString(&config.ReflectionModel, e.ReflectionModel)
	setDuration(&config.ReflectionTimeout, e.ReflectionTimeout)
	if e.ReflectionRatePerMinute > 0 {
		config.ReflectionRatePerMinute = e.ReflectionRatePerMinute
	}
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	setString(&config.LogFormat, e.LogFormat)
	if e.AllowedOrigins != "" {
		config.AllowedOrigins = splitList(e.AllowedOrigins)
	}

	if e.ReflectionAPIKey != "" {
		config.ReflectionAPIKey = e.ReflectionAPIKey
		return
	}
	for _, name := range apiKeyFallbacks {
		if v := os.Getenv(name); v != "" {
			config.ReflectionAPIKey = v
			return
		}
	}
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
