package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"http_addr":                  "www.example:9000",
		"backend":                    "postgres",
		"database_dsn":               "postgres://db",
		"secret_key":                 "my_secret_key",
		"session_ttl":                "90m",
		"reflection_api_key":         "key",
		"reflection_timeout":         5000000000,
		"reflection_rate_per_minute": 10,
		"s3_bucket":                  "bucket",
		"s3_region":                  "eu-west-1",
		"log_format":                 "zap",
		"allowed_origins":            []string{"https://journal.example"},
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "postgres", cfg.Backend)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
		assert.Equal(t, "key", cfg.ReflectionAPIKey)
		assert.Equal(t, 5*time.Second, cfg.ReflectionTimeout)
		assert.Equal(t, 10, cfg.ReflectionRatePerMinute)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "eu-west-1", cfg.S3Region)
		assert.Equal(t, "zap", cfg.LogFormat)
		assert.Equal(t, []string{"https://journal.example"}, cfg.AllowedOrigins)

		// untouched fields keep their defaults
		assert.Equal(t, "journal-data", cfg.DataDir)
		assert.Equal(t, "gemini-2.5-flash", cfg.ReflectionModel)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234", SessionTTL: time.Minute}
		parseJson(cfg, nil)
		assert.Equal(t, &Config{HTTPAddr: "defaults:1234", SessionTTL: time.Minute}, cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		cfg := &Config{}
		assert.Panics(t, func() { parseJson(cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
		cfg := &Config{}
		assert.Panics(t, func() { parseJson(cfg, []string{"-c", bad}) })
	})
}
