package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/flagx"
	"github.com/dmitrijs2005/mindjournal/internal/timex"
)

// JsonConfig is the on-disk shape of a config file. Durations accept both
// "20s" strings and integer nanoseconds. Empty fields leave the current
// value untouched.
type JsonConfig struct {
	HTTPAddr                string         `json:"http_addr"`
	Backend                 string         `json:"backend"`
	DataDir                 string         `json:"data_dir"`
	SQLiteDSN               string         `json:"sqlite_dsn"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionTTL              timex.Duration `json:"session_ttl"`
	ReflectionAPIKey        string         `json:"reflection_api_key"`
	ReflectionBaseURL       string         `json:"reflection_base_url"`
	ReflectionModel         string         `json:"reflection_model"`
	ReflectionTimeout       timex.Duration `json:"reflection_timeout"`
	ReflectionRatePerMinute int            `json:"reflection_rate_per_minute"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	LogFormat               string         `json:"log_format"`
	AllowedOrigins          []string       `json:"allowed_origins"`
}

// parseJson loads the file named by -c or -config, if any, into config.
// A missing or malformed file panics.
func parseJson(config *Config, args []string) {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.Backend, c.Backend)
	setString(&config.DataDir, c.DataDir)
	setString(&config.SQLiteDSN, c.SQLiteDSN)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.SessionTTL, c.SessionTTL.Duration)
	setString(&config.ReflectionAPIKey, c.ReflectionAPIKey)
	setString(&config.ReflectionBaseURL, c.ReflectionBaseURL)
	setString(&config.ReflectionModel, c.ReflectionModel)
	setDuration(&config.ReflectionTimeout, c.ReflectionTimeout.Duration)
	if c.ReflectionRatePerMinute > 0 {
		config.ReflectionRatePerMinute = c.ReflectionRatePerMinute
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogFormat, c.LogFormat)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
