// Package config loads the worker configuration from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"veoworker/internal/pkg/errors"
	"veoworker/internal/worker/util"
)

const (
	DefaultSheetName     = "Sheet1"
	DefaultSheetRange    = "A:I"
	DefaultVeoModel      = "veo-3.1-generate-preview"
	DefaultVeoAPIVersion = "v1beta"
	DefaultPollInterval  = 10 * time.Second
	DefaultMaxWait       = 60 * time.Second
	DefaultQueueName     = "veo:triggers"
)

// Version is reported by the API; set it at build time with
// -ldflags "-X veoworker/internal/config.Version=...".
var Version = "0.1.0"

type Config struct {
	SheetID             string
	ServiceAccountEmail string
	PrivateKey          string
	APIKey              string

	SheetName  string
	SheetRange string

	VeoModel      string
	VeoBaseURL    string
	VeoAPIVersion string
	PollInterval  time.Duration
	MaxWait       time.Duration

	MaxJobsPerRun int

	CronSecret  string
	DatabaseURL string
	RedisAddr   string
	QueueName   string
	HTTPPort    string
}

// ReadRange is the A1 range read on every invocation, e.g. "Sheet1!A:I".
func (c *Config) ReadRange() string {
	return c.SheetName + "!" + c.SheetRange
}

// Load reads the environment. Missing credentials, sheet id or API key
// produce a CONFIG_ERROR naming every absent variable; the returned Config
// is still filled with whatever was set.
func Load() (*Config, error) {
	c := &Config{
		SheetID:             strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID")),
		ServiceAccountEmail: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL")),
		PrivateKey:          UnescapePrivateKey(os.Getenv("GOOGLE_PRIVATE_KEY")),
		APIKey:              FirstAPIKey(os.Getenv("GOOGLE_API_KEY")),

		SheetName:  util.Env("SHEET_NAME", DefaultSheetName),
		SheetRange: util.Env("SHEET_RANGE", DefaultSheetRange),

		VeoModel:      util.Env("VEO_MODEL", DefaultVeoModel),
		VeoBaseURL:    strings.TrimRight(util.Env("VEO_BASE_URL", ""), "/"),
		VeoAPIVersion: util.Env("VEO_API_VERSION", DefaultVeoAPIVersion),
		PollInterval:  util.DurationEnv("VEO_POLL_INTERVAL", DefaultPollInterval),
		MaxWait:       util.DurationEnv("VEO_MAX_WAIT", DefaultMaxWait),

		MaxJobsPerRun: util.IntEnv("MAX_JOBS_PER_RUN", 1),

		CronSecret:  util.Env("CRON_SECRET", ""),
		DatabaseURL: util.Env("DATABASE_URL", ""),
		RedisAddr:   util.Env("REDIS_ADDR", ""),
		QueueName:   util.Env("JOB_QUEUE_NAME", DefaultQueueName),
		HTTPPort:    util.Env("HTTP_PORT", "8080"),
	}

	var missing []string
	if c.SheetID == "" {
		missing = append(missing, "GOOGLE_SHEET_ID")
	}
	if c.ServiceAccountEmail == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if strings.TrimSpace(c.PrivateKey) == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if c.APIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if len(missing) > 0 {
		return c, errors.MissingEnv(missing...)
	}

	return c, nil
}

// UnescapePrivateKey turns the literal two-character "\n" sequences of a
// single-line env value into real newlines.
func UnescapePrivateKey(raw string) string {
	return strings.ReplaceAll(raw, `\n`, "\n")
}

// FirstAPIKey picks the first key of a comma separated list.
func FirstAPIKey(raw string) string {
	keys := util.CSV(raw)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
