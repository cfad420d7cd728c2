package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/corepassmd/internal/coreid"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Rewrite defaults, overridable per request.
	EnableIcanCheck    bool
	EnableSkipOverride bool
	NegationStyle      string

	// Optional YAML file layered over the env rewrite defaults.
	OptionsFile string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("COREPASS_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		EnableIcanCheck:    envBool("ENABLE_ICAN_CHECK", true),
		EnableSkipOverride: envBool("ENABLE_SKIP_OVERRIDE", true),
		NegationStyle:      envOr("NEGATION_STYLE", string(coreid.NegateStrikethrough)),

		OptionsFile: os.Getenv("OPTIONS_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("COREPASS_API_KEY is required")
	}
	if _, err := coreid.ParseNegationStyle(c.NegationStyle); err != nil {
		return fmt.Errorf("NEGATION_STYLE: %w", err)
	}
	return nil
}

// RewriteOptions builds the default rewrite options: env values first, then
// the options file when one is configured.
func (c Config) RewriteOptions() (coreid.Options, error) {
	opts := coreid.DefaultOptions()
	opts.EnableValidityCheck = c.EnableIcanCheck
	opts.EnableSkipOverride = c.EnableSkipOverride

	style, err := coreid.ParseNegationStyle(c.NegationStyle)
	if err != nil {
		return opts, fmt.Errorf("NEGATION_STYLE: %w", err)
	}
	opts.Negation = style

	if c.OptionsFile == "" {
		return opts, nil
	}
	return LoadOptionsFile(c.OptionsFile, opts)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
