package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentDecode int

	// Upload limits
	MaxUploadBytes int64
	MaxUploadPages int

	// Job state
	JobTTL time.Duration

	// Storage
	DBPath string

	// Optional pathstore mirror; disabled when PathstoreURL is empty.
	PathstoreURL    string
	PathstoreAPIKey string
	PathstorePrefix string

	// PDF
	PDFFallbackPdftotext bool

	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCSIGHT_API_KEY"),

		WorkerCount:         envInt("WORKER_COUNT", 4),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentDecode: envInt("MAX_CONCURRENT_DECODE", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxUploadPages: envInt("MAX_UPLOAD_PAGES", 50),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		DBPath: envOr("DB_PATH", "docsight.db"),

		PathstoreURL:    os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),
		PathstorePrefix: envOr("PATHSTORE_PREFIX", "docsight"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentDecode <= 0 {
		cfg.MaxConcurrentDecode = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxUploadPages <= 0 {
		cfg.MaxUploadPages = 50
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// MirrorEnabled reports whether results are mirrored to pathstore.
func (c Config) MirrorEnabled() bool {
	return c.PathstoreURL != ""
}

// Validate checks settings shared by every binary.
func (c Config) Validate() error {
	if c.MirrorEnabled() && c.PathstoreAPIKey == "" {
		return errors.New("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	return nil
}

// ValidateServer additionally checks settings only the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("DOCSIGHT_API_KEY is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	return nil
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
