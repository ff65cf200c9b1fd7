package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Persistence   PersistenceConfig   `yaml:"persistence"`
	Courses       CoursesConfig       `yaml:"courses"`
}

// PostgresConfig holds Postgres configuration. An empty DSN runs every round
// offline.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL publishes in process.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// ScoringConfig holds live round timings.
type ScoringConfig struct {
	LeaderboardDebounce      time.Duration `yaml:"leaderboard_debounce"`
	AutoAdvanceDelay         time.Duration `yaml:"auto_advance_delay"`
	ScrambleAutoAdvanceDelay time.Duration `yaml:"scramble_auto_advance_delay"`
	MinDrivesPerPlayer       int           `yaml:"min_drives_per_player"`
}

// PersistenceConfig holds remote scorecard settings.
type PersistenceConfig struct {
	RemoteTimeout    time.Duration `yaml:"remote_timeout"`
	WriteRetries     int           `yaml:"write_retries"`
	RetryBackoff     time.Duration `yaml:"retry_backoff"`
	QueueEnabled     bool          `yaml:"queue_enabled"`
	QueueMaxAttempts int           `yaml:"queue_max_attempts"`
	QueueMaxWorkers  int           `yaml:"queue_max_workers"`
}

// CoursesConfig lists course files loaded at startup. They are served from
// memory when no database is configured and imported otherwise.
type CoursesConfig struct {
	Files []string `yaml:"files"`
}

// LoadConfig loads the configuration from a YAML file. When the file does not
// exist the configuration comes from environment variables alone.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv overrides file values with environment variables that are set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT value: %w", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_BURST value: %w", err)
		}
		cfg.HTTP.RateBurst = n
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"LEADERBOARD_DEBOUNCE", &cfg.Scoring.LeaderboardDebounce},
		{"AUTO_ADVANCE_DELAY", &cfg.Scoring.AutoAdvanceDelay},
		{"SCRAMBLE_AUTO_ADVANCE_DELAY", &cfg.Scoring.ScrambleAutoAdvanceDelay},
		{"REMOTE_TIMEOUT", &cfg.Persistence.RemoteTimeout},
		{"RETRY_BACKOFF", &cfg.Persistence.RetryBackoff},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", d.env, err)
		}
		*d.dst = parsed
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"MIN_DRIVES_PER_PLAYER", &cfg.Scoring.MinDrivesPerPlayer},
		{"WRITE_RETRIES", &cfg.Persistence.WriteRetries},
		{"QUEUE_MAX_ATTEMPTS", &cfg.Persistence.QueueMaxAttempts},
		{"QUEUE_MAX_WORKERS", &cfg.Persistence.QueueMaxWorkers},
	}
	for _, i := range ints {
		v := os.Getenv(i.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", i.env, err)
		}
		*i.dst = n
	}

	if v := os.Getenv("COURSE_FILES"); v != "" {
		cfg.Courses.Files = splitList(v)
	}
	if v := os.Getenv("QUEUE_ENABLED"); v != "" {
		cfg.Persistence.QueueEnabled = v == "true"
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 10
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 20
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Scoring.LeaderboardDebounce <= 0 {
		c.Scoring.LeaderboardDebounce = 500 * time.Millisecond
	}
	if c.Scoring.AutoAdvanceDelay <= 0 {
		c.Scoring.AutoAdvanceDelay = 500 * time.Millisecond
	}
	if c.Scoring.ScrambleAutoAdvanceDelay <= 0 {
		c.Scoring.ScrambleAutoAdvanceDelay = 1500 * time.Millisecond
	}
	if c.Persistence.RemoteTimeout <= 0 {
		c.Persistence.RemoteTimeout = 5 * time.Second
	}
	if c.Persistence.WriteRetries <= 0 {
		c.Persistence.WriteRetries = 3
	}
	if c.Persistence.RetryBackoff <= 0 {
		c.Persistence.RetryBackoff = 250 * time.Millisecond
	}
	if c.Persistence.QueueMaxAttempts <= 0 {
		c.Persistence.QueueMaxAttempts = 10
	}
	if c.Persistence.QueueMaxWorkers <= 0 {
		c.Persistence.QueueMaxWorkers = 25
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
