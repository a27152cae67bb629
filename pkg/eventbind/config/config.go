package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultScopeFilterOrder runs the scope filter ahead of most user filters.
const DefaultScopeFilterOrder = -105

// Journal drivers.
const (
	JournalMemory = "memory"
	JournalSQLite = "sqlite"
	JournalNone   = "none"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config configures a dispatcher.
type Config struct {
	// ScopeFilterOrder is the order of the scope filter in the filter chain.
	ScopeFilterOrder int `env:"SCOPE_FILTER_ORDER"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL"`

	// Metrics enables OpenTelemetry metrics.
	Metrics bool `env:"METRICS"`

	// Tracing enables OpenTelemetry tracing.
	Tracing bool `env:"TRACING"`

	// StopOnError stops invoking further handlers for an event once one fails.
	StopOnError bool `env:"STOP_ON_ERROR"`

	Journal JournalConfig `envPrefix:"JOURNAL_"`
}

// JournalConfig selects the failure journal backend.
type JournalConfig struct {
	// Driver is memory, sqlite or none.
	Driver string `env:"DRIVER"`

	// Path is the database file for the sqlite driver.
	Path string `env:"PATH"`

	// MaxEntries bounds the memory driver; 0 means unbounded.
	MaxEntries int `env:"MAX_ENTRIES"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ScopeFilterOrder: DefaultScopeFilterOrder,
		LogLevel:         "info",
		Journal: JournalConfig{
			Driver:     JournalMemory,
			MaxEntries: 1000,
		},
	}
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	var errs []error
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Journal.Driver {
	case JournalMemory, JournalNone:
	case JournalSQLite:
		if c.Journal.Path == "" {
			errs = append(errs, fmt.Errorf("%w: journal.path is required for the sqlite driver", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown journal.driver %q", ErrInvalid, c.Journal.Driver))
	}
	if c.Journal.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: journal.max_entries must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

// SlogLevel returns LogLevel as a slog.Level. Unknown levels map to info.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log_level %q", ErrInvalid, s)
	}
}
