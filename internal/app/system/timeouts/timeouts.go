// Package timeouts provides centralized timeout values for handler operations.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks against the document store
//   - Short: single-record reads and logins
//   - Medium: report submission (includes the remote classifier call)
//   - Long: startup work such as loading collections and ensuring indexes
package timeouts

import (
	"os"
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 15 * time.Second
	DefaultLong   = 30 * time.Second
)

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(current)
}

// Ping returns the timeout for store connectivity checks.
func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }

// Short returns the timeout for simple reads.
func Short() time.Duration { return get(func(c Config) time.Duration { return c.Short }) }

// Medium returns the timeout for writes that may wait on the remote classifier.
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }

// Long returns the timeout for startup and multi-collection work.
func Long() time.Duration { return get(func(c Config) time.Duration { return c.Long }) }

// Configure sets custom timeout values. Zero values in the config are ignored,
// keeping the current (or default) values. This should be called during
// application startup before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	setIfPositive(&current.Ping, cfg.Ping)
	setIfPositive(&current.Short, cfg.Short)
	setIfPositive(&current.Medium, cfg.Medium)
	setIfPositive(&current.Long, cfg.Long)
}

func setIfPositive(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// ConfigureFromEnv reads ADARSHGRAM_TIMEOUT_PING, _SHORT, _MEDIUM and _LONG
// (Go durations such as "500ms" or "2s"). Unset or invalid values are
// ignored. Returns the number of timeouts configured.
func ConfigureFromEnv() int {
	var cfg Config
	configured := 0
	for name, dst := range map[string]*time.Duration{
		"ADARSHGRAM_TIMEOUT_PING":   &cfg.Ping,
		"ADARSHGRAM_TIMEOUT_SHORT":  &cfg.Short,
		"ADARSHGRAM_TIMEOUT_MEDIUM": &cfg.Medium,
		"ADARSHGRAM_TIMEOUT_LONG":   &cfg.Long,
	} {
		if d, err := time.ParseDuration(os.Getenv(name)); err == nil && d > 0 {
			*dst = d
			configured++
		}
	}
	Configure(cfg)
	return configured
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
