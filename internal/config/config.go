// Package config handles the configuration directory, environment settings, and file paths.
package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "taskhub"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// DefaultAPIURL is the API base URL used when TASKHUB_API_URL is unset.
	DefaultAPIURL = "http://localhost:3000"

	// DefaultSettleDelay is the pause before re-reading the activity log
	// after a checklist toggle.
	DefaultSettleDelay = 500 * time.Millisecond
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the remote API.
	APIURL string

	// RedisURL selects the Redis session store when non-empty.
	RedisURL string

	// SessionKey names the stored session inside a shared store.
	SessionKey string

	// SettleDelay is the wait before the post-toggle activity log fetch.
	SettleDelay time.Duration

	// Timeout bounds each HTTP request. Zero waits indefinitely.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskhub or $HOME/.config/taskhub.
// Remaining settings come from TASKHUB_* environment variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:         dir,
		APIURL:      strings.TrimRight(getenv("TASKHUB_API_URL", DefaultAPIURL), "/"),
		RedisURL:    getenv("TASKHUB_REDIS_URL", ""),
		SessionKey:  getenv("TASKHUB_SESSION_KEY", "default"),
		SettleDelay: time.Duration(getenvInt("TASKHUB_SETTLE_MS", int(DefaultSettleDelay/time.Millisecond))) * time.Millisecond,
		Timeout:     time.Duration(getenvInt("TASKHUB_TIMEOUT_SECONDS", 0)) * time.Second,
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Logger returns the debug logger. It discards output unless Debug is set.
func (c *Config) Logger(w io.Writer) *log.Logger {
	if !c.Debug {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, "debug: ", log.Ltime|log.Lmicroseconds)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
