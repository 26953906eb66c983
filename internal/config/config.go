// Package config holds plantops user configuration, loaded from
// ~/.plantops/config.json. This is the single source of truth for
// configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UserConfig holds ALL plantops configuration from config.json.
type UserConfig struct {
	// BackendURL is the dashboard API base address.
	// Defaults to http://localhost:8000.
	BackendURL string `json:"backend_url,omitempty"`

	// DownloadsDir is where downloaded report documents are saved.
	// Defaults to <config dir>/downloads.
	DownloadsDir string `json:"downloads_dir,omitempty"`

	// Theme for the TUI ("light" or "dark")
	Theme string `json:"theme,omitempty"`

	// PollIntervalSeconds overrides the confirmation-poll interval.
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty"`

	// PollMaxAttempts overrides the confirmation-poll attempt budget.
	PollMaxAttempts int `json:"poll_max_attempts,omitempty"`

	// OfflineMode forces the deterministic mock data provider even when the
	// backend is reachable. Useful for demos and development.
	OfflineMode bool `json:"offline_mode,omitempty"`

	// Logging configuration (read by internal/logging)
	Logging *LoggingConfig `json:"logging,omitempty"`
}

// LoggingConfig controls the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// DefaultConfigDir returns the plantops config directory, honoring the
// PLANTOPS_HOME override.
func DefaultConfigDir() string {
	if dir := os.Getenv("PLANTOPS_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".plantops"
	}
	return filepath.Join(home, ".plantops")
}

// DefaultConfigPath returns the path of config.json.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads configuration from the given path. A missing file yields the
// zero config (all defaults) rather than an error.
func Load(path string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes configuration to the given path, creating the directory if
// needed.
func (c *UserConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ResolvedBackendURL returns the backend address, honoring the
// PLANTOPS_BACKEND_URL override.
func (c *UserConfig) ResolvedBackendURL() string {
	if url := os.Getenv("PLANTOPS_BACKEND_URL"); url != "" {
		return url
	}
	if c.BackendURL != "" {
		return c.BackendURL
	}
	return "http://localhost:8000"
}

// ResolvedDownloadsDir returns the downloads directory.
func (c *UserConfig) ResolvedDownloadsDir() string {
	if c.DownloadsDir != "" {
		return c.DownloadsDir
	}
	return filepath.Join(DefaultConfigDir(), "downloads")
}

// ResolvedPollInterval returns the confirmation-poll interval.
func (c *UserConfig) ResolvedPollInterval() time.Duration {
	if c.PollIntervalSeconds > 0 {
		return time.Duration(c.PollIntervalSeconds) * time.Second
	}
	return 3 * time.Second
}

// ResolvedPollMaxAttempts returns the confirmation-poll attempt budget.
func (c *UserConfig) ResolvedPollMaxAttempts() int {
	if c.PollMaxAttempts > 0 {
		return c.PollMaxAttempts
	}
	return 10
}
