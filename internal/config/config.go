// Package config provides configuration loading and structs for pdfchat.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Backend BackendConfig `yaml:"backend"`
	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Upload  UploadConfig  `yaml:"upload"`
	Watch   WatchConfig   `yaml:"watch"`
}

// BackendConfig points at the document-question-answering backend.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig holds HTTP server settings for the web front-end.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// UIConfig holds the choices offered to the user and display timings.
type UIConfig struct {
	DefaultLLM      string        `yaml:"default_llm"`
	LLMs            []string      `yaml:"llms"`
	PromptTypes     []string      `yaml:"prompt_types"`
	ToastHold       time.Duration `yaml:"toast_hold"`
	ToastFade       time.Duration `yaml:"toast_fade"`
	StatusFadeDelay time.Duration `yaml:"status_fade_delay"`
	// LatestResponseOnly drops a query response when a newer query to the
	// same region was started after it.
	LatestResponseOnly bool `yaml:"latest_response_only"`
}

// UploadConfig holds the local checks run before an upload.
type UploadConfig struct {
	Preflight *bool `yaml:"preflight"`
	MaxSizeMB int   `yaml:"max_size_mb"`
}

// PreflightOrDefault returns whether to inspect files before upload. Off
// unless set, so the backend decides what it accepts.
func (u *UploadConfig) PreflightOrDefault() bool {
	if u.Preflight != nil {
		return *u.Preflight
	}
	return false
}

// MaxBytes returns the size limit in bytes, 0 for none.
func (u *UploadConfig) MaxBytes() int64 {
	return int64(u.MaxSizeMB) * 1024 * 1024
}

// WatchConfig holds drop-folder watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Patterns    []string `yaml:"patterns"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Environment variables that override file values.
const (
	EnvBackendURL     = "PDFCHAT_BACKEND_URL"
	EnvBackendTimeout = "PDFCHAT_BACKEND_TIMEOUT"
	EnvServerHost     = "PDFCHAT_SERVER_HOST"
	EnvServerPort     = "PDFCHAT_SERVER_PORT"
	EnvDefaultLLM     = "PDFCHAT_DEFAULT_LLM"
	EnvDebug          = "PDFCHAT_DEBUG"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none)
// into the process environment. Missing files are ignored; variables already
// set are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with PDFCHAT_* variables. Malformed numbers and
// durations are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvBackendTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv(EnvServerHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv(EnvDefaultLLM); v != "" {
		cfg.UI.DefaultLLM = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
