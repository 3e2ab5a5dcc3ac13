package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:5000"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 5 * time.Minute
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if len(cfg.UI.LLMs) == 0 {
		cfg.UI.LLMs = []string{"llama3", "mistral", "gemma"}
	}
	if cfg.UI.DefaultLLM == "" {
		cfg.UI.DefaultLLM = cfg.UI.LLMs[0]
	}
	if len(cfg.UI.PromptTypes) == 0 {
		cfg.UI.PromptTypes = []string{"qa", "summary", "explain"}
	}
	if cfg.UI.ToastHold == 0 {
		cfg.UI.ToastHold = 3000 * time.Millisecond
	}
	if cfg.UI.ToastFade == 0 {
		cfg.UI.ToastFade = 500 * time.Millisecond
	}
	if cfg.UI.StatusFadeDelay == 0 {
		cfg.UI.StatusFadeDelay = 1500 * time.Millisecond
	}
	if cfg.Watch.Patterns == nil {
		cfg.Watch.Patterns = []string{"**/*.pdf"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
