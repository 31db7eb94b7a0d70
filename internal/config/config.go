// Package config holds all application configuration, loaded from a local
// .env file (if present), environment variables, and flag overrides, with
// sensible defaults.
//
// Environment Variables:
//
// Server:
//   - SERVER_ADDR: HTTP listen address (default: 127.0.0.1:5000)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
//
// Backend:
//   - BACKEND_KIND: "cli" for the ollama binary, "openai" for an
//     OpenAI-compatible endpoint (default: cli)
//   - OLLAMA_BIN: ollama binary name or path (default: ollama)
//   - BACKEND_API_URL: base URL for the openai backend (default:
//     http://localhost:11434/v1)
//   - BACKEND_API_KEY: API key for the openai backend (optional)
//   - BACKEND_MODEL: default model identifier
//   - BACKEND_TIMEOUT: per-chunk timeout in seconds (default: 300)
//
// Translation:
//   - TARGET_LANGUAGE: BCP 47 tag of the translation target (default: ar)
//   - DEFAULT_RTL: whether output documents default to right-to-left
//     (default: true)
//   - FILTER_THOUGHTS: strip model reasoning from output (default: true)
//
// Storage:
//   - UPLOAD_DIR: directory for uploads and generated documents
//     (default: ./uploads)
//   - HISTORY_DB: SQLite file recording finished jobs (default:
//     ./uploads/history.db)
//   - RETENTION_HOURS: prune uploads/exports older than this; 0 disables
//     (default: 0)
//
// Logging:
//   - LOG_DEBUG: enable debug logging (default: false)
//   - DEBUG_LOG_FILE: append-only debug log file path (optional)
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Translate TranslateConfig
	Storage   StorageConfig
	Log       LogConfig
}

// ServerConfig holds the HTTP surface configuration.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// BackendConfig selects and tunes the generation backend.
type BackendConfig struct {
	Kind    string
	Bin     string
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// TranslateConfig holds job defaults.
type TranslateConfig struct {
	TargetLanguage language.Tag
	DefaultRTL     bool
	FilterThoughts bool
}

// StorageConfig holds filesystem and persistence settings.
type StorageConfig struct {
	UploadDir      string
	HistoryDB      string
	RetentionHours int
}

// Retention returns the artifact retention window; zero disables pruning.
func (s StorageConfig) Retention() time.Duration {
	return time.Duration(s.RetentionHours) * time.Hour
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool
	File  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_addr", "127.0.0.1:5000")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("backend_kind", "cli")
	v.SetDefault("ollama_bin", "ollama")
	v.SetDefault("backend_api_url", "http://localhost:11434/v1")
	v.SetDefault("backend_api_key", "")
	v.SetDefault("backend_model", "command-r7b-arabiclatest")
	v.SetDefault("backend_timeout", 300)
	v.SetDefault("target_language", "ar")
	v.SetDefault("default_rtl", true)
	v.SetDefault("filter_thoughts", true)
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("history_db", "")
	v.SetDefault("retention_hours", 0)
	v.SetDefault("log_debug", false)
	v.SetDefault("debug_log_file", "")
}

// New loads configuration. A .env file in the working directory is applied
// first when present; real environment variables win over it. It reads the
// shared viper instance so cobra flag bindings are honored.
func New() (*Config, error) {
	_ = godotenv.Load()

	v := viper.GetViper()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Addr:        v.GetString("server_addr"),
			CORSOrigins: splitList(v.GetString("cors_origins")),
		},
		Backend: BackendConfig{
			Kind:    strings.ToLower(v.GetString("backend_kind")),
			Bin:     v.GetString("ollama_bin"),
			APIURL:  v.GetString("backend_api_url"),
			APIKey:  v.GetString("backend_api_key"),
			Model:   v.GetString("backend_model"),
			Timeout: time.Duration(v.GetInt("backend_timeout")) * time.Second,
		},
		Translate: TranslateConfig{
			DefaultRTL:     v.GetBool("default_rtl"),
			FilterThoughts: v.GetBool("filter_thoughts"),
		},
		Storage: StorageConfig{
			UploadDir:      v.GetString("upload_dir"),
			HistoryDB:      v.GetString("history_db"),
			RetentionHours: v.GetInt("retention_hours"),
		},
		Log: LogConfig{
			Debug: v.GetBool("log_debug"),
			File:  v.GetString("debug_log_file"),
		},
	}

	if cfg.Storage.HistoryDB == "" {
		cfg.Storage.HistoryDB = filepath.Join(cfg.Storage.UploadDir, "history.db")
	}

	tag, err := language.Parse(v.GetString("target_language"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_LANGUAGE: %w", err)
	}
	cfg.Translate.TargetLanguage = tag

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend.Kind {
	case "cli", "openai":
	default:
		return fmt.Errorf("BACKEND_KIND must be \"cli\" or \"openai\", got %q", c.Backend.Kind)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
