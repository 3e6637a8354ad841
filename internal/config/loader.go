package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service. It is built once at
// startup and passed by value afterwards.
type Config struct {
	Version         string       `json:"version" yaml:"version" toml:"version" envconfig:"VERSION"`
	ModelCacheDir   string       `json:"model_cache_dir" yaml:"model_cache_dir" toml:"model_cache_dir" envconfig:"MODEL_CACHE_DIR"`
	Host            string       `json:"host" yaml:"host" toml:"host" envconfig:"HOST"`
	Port            int          `json:"port" yaml:"port" toml:"port" envconfig:"PORT"`
	LogLevel        string       `json:"log_level" yaml:"log_level" toml:"log_level" envconfig:"LOG_LEVEL"`
	Env             string       `json:"env" yaml:"env" toml:"env" envconfig:"FLASK_ENV"`
	MaxBodyBytes    int64        `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" envconfig:"MAX_BODY_BYTES"`
	CORSOrigins     StringList   `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" envconfig:"CORS_ORIGINS"`
	RateLimit       float64      `json:"rate_limit" yaml:"rate_limit" toml:"rate_limit" envconfig:"RATE_LIMIT"`
	RateBurst       int          `json:"rate_burst" yaml:"rate_burst" toml:"rate_burst" envconfig:"RATE_BURST"`
	WatchModels     bool         `json:"watch_models" yaml:"watch_models" toml:"watch_models" envconfig:"WATCH_MODELS"`
	ShutdownSeconds int          `json:"shutdown_seconds" yaml:"shutdown_seconds" toml:"shutdown_seconds" envconfig:"SHUTDOWN_SECONDS"`
	OpenAI          OpenAIConfig `json:"openai" yaml:"openai" toml:"openai"`
}

// OpenAIConfig enables the openai query model when APIKey is set.
type OpenAIConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key" toml:"api_key" envconfig:"OPENAI_API_KEY"`
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url" envconfig:"OPENAI_BASE_URL"`
	Model   string `json:"model" yaml:"model" toml:"model" envconfig:"OPENAI_MODEL"`
}

// StringList decodes a comma separated environment value, dropping blanks.
type StringList []string

func (l *StringList) Decode(v string) error {
	*l = splitList(v)
	return nil
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Version:         "1.0.0",
		ModelCacheDir:   "./models",
		Host:            "0.0.0.0",
		Port:            5000,
		LogLevel:        "INFO",
		Env:             EnvProduction,
		MaxBodyBytes:    1 << 20,
		CORSOrigins:     []string{"*"},
		ShutdownSeconds: 5,
		OpenAI:          OpenAIConfig{Model: "gpt-4o-mini"},
	}
}

// Development reports whether the service runs in development mode.
func (c Config) Development() bool { return strings.EqualFold(c.Env, EnvDevelopment) }

// Addr is the HTTP listen address.
func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Load reads a configuration file on top of Default.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	if err := DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DecodeFile decodes a yaml, json or toml file into v based on its extension.
func DecodeFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, v)
	case ".json":
		return json.Unmarshal(b, v)
	case ".toml":
		return toml.Unmarshal(b, v)
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
}

// SupportedExt reports whether DecodeFile understands the file extension.
func SupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

// ApplyEnv overlays environment variables on c. Unset variables leave the
// current value alone. APP_ENV wins over the legacy FLASK_ENV.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("APP_ENV"); ok && v != "" {
		c.Env = v
	}
	return nil
}

// Validate rejects values the server cannot run with and fills in derived
// defaults.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.ModelCacheDir == "" {
		return fmt.Errorf("model cache dir is required")
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("rate limit and burst must not be negative")
	}
	if c.RateLimit > 0 && c.RateBurst == 0 {
		c.RateBurst = int(c.RateLimit)
		if c.RateBurst < 1 {
			c.RateBurst = 1
		}
	}
	if c.ShutdownSeconds <= 0 {
		c.ShutdownSeconds = 5
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the optional
// file, then the environment.
func Resolve(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
