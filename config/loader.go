package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "supportmesh.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom is Load with an explicit YAML path.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()
	// Provider fields are resolved from the preset of the final provider name.
	cfg.Provider = Provider{Name: cfg.Provider.Name}

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)
	fillProvider(&cfg.Provider)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML unmarshals the file at path over cfg. Returns nil if the file
// does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays non-empty environment variables onto cfg.
func loadEnv(cfg *Config) {
	setString(&cfg.Provider.Name, "SUPPORTMESH_PROVIDER")
	setString(&cfg.Provider.BaseURL, "SUPPORTMESH_BASE_URL")
	setString(&cfg.Provider.Model, "SUPPORTMESH_MODEL")
	setString(&cfg.Provider.APIKeyEnv, "SUPPORTMESH_API_KEY_ENV")

	setInt(&cfg.Agents.MaxAttempts, "SUPPORTMESH_MAX_ATTEMPTS")
	setDuration(&cfg.Agents.RetryDelay, "SUPPORTMESH_RETRY_DELAY")
	setString(&cfg.Agents.Backoff, "SUPPORTMESH_BACKOFF")
	setInt(&cfg.Agents.Workers, "SUPPORTMESH_WORKERS")
	setDuration(&cfg.Agents.BatchTimeout, "SUPPORTMESH_BATCH_TIMEOUT")

	setInt(&cfg.Completion.MaxTokens, "SUPPORTMESH_MAX_TOKENS")
	setFloat64(&cfg.Completion.Temperature, "SUPPORTMESH_TEMPERATURE")
	setInt(&cfg.Completion.CacheSize, "SUPPORTMESH_CACHE_SIZE")

	setString(&cfg.Store.Driver, "SUPPORTMESH_STORE")
	setString(&cfg.Store.DSN, "SUPPORTMESH_STORE_DSN")
	// Postgres deployments usually export DATABASE_URL.
	if cfg.Store.Driver == "postgres" {
		setString(&cfg.Store.DSN, "DATABASE_URL")
	}

	setString(&cfg.Logging.Level, "SUPPORTMESH_LOG_LEVEL")
	setString(&cfg.Logging.Format, "SUPPORTMESH_LOG_FORMAT")
}

var (
	providers = []string{"groq", "openai", "anthropic"}
	backoffs  = []string{"linear", "exponential"}
	drivers   = []string{"memory", "sqlite", "postgres"}
	formats   = []string{"text", "json"}
)

// validate checks ranges and enumerations.
func validate(cfg *Config) error {
	if !slices.Contains(providers, cfg.Provider.Name) {
		return fmt.Errorf("provider.name must be one of %v, got %q", providers, cfg.Provider.Name)
	}
	if cfg.Provider.Model == "" {
		return errors.New("provider.model is required")
	}
	if cfg.Provider.APIKeyEnv == "" {
		return errors.New("provider.api_key_env is required")
	}
	if cfg.Agents.MaxAttempts < 1 {
		return errors.New("agents.max_attempts must be >= 1")
	}
	if cfg.Agents.RetryDelay < 0 {
		return errors.New("agents.retry_delay must be >= 0")
	}
	if !slices.Contains(backoffs, cfg.Agents.Backoff) {
		return fmt.Errorf("agents.backoff must be one of %v, got %q", backoffs, cfg.Agents.Backoff)
	}
	if cfg.Agents.Workers < 1 {
		return errors.New("agents.workers must be >= 1")
	}
	if cfg.Agents.BatchTimeout <= 0 {
		return errors.New("agents.batch_timeout must be > 0")
	}
	if cfg.Completion.MaxTokens < 1 {
		return errors.New("completion.max_tokens must be >= 1")
	}
	if cfg.Completion.Temperature < 0 || cfg.Completion.Temperature > 2 {
		return errors.New("completion.temperature must be within [0, 2]")
	}
	if cfg.Completion.CacheSize < 0 {
		return errors.New("completion.cache_size must be >= 0")
	}
	if !slices.Contains(drivers, cfg.Store.Driver) {
		return fmt.Errorf("store.driver must be one of %v, got %q", drivers, cfg.Store.Driver)
	}
	if cfg.Store.Driver == "sqlite" && cfg.Store.DSN == "" {
		return errors.New("store.dsn is required for sqlite")
	}
	if !slices.Contains(formats, cfg.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", formats, cfg.Logging.Format)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
