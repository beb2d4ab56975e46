// Package config loads SupportMesh settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/supportmesh/core"
)

// Provider selects and addresses the completion endpoint.
type Provider struct {
	// Name is "groq", "openai" or "anthropic".
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
}

// Agents configures the retrying runner shared by all agents.
type Agents struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	Backoff      string        `yaml:"backoff"`
	Workers      int           `yaml:"workers"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

// Completion configures the completion client.
type Completion struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	CacheSize   int     `yaml:"cache_size"`
}

// Store selects the persistence backend.
type Store struct {
	// Driver is "memory", "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Logging configures the structured logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the root configuration.
type Config struct {
	Provider   Provider   `yaml:"provider"`
	Agents     Agents     `yaml:"agents"`
	Completion Completion `yaml:"completion"`
	Store      Store      `yaml:"store"`
	Logging    Logging    `yaml:"logging"`
}

// Defaults returns the built-in configuration: Groq's OpenAI compatible
// endpoint, three attempts with a one second linear backoff, three workers
// per agent and a 30 second batch timeout.
func Defaults() Config {
	return Config{
		Provider: providerPresets["groq"],
		Agents: Agents{
			MaxAttempts:  3,
			RetryDelay:   time.Second,
			Backoff:      "linear",
			Workers:      3,
			BatchTimeout: 30 * time.Second,
		},
		Completion: Completion{
			MaxTokens:   1000,
			Temperature: 0.7,
			CacheSize:   0,
		},
		Store: Store{
			Driver: "memory",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// providerPresets fill unset provider fields by provider name.
var providerPresets = map[string]Provider{
	"groq": {
		Name:      "groq",
		BaseURL:   "https://api.groq.com/openai/v1/",
		Model:     "mixtral-8x7b-32768",
		APIKeyEnv: "GROQ_API_KEY",
	},
	"openai": {
		Name:      "openai",
		Model:     "gpt-4o-mini",
		APIKeyEnv: "OPENAI_API_KEY",
	},
	"anthropic": {
		Name:      "anthropic",
		Model:     "claude-3-5-sonnet-20241022",
		APIKeyEnv: "ANTHROPIC_API_KEY",
	},
}

func fillProvider(p *Provider) {
	preset, ok := providerPresets[p.Name]
	if !ok {
		return
	}
	if p.BaseURL == "" {
		p.BaseURL = preset.BaseURL
	}
	if p.Model == "" {
		p.Model = preset.Model
	}
	if p.APIKeyEnv == "" {
		p.APIKeyEnv = preset.APIKeyEnv
	}
}

// APIKey returns the value of the configured API key variable.
func (c *Config) APIKey() string {
	if c.Provider.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Provider.APIKeyEnv)
}

// RequireAPIKey returns the API key or an error wrapping
// core.ErrMissingAPIKey naming the variable that must be set.
func (c *Config) RequireAPIKey() (string, error) {
	key := c.APIKey()
	if key == "" {
		return "", fmt.Errorf("%w: set %s", core.ErrMissingAPIKey, c.Provider.APIKeyEnv)
	}
	return key, nil
}
