// CLAUDE:SUMMARY Configuration for the KIPRIS client: env loading, YAML file loading, defaults.
package kipris

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the KIPRIS Plus REST endpoint.
const DefaultBaseURL = "http://plus.kipris.or.kr/openapi/rest"

// Config configures the KIPRIS client. Immutable once passed to New.
type Config struct {
	// APIKey is the KIPRIS Plus access key. Required.
	APIKey string

	// BaseURL of the registry API. Default: DefaultBaseURL.
	BaseURL string

	// Timeout per HTTP request. Default: 30s.
	Timeout time.Duration

	// MaxRetries is the total attempt budget for transient failures
	// (non-200 statuses and timeouts). Default: 3, minimum 1.
	MaxRetries int

	// Logger for retry warnings.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = 3
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// FromEnv builds a Config from environment variables. KIPRIS_API_KEY is
// required; KIPRIS_BASE_URL, KIPRIS_TIMEOUT (Go duration) and
// KIPRIS_MAX_RETRIES override the defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:  os.Getenv("KIPRIS_API_KEY"),
		BaseURL: os.Getenv("KIPRIS_BASE_URL"),
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if v := os.Getenv("KIPRIS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: KIPRIS_TIMEOUT: %v", ErrInvalidInput, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("KIPRIS_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: KIPRIS_MAX_RETRIES: %v", ErrInvalidInput, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: KIPRIS_MAX_RETRIES must be at least 1, got %d", ErrInvalidInput, n)
		}
		cfg.MaxRetries = n
	}
	cfg.defaults()
	return cfg, nil
}

// fileConfig is the YAML shape of a config file; timeout is a Go duration
// string ("30s", "1m").
type fileConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

// LoadConfigFile reads a Config from a YAML file. The API key may still be
// supplied through the environment, which takes precedence over the file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kipris: read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("kipris: parse config: %w", err)
	}

	cfg := &Config{
		APIKey:     fc.APIKey,
		BaseURL:    fc.BaseURL,
		MaxRetries: fc.MaxRetries,
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: timeout: %v", ErrInvalidInput, err)
		}
		cfg.Timeout = d
	}
	if key := os.Getenv("KIPRIS_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.defaults()
	return cfg, nil
}
