package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonandersen/apca/pkg/alpaca"
)

const (
	// DefaultAPIBaseURL points at the paper trading environment so a fresh
	// install never trades real money.
	DefaultAPIBaseURL = alpaca.PaperURL
	// DefaultTimeoutSeconds bounds every HTTP request.
	DefaultTimeoutSeconds = 30
	// DefaultRetryMax is the number of retries after the first attempt.
	DefaultRetryMax = 2
	// DefaultLogLevel keeps the CLI quiet unless something goes wrong.
	DefaultLogLevel = "warn"

	// SourceKeyring reads credentials from the OS keychain.
	SourceKeyring = "keyring"
	// SourceAWS reads credentials from AWS Secrets Manager.
	SourceAWS = "aws"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "APCA_CONFIG"
	// EnvAPIBaseURL overrides api_base_url.
	EnvAPIBaseURL = "APCA_API_BASE_URL"
	// EnvLogLevel overrides log_level.
	EnvLogLevel = "APCA_LOG_LEVEL"
)

// Config holds the CLI configuration.
type Config struct {
	APIBaseURL        string `yaml:"api_base_url"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	RetryMax          int    `yaml:"retry_max"`
	LogLevel          string `yaml:"log_level"`
	CredentialsSource string `yaml:"credentials_source,omitempty"`
	AWSRegion         string `yaml:"aws_region,omitempty"`
	AWSSecretID       string `yaml:"aws_secret_id,omitempty"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:        DefaultAPIBaseURL,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		RetryMax:          DefaultRetryMax,
		LogLevel:          DefaultLogLevel,
		CredentialsSource: SourceKeyring,
	}
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IsPaper reports whether the configured endpoint is the paper environment.
func (c *Config) IsPaper() bool {
	return c.APIBaseURL == alpaca.PaperURL
}

// Validate checks field ranges and the credentials source.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_base_url %q", c.APIBaseURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must not be negative, got %d", c.RetryMax)
	}
	switch c.CredentialsSource {
	case "", SourceKeyring:
	case SourceAWS:
		if c.AWSSecretID == "" {
			return errors.New("aws_secret_id is required when credentials_source is aws")
		}
	default:
		return fmt.Errorf("unknown credentials_source %q", c.CredentialsSource)
	}
	return nil
}

// ConfigDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/apca.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "apca")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "apca")
}

// ConfigPath returns the config file path, honoring APCA_CONFIG.
func ConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config file at path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories with 0700 and the
// file with 0600 permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadDotEnv loads variables from a .env file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with APCA_API_BASE_URL and APCA_LOG_LEVEL.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}
