package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AuthMode selects how the GitHub client authenticates
type AuthMode string

const (
	AuthModeToken AuthMode = "token"
	AuthModeApp   AuthMode = "app"
	AuthModeAuto  AuthMode = "auto"
)

const (
	DefaultLockMaxAttempts = 7
	DefaultLockDelay       = time.Second
	DefaultLockReaction    = "eyes"
)

type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Lock   LockConfig   `yaml:"lock"`
}

type GitHubConfig struct {
	Token    string          `yaml:"token"`
	AuthMode AuthMode        `yaml:"auth_mode"`
	BaseURL  string          `yaml:"base_url"`
	App      GitHubAppConfig `yaml:"app"`
	API      GitHubAPIConfig `yaml:"api"`
}

// GitHubAppConfig holds GitHub App credentials. Exactly one private key source is used,
// in the order PrivateKeyPath, PrivateKeyEnv, PrivateKey.
type GitHubAppConfig struct {
	AppID          int64  `yaml:"app_id"`
	InstallationID int64  `yaml:"installation_id"`
	PrivateKey     string `yaml:"private_key"`
	PrivateKeyPath string `yaml:"private_key_path"`
	PrivateKeyEnv  string `yaml:"private_key_env"`
}

type GitHubAPIConfig struct {
	EnableRateMonitoring bool `yaml:"enable_rate_monitoring"`
	RateLimitThreshold   int  `yaml:"rate_limit_threshold"`
}

// LockConfig tunes the reaction lock. Zero values fall back to the defaults.
type LockConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
	Reaction    string        `yaml:"reaction"`
}

// Load reads the runtime settings file and applies environment overrides.
// A missing file is not an error: the configuration is then built from the environment.
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	config.loadFromEnv()
	config.applyDefaults()

	return config, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			AuthMode: AuthModeAuto,
			API: GitHubAPIConfig{
				EnableRateMonitoring: true,
				RateLimitThreshold:   100,
			},
		},
		Lock: LockConfig{
			MaxAttempts: DefaultLockMaxAttempts,
			Delay:       DefaultLockDelay,
			Reaction:    DefaultLockReaction,
		},
	}
}

func (c *Config) loadFromEnv() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if mode := os.Getenv("GITHUB_AUTH_MODE"); mode != "" {
		c.GitHub.AuthMode = AuthMode(mode)
	}
	if baseURL := os.Getenv("GITHUB_API_URL"); baseURL != "" {
		c.GitHub.BaseURL = baseURL
	}
	if appID := getEnvInt64("GITHUB_APP_ID"); appID != 0 {
		c.GitHub.App.AppID = appID
	}
	if installationID := getEnvInt64("GITHUB_APP_INSTALLATION_ID"); installationID != 0 {
		c.GitHub.App.InstallationID = installationID
	}
	if privateKey := os.Getenv("GITHUB_APP_PRIVATE_KEY"); privateKey != "" {
		c.GitHub.App.PrivateKey = privateKey
	}
	if privateKeyPath := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH"); privateKeyPath != "" {
		c.GitHub.App.PrivateKeyPath = privateKeyPath
	}
	if privateKeyEnv := os.Getenv("GITHUB_APP_PRIVATE_KEY_ENV"); privateKeyEnv != "" {
		c.GitHub.App.PrivateKeyEnv = privateKeyEnv
	}
}

func (c *Config) applyDefaults() {
	if c.GitHub.AuthMode == "" {
		c.GitHub.AuthMode = AuthModeAuto
	}
	if c.Lock.MaxAttempts <= 0 {
		c.Lock.MaxAttempts = DefaultLockMaxAttempts
	}
	if c.Lock.Delay <= 0 {
		c.Lock.Delay = DefaultLockDelay
	}
	if c.Lock.Reaction == "" {
		c.Lock.Reaction = DefaultLockReaction
	}
}

// ValidateGitHubConfig checks that the selected auth mode has what it needs
func (c *Config) ValidateGitHubConfig() error {
	switch c.GitHub.AuthMode {
	case AuthModeToken:
		if !c.IsGitHubTokenConfigured() {
			return fmt.Errorf("GitHub token is required when auth_mode is %q", AuthModeToken)
		}
	case AuthModeApp:
		if c.GitHub.App.AppID == 0 {
			return fmt.Errorf("GitHub App ID is required when auth_mode is %q", AuthModeApp)
		}
		if c.GitHub.App.InstallationID == 0 {
			return fmt.Errorf("GitHub App installation ID is required when auth_mode is %q", AuthModeApp)
		}
		if !c.hasAppPrivateKey() {
			return fmt.Errorf("GitHub App private key is required when auth_mode is %q", AuthModeApp)
		}
	case AuthModeAuto, "":
		if !c.IsGitHubTokenConfigured() && !c.IsGitHubAppConfigured() {
			return fmt.Errorf("either GitHub token or GitHub App configuration is required")
		}
	default:
		return fmt.Errorf("invalid auth_mode %q, must be one of: token, app, auto", c.GitHub.AuthMode)
	}
	return nil
}

// IsGitHubAppConfigured reports whether every GitHub App setting is present
func (c *Config) IsGitHubAppConfigured() bool {
	return c.GitHub.App.AppID != 0 && c.GitHub.App.InstallationID != 0 && c.hasAppPrivateKey()
}

func (c *Config) IsGitHubTokenConfigured() bool {
	return c.GitHub.Token != ""
}

// GetGitHubAuthMode resolves "auto" into the mode that will actually be used
func (c *Config) GetGitHubAuthMode() AuthMode {
	if c.GitHub.AuthMode != AuthModeAuto && c.GitHub.AuthMode != "" {
		return c.GitHub.AuthMode
	}
	if c.IsGitHubTokenConfigured() {
		return AuthModeToken
	}
	if c.IsGitHubAppConfigured() {
		return AuthModeApp
	}
	return AuthModeToken
}

func (c *Config) hasAppPrivateKey() bool {
	app := c.GitHub.App
	return app.PrivateKeyPath != "" || app.PrivateKeyEnv != "" || app.PrivateKey != ""
}

func getEnvInt64(key string) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
