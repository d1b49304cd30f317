package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/qiniu/omni-comment/internal/config"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/qiniu/x/log"
)

// AuthenticatorBuilder helps build authenticators from configuration
type AuthenticatorBuilder struct {
	config *config.Config
}

// NewAuthenticatorBuilder creates a new authenticator builder
func NewAuthenticatorBuilder(cfg *config.Config) *AuthenticatorBuilder {
	return &AuthenticatorBuilder{config: cfg}
}

// BuildAuthenticator builds an authenticator based on the configured auth mode.
// In auto mode a configured token wins over a GitHub App.
func (b *AuthenticatorBuilder) BuildAuthenticator() (Authenticator, error) {
	if b.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	if err := b.config.ValidateGitHubConfig(); err != nil {
		return nil, fmt.Errorf("invalid GitHub configuration: %w", err)
	}

	mode := b.config.GetGitHubAuthMode()
	log.Debugf("Using GitHub authentication mode: configured=%s, active=%s", b.config.GitHub.AuthMode, mode)

	if mode == config.AuthModeApp {
		return b.buildAppAuthenticator()
	}
	return b.buildPATAuthenticator()
}

func (b *AuthenticatorBuilder) buildPATAuthenticator() (Authenticator, error) {
	if !b.config.IsGitHubTokenConfigured() {
		return nil, fmt.Errorf("GitHub token is not configured")
	}

	return NewPATAuthenticator(b.config.GitHub.Token), nil
}

// buildAppAuthenticator builds a GitHub App authenticator using ghinstallation
func (b *AuthenticatorBuilder) buildAppAuthenticator() (Authenticator, error) {
	appConfig := b.config.GitHub.App

	var transport *ghinstallation.Transport
	var err error

	switch {
	case appConfig.PrivateKeyPath != "":
		transport, err = ghinstallation.NewKeyFromFile(http.DefaultTransport, appConfig.AppID, appConfig.InstallationID, appConfig.PrivateKeyPath)
	case appConfig.PrivateKeyEnv != "":
		privateKeyData := os.Getenv(appConfig.PrivateKeyEnv)
		if privateKeyData == "" {
			return nil, fmt.Errorf("private key environment variable %s is empty", appConfig.PrivateKeyEnv)
		}
		transport, err = ghinstallation.New(http.DefaultTransport, appConfig.AppID, appConfig.InstallationID, []byte(privateKeyData))
	case appConfig.PrivateKey != "":
		transport, err = ghinstallation.New(http.DefaultTransport, appConfig.AppID, appConfig.InstallationID, []byte(appConfig.PrivateKey))
	default:
		return nil, fmt.Errorf("no private key source configured")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}

	if baseURL := b.config.GitHub.BaseURL; baseURL != "" {
		transport.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return NewAppAuthenticator(transport, appConfig.AppID, appConfig.InstallationID), nil
}
