package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
)

// AppAuthenticator implements Authenticator for a GitHub App installation.
// Installation tokens are minted and refreshed by ghinstallation.
type AppAuthenticator struct {
	transport      *ghinstallation.Transport
	appID          int64
	installationID int64
}

// NewAppAuthenticator creates an authenticator on top of an installation transport
func NewAppAuthenticator(transport *ghinstallation.Transport, appID, installationID int64) *AppAuthenticator {
	return &AppAuthenticator{
		transport:      transport,
		appID:          appID,
		installationID: installationID,
	}
}

func (a *AppAuthenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	if a.transport == nil {
		return nil, fmt.Errorf("GitHub App transport is not configured")
	}
	return &http.Client{Transport: a.transport}, nil
}

// Token returns a current installation access token, refreshing it when expired
func (a *AppAuthenticator) Token(ctx context.Context) (string, error) {
	if a.transport == nil {
		return "", fmt.Errorf("GitHub App transport is not configured")
	}

	token, err := a.transport.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get installation token for installation %d: %w", a.installationID, err)
	}
	return token, nil
}

func (a *AppAuthenticator) GetAuthInfo() AuthInfo {
	return AuthInfo{
		Type:           AuthTypeApp,
		AppID:          a.appID,
		InstallationID: a.installationID,
	}
}

func (a *AppAuthenticator) IsConfigured() bool {
	return a.transport != nil && a.appID != 0 && a.installationID != 0
}
