package auth

import (
	"context"
	"net/http"
)

// AuthType represents the type of authentication being used
type AuthType string

const (
	AuthTypePAT AuthType = "pat" // Personal Access Token
	AuthTypeApp AuthType = "app" // GitHub App installation
)

// AuthInfo contains information about the current authentication
type AuthInfo struct {
	Type           AuthType `json:"type"`
	AppID          int64    `json:"app_id,omitempty"`
	InstallationID int64    `json:"installation_id,omitempty"`
}

// Authenticator produces credentials for the GitHub API
type Authenticator interface {
	// HTTPClient returns an HTTP client that authenticates every request
	HTTPClient(ctx context.Context) (*http.Client, error)

	// Token returns a bearer token usable against the REST API
	Token(ctx context.Context) (string, error)

	// GetAuthInfo returns information about the current authentication
	GetAuthInfo() AuthInfo

	// IsConfigured returns whether the authenticator is properly configured
	IsConfigured() bool
}
