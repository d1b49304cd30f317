package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/qiniu/omni-comment/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatePrivateKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

func TestPATAuthenticator(t *testing.T) {
	auth := NewPATAuthenticator("ghp_test_token")
	ctx := context.Background()

	t.Run("IsConfigured", func(t *testing.T) {
		assert.True(t, auth.IsConfigured())
		assert.False(t, NewPATAuthenticator("").IsConfigured())
	})

	t.Run("GetAuthInfo", func(t *testing.T) {
		assert.Equal(t, AuthTypePAT, auth.GetAuthInfo().Type)
	})

	t.Run("Token", func(t *testing.T) {
		token, err := auth.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ghp_test_token", token)

		_, err = NewPATAuthenticator("").Token(ctx)
		assert.Error(t, err)
	})

	t.Run("HTTPClient sends bearer token", func(t *testing.T) {
		var header string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header = r.Header.Get("Authorization")
		}))
		defer server.Close()

		client, err := auth.HTTPClient(ctx)
		require.NoError(t, err)

		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "Bearer ghp_test_token", header)
	})
}

func TestAuthenticatorBuilder(t *testing.T) {
	privateKey := generatePrivateKey(t)

	t.Run("token", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.Token = "ghp_test_token"

		auth, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		require.NoError(t, err)
		assert.Equal(t, AuthTypePAT, auth.GetAuthInfo().Type)
	})

	t.Run("app with inline key", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.App = config.GitHubAppConfig{AppID: 12345, InstallationID: 678, PrivateKey: privateKey}

		auth, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		require.NoError(t, err)
		assert.True(t, auth.IsConfigured())
		assert.Equal(t, AuthInfo{Type: AuthTypeApp, AppID: 12345, InstallationID: 678}, auth.GetAuthInfo())
	})

	t.Run("app with key file", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), "key.pem")
		require.NoError(t, os.WriteFile(keyPath, []byte(privateKey), 0600))

		cfg := config.Default()
		cfg.GitHub.AuthMode = config.AuthModeApp
		cfg.GitHub.App = config.GitHubAppConfig{AppID: 12345, InstallationID: 678, PrivateKeyPath: keyPath}

		auth, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		require.NoError(t, err)
		assert.Equal(t, AuthTypeApp, auth.GetAuthInfo().Type)
	})

	t.Run("app with key from env", func(t *testing.T) {
		t.Setenv("TEST_APP_PRIVATE_KEY", privateKey)

		cfg := config.Default()
		cfg.GitHub.App = config.GitHubAppConfig{AppID: 12345, InstallationID: 678, PrivateKeyEnv: "TEST_APP_PRIVATE_KEY"}

		auth, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		require.NoError(t, err)
		assert.Equal(t, AuthTypeApp, auth.GetAuthInfo().Type)
	})

	t.Run("broken app without token fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.AuthMode = config.AuthModeAuto
		cfg.GitHub.App = config.GitHubAppConfig{AppID: 12345, InstallationID: 678, PrivateKey: "not a key"}

		_, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create GitHub App transport")
	})

	t.Run("token wins in auto mode", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.Token = "ghp_test_token"
		cfg.GitHub.App = config.GitHubAppConfig{AppID: 12345, InstallationID: 678, PrivateKey: "not a key"}

		auth, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		require.NoError(t, err)
		assert.Equal(t, AuthTypePAT, auth.GetAuthInfo().Type)
	})

	t.Run("broken app in app mode fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.AuthMode = config.AuthModeApp
		cfg.GitHub.Token = "ghp_test_token"
		cfg.GitHub.App = config.GitHubAppConfig{AppID: 12345, InstallationID: 678, PrivateKey: "not a key"}

		_, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		assert.Error(t, err)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := NewAuthenticatorBuilder(config.Default()).BuildAuthenticator()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid GitHub configuration")
	})

	t.Run("nil configuration", func(t *testing.T) {
		_, err := NewAuthenticatorBuilder(nil).BuildAuthenticator()
		assert.Error(t, err)
	})
}

func TestAppAuthenticatorToken(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":      "ghs_installation_token",
			"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
		})
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.GitHub.BaseURL = server.URL + "/"
	cfg.GitHub.App = config.GitHubAppConfig{AppID: 12345, InstallationID: 678, PrivateKey: generatePrivateKey(t)}

	auth, err := NewAuthenticatorBuilder(cfg).BuildAuthenticator()
	require.NoError(t, err)

	token, err := auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghs_installation_token", token)
	assert.Equal(t, []string{"POST /app/installations/678/access_tokens"}, paths)

	// the token is cached until it expires
	token, err = auth.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghs_installation_token", token)
	assert.Len(t, paths, 1)
}
