package google

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/oauth2"

	"github.com/teemow/gdrivetoken/internal/instrumentation"
)

func writeClientSecret(t *testing.T, dir, tokenURL string) string {
	t.Helper()
	path := filepath.Join(dir, "credentials.json")
	content := fmt.Sprintf(`{
  "installed": {
    "client_id": "client-id",
    "client_secret": "client-secret",
    "auth_uri": "https://accounts.example.com/o/oauth2/auth",
    "token_uri": %q,
    "redirect_uris": ["http://localhost"]
  }
}`, tokenURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func storeCredentials(t *testing.T, path, tokenURL string, tok *oauth2.Token) {
	t.Helper()
	require.NoError(t, NewStorage(path).Put(NewCredentials(testOAuthConfig(tokenURL), tok)))
}

func noBrowserFlow(t *testing.T) *Flow {
	return NewFlow(FlowOptions{
		CallbackPorts: []int{0},
		OpenBrowser: func(string) error {
			t.Error("browser should not open")
			return nil
		},
		Out: &bytes.Buffer{},
	})
}

func TestAuthorizer_UsesValidStoredToken(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "gdrive.token")
	storeCredentials(t, tokenPath, "http://127.0.0.1:1/token", &oauth2.Token{
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		Expiry:       time.Now().Add(time.Hour),
	})
	before, err := os.ReadFile(tokenPath)
	require.NoError(t, err)

	a := NewAuthorizer(noBrowserFlow(t), nil, nil)
	err = a.Authorize(context.Background(), tokenPath, filepath.Join(dir, "missing.json"), []string{"scope"})
	require.NoError(t, err)

	after, err := os.ReadFile(tokenPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAuthorizer_SetsAuthModeOnSpan(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "gdrive.token")
	storeCredentials(t, tokenPath, "http://127.0.0.1:1/token", &oauth2.Token{
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		Expiry:       time.Now().Add(time.Hour),
	})

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer(instrumentation.TracerName).Start(context.Background(), "generator.AUTH_ATTEMPTED")

	require.NoError(t, NewAuthorizer(noBrowserFlow(t), nil, nil).Authorize(ctx, tokenPath, "unused.json", []string{"scope"}))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Attributes(), attribute.String(instrumentation.SpanAttrAuthMode, instrumentation.AuthModeStored))
}

func TestAuthorizer_RefreshesExpiredToken(t *testing.T) {
	srv := newTokenServer(t)
	tokenPath := filepath.Join(t.TempDir(), "gdrive.token")
	storeCredentials(t, tokenPath, srv.URL, &oauth2.Token{
		AccessToken:  "expired-access",
		RefreshToken: "stored-refresh",
		Expiry:       time.Now().Add(-time.Hour),
	})

	a := NewAuthorizer(noBrowserFlow(t), nil, nil)
	creds, mode := a.LoadOrRefresh(context.Background(), NewStorage(tokenPath))
	require.NotNil(t, creds)
	assert.Equal(t, "refreshed", mode)

	stored, err := NewStorage(tokenPath).Get()
	require.NoError(t, err)
	assert.Equal(t, "access-from-refresh", stored.AccessToken)
	assert.Equal(t, "stored-refresh", stored.RefreshToken)
	assert.True(t, stored.Token().Valid())
}

func TestAuthorizer_LoadOrRefresh_NeedsInteractive(t *testing.T) {
	srv := newTokenServer(t)

	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
	}{
		{
			name:  "missing file",
			setup: func(*testing.T, string) {},
		},
		{
			name: "empty file",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, nil, 0o600))
			},
		},
		{
			name: "malformed file",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
			},
		},
		{
			name: "invalid credentials",
			setup: func(t *testing.T, path string) {
				creds := NewCredentials(testOAuthConfig(srv.URL), &oauth2.Token{
					AccessToken: "a",
					Expiry:      time.Now().Add(time.Hour),
				})
				creds.Invalid = true
				require.NoError(t, NewStorage(path).Put(creds))
			},
		},
		{
			name: "expired without refresh token",
			setup: func(t *testing.T, path string) {
				storeCredentials(t, path, srv.URL, &oauth2.Token{
					AccessToken: "a",
					Expiry:      time.Now().Add(-time.Hour),
				})
			},
		},
		{
			name: "refresh rejected",
			setup: func(t *testing.T, path string) {
				storeCredentials(t, path, srv.URL, &oauth2.Token{
					AccessToken:  "a",
					RefreshToken: "revoked-refresh",
					Expiry:       time.Now().Add(-time.Hour),
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "gdrive.token")
			tt.setup(t, path)

			a := NewAuthorizer(noBrowserFlow(t), nil, nil)
			creds, mode := a.LoadOrRefresh(context.Background(), NewStorage(path))
			assert.Nil(t, creds)
			assert.Empty(t, mode)
		})
	}
}

func TestAuthorizer_InteractiveFlow(t *testing.T) {
	srv := newTokenServer(t)
	dir := t.TempDir()
	secretPath := writeClientSecret(t, dir, srv.URL)
	tokenPath := filepath.Join(dir, "gdrive.token")
	require.NoError(t, os.WriteFile(tokenPath, nil, 0o600))

	browser := newFakeBrowser(t, nil)
	flow := NewFlow(FlowOptions{
		CallbackPorts: []int{0},
		OpenBrowser:   browser.Open,
		Out:           &bytes.Buffer{},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scopes := []string{"https://www.googleapis.com/auth/drive.readonly"}
	require.NoError(t, NewAuthorizer(flow, nil, nil).Authorize(ctx, tokenPath, secretPath, scopes))

	stored, err := NewStorage(tokenPath).Get()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "access-from-code", stored.AccessToken)
	assert.Equal(t, "refresh-from-code", stored.RefreshToken)
	assert.Equal(t, "client-id", stored.ClientID)
	assert.Equal(t, srv.URL, stored.TokenURI)
	assert.Equal(t, scopes, stored.Scopes)

	assert.Equal(t, scopes[0], browser.URL().Query().Get("scope"))
}

func TestAuthorizer_InteractiveDenied(t *testing.T) {
	srv := newTokenServer(t)
	dir := t.TempDir()
	secretPath := writeClientSecret(t, dir, srv.URL)
	tokenPath := filepath.Join(dir, "gdrive.token")
	require.NoError(t, os.WriteFile(tokenPath, nil, 0o600))

	flow := NewFlow(FlowOptions{
		CallbackPorts: []int{0},
		OpenBrowser:   newFakeBrowser(t, map[string][]string{"error": {"access_denied"}}).Open,
		Out:           &bytes.Buffer{},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := NewAuthorizer(flow, nil, nil).Authorize(ctx, tokenPath, secretPath, []string{"scope"})
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	info, err := os.Stat(tokenPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestAuthorizer_BadClientSecret(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "gdrive.token")

	t.Run("missing", func(t *testing.T) {
		err := NewAuthorizer(noBrowserFlow(t), nil, nil).Authorize(context.Background(), tokenPath, filepath.Join(dir, "nope.json"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to read client secret file")
	})

	t.Run("malformed", func(t *testing.T) {
		secret := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(secret, []byte(`{"other": {}}`), 0o600))
		err := NewAuthorizer(noBrowserFlow(t), nil, nil).Authorize(context.Background(), tokenPath, secret, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to parse client secret file")
	})
}

func TestHTTPClient_ForcesHTTP1(t *testing.T) {
	creds := NewCredentials(testOAuthConfig("http://127.0.0.1:1/token"), &oauth2.Token{
		AccessToken: "a",
		Expiry:      time.Now().Add(time.Hour),
	})

	client := HTTPClient(context.Background(), creds)
	transport, ok := client.Transport.(*oauth2.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Base)
}
