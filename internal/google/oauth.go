package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/gdrivetoken/internal/drive"
	"github.com/teemow/gdrivetoken/internal/instrumentation"
	"github.com/teemow/gdrivetoken/internal/logging"
)

// Authorizer produces valid credentials in a token file, interactively if needed.
type Authorizer struct {
	flow    *Flow
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewAuthorizer creates an Authorizer. metrics may be nil.
func NewAuthorizer(flow *Flow, logger *slog.Logger, metrics *instrumentation.Metrics) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{
		flow:    flow,
		logger:  logging.WithComponent(logger, "authorizer"),
		metrics: metrics,
	}
}

// Authorize makes sure the token file at tokenPath holds valid credentials
// for scopes and builds a Drive client with them.
//
// Stored credentials are reused as is when still valid and refreshed when
// expired. Otherwise the interactive flow runs with the client secret at
// clientSecretPath and the result is written to tokenPath.
func (a *Authorizer) Authorize(ctx context.Context, tokenPath, clientSecretPath string, scopes []string) error {
	storage := NewStorage(tokenPath)

	creds, mode := a.LoadOrRefresh(ctx, storage)
	if creds == nil {
		mode = instrumentation.AuthModeInteractive
		var err error
		creds, err = a.RunInteractive(ctx, storage, clientSecretPath, scopes)
		if err != nil {
			a.metrics.RecordOAuthAuth(ctx, mode, instrumentation.StatusError)
			return err
		}
	}
	a.metrics.RecordOAuthAuth(ctx, mode, instrumentation.StatusSuccess)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(instrumentation.SpanAttrAuthMode, mode))
	a.logger.Info("credentials ready", "mode", mode, logging.Path(tokenPath))

	client, err := drive.NewClient(ctx, HTTPClient(ctx, creds))
	if err != nil {
		return err
	}
	a.logger.Debug("built API client", "service", drive.ServiceName, "version", drive.Version, "endpoint", client.BasePath())
	return nil
}

// LoadOrRefresh returns usable stored credentials and how they were
// obtained, or nil when the interactive flow is needed.
func (a *Authorizer) LoadOrRefresh(ctx context.Context, storage *Storage) (*Credentials, string) {
	creds, err := storage.Get()
	if err != nil {
		a.logger.Warn("ignoring unreadable token file", logging.Path(storage.Path()), logging.Err(err))
		return nil, ""
	}
	if creds == nil || creds.Invalid {
		return nil, ""
	}

	tok := creds.Token()
	if tok.Valid() {
		return creds, instrumentation.AuthModeStored
	}
	if tok.RefreshToken == "" {
		return nil, ""
	}

	refreshed, err := creds.Config().TokenSource(ctx, tok).Token()
	if err != nil {
		a.logger.Warn("failed to refresh stored token", logging.Path(storage.Path()), logging.Err(err))
		a.metrics.RecordOAuthAuth(ctx, instrumentation.AuthModeRefreshed, instrumentation.StatusError)
		return nil, ""
	}

	a.logger.Debug("refreshed stored token", "access_token", logging.SanitizeToken(refreshed.AccessToken))
	creds.Update(refreshed)
	if err := storage.Put(creds); err != nil {
		a.logger.Warn("failed to store refreshed token", logging.Err(err))
		return nil, ""
	}
	return creds, instrumentation.AuthModeRefreshed
}

// RunInteractive runs the browser flow for the client described by the
// secret file and stores the resulting credentials.
func (a *Authorizer) RunInteractive(ctx context.Context, storage *Storage, clientSecretPath string, scopes []string) (*Credentials, error) {
	data, err := os.ReadFile(clientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	tok, err := a.flow.Run(ctx, conf)
	if err != nil {
		return nil, err
	}

	creds := NewCredentials(conf, tok)
	if err := storage.Put(creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// HTTPClient returns an authorized client for creds. Refreshed tokens are
// not written back; the token file keeps the refresh token, which is what
// consumers need.
func HTTPClient(ctx context.Context, creds *Credentials) *http.Client {
	client := creds.Config().Client(ctx, creds.Token())

	// Force HTTP/1.1, Google APIs occasionally reset HTTP/2 streams
	if t, ok := client.Transport.(*oauth2.Transport); ok {
		t.Base = &http.Transport{
			ForceAttemptHTTP2: false,
			Proxy:             http.ProxyFromEnvironment,
		}
	}
	return client
}
