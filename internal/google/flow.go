package google

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/teemow/gdrivetoken/internal/logging"
)

var (
	// ErrAuthorizationDenied is returned when the user declines the consent screen.
	ErrAuthorizationDenied = errors.New("authorization was denied")

	// ErrStateMismatch is returned when the callback carries an unexpected state parameter.
	ErrStateMismatch = errors.New("invalid state parameter in authorization callback")
)

// DefaultCallbackPorts are tried in order for the loopback callback server.
// Port 0 lets the operating system pick a free port.
var DefaultCallbackPorts = []int{8080, 8090, 0}

// Progress is shown while waiting for the user to finish in the browser.
type Progress interface {
	Start(message string)
	Stop()
}

// FlowOptions configures the interactive authorization flow.
type FlowOptions struct {
	// CallbackPorts are the loopback ports tried for the callback server.
	CallbackPorts []int

	// OpenBrowser opens the consent page. Defaults to the system browser.
	OpenBrowser func(url string) error

	// Out receives the instructions for the user.
	Out io.Writer

	// Progress is optional.
	Progress Progress

	Logger *slog.Logger
}

// Flow runs the installed-application OAuth2 flow with a loopback redirect.
type Flow struct {
	ports       []int
	openBrowser func(url string) error
	out         io.Writer
	progress    Progress
	logger      *slog.Logger
}

// NewFlow creates a Flow, filling unset options with defaults.
func NewFlow(opts FlowOptions) *Flow {
	f := &Flow{
		ports:       opts.CallbackPorts,
		openBrowser: opts.OpenBrowser,
		out:         opts.Out,
		progress:    opts.Progress,
		logger:      opts.Logger,
	}
	if len(f.ports) == 0 {
		f.ports = DefaultCallbackPorts
	}
	if f.openBrowser == nil {
		f.openBrowser = browser.OpenURL
	}
	if f.out == nil {
		f.out = os.Stdout
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	f.logger = logging.WithComponent(f.logger, "oauth_flow")
	return f
}

// Run sends the user through the consent screen and exchanges the returned
// authorization code for a token. It blocks until the callback arrives or
// ctx is done.
func (f *Flow) Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("authorization cancelled: %w", err)
	}

	listener, err := f.listen()
	if err != nil {
		return nil, err
	}
	port := listener.Addr().(*net.TCPAddr).Port

	cfg := *conf
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d/", port)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	tokenChan := make(chan *oauth2.Token, 1)
	errorChan := make(chan error, 1)

	server := &http.Server{
		Handler:           f.handleCallback(ctx, &cfg, state, verifier, tokenChan, errorChan),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		f.logger.Debug("starting OAuth callback server", "port", port)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errorChan, fmt.Errorf("callback server failed: %w", err))
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			f.logger.Warn("failed to shut down OAuth callback server", logging.Err(err))
		}
	}()

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	if err := f.openBrowser(authURL); err != nil {
		f.logger.Warn("failed to open browser", logging.Err(err))
		fmt.Fprintf(f.out, "Open the following link in your browser to authorize access:\n\n    %s\n\n", authURL)
	} else {
		fmt.Fprintf(f.out, "Your browser has been opened to visit:\n\n    %s\n\n", authURL)
	}

	if f.progress != nil {
		f.progress.Start("Waiting for authorization in your browser...")
		defer f.progress.Stop()
	}

	select {
	case token := <-tokenChan:
		f.logger.Debug("OAuth flow completed")
		return token, nil
	case err := <-errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization cancelled: %w", ctx.Err())
	}
}

func (f *Flow) listen() (net.Listener, error) {
	var lastErr error
	for _, port := range f.ports {
		l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			return l, nil
		}
		f.logger.Debug("callback port unavailable", "port", port, logging.Err(err))
		lastErr = err
	}
	return nil, fmt.Errorf("failed to start callback server on ports %v: %w", f.ports, lastErr)
}

func (f *Flow) handleCallback(ctx context.Context, cfg *oauth2.Config, state, verifier string, tokenChan chan<- *oauth2.Token, errorChan chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		// Browsers also ask for favicons and the like.
		if query.Get("code") == "" && query.Get("error") == "" {
			http.NotFound(w, r)
			return
		}

		if errParam := query.Get("error"); errParam != "" {
			var err error
			if errParam == "access_denied" {
				err = ErrAuthorizationDenied
			} else {
				err = fmt.Errorf("authorization failed: %s %s", errParam, query.Get("error_description"))
			}
			writeErrorPage(w, err)
			sendErr(errorChan, err)
			return
		}

		if query.Get("state") != state {
			writeErrorPage(w, ErrStateMismatch)
			sendErr(errorChan, ErrStateMismatch)
			return
		}

		token, err := cfg.Exchange(ctx, query.Get("code"), oauth2.VerifierOption(verifier))
		if err != nil {
			err = fmt.Errorf("failed to exchange authorization code: %w", err)
			writeErrorPage(w, err)
			sendErr(errorChan, err)
			return
		}

		writeSuccessPage(w)
		select {
		case tokenChan <- token:
		default:
		}
	}
}

func sendErr(errorChan chan<- error, err error) {
	select {
	case errorChan <- err:
	default:
	}
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'; script-src 'none'; object-src 'none';")
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body { font-family: sans-serif; text-align: center; padding: 50px; }
        .message { color: %s; }
    </style>
</head>
<body>
    <h1 class="message">%s</h1>
    <p>%s</p>
</body>
</html>`

func writeSuccessPage(w http.ResponseWriter) {
	setSecurityHeaders(w)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, pageTemplate,
		"Authorization complete", "#28a745", "Authorization complete",
		"The authentication flow has completed. You may close this window.")
}

func writeErrorPage(w http.ResponseWriter, err error) {
	setSecurityHeaders(w)
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, pageTemplate,
		"Authorization failed", "#dc3545", "Authorization failed",
		html.EscapeString(err.Error()))
}
