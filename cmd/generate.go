package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/gdrivetoken/internal/config"
	"github.com/teemow/gdrivetoken/internal/generator"
	"github.com/teemow/gdrivetoken/internal/google"
	"github.com/teemow/gdrivetoken/internal/instrumentation"
	"github.com/teemow/gdrivetoken/internal/logging"
	"github.com/teemow/gdrivetoken/internal/ui"
)

const consentNotice = `
Your web browser will now open to a Google OAuth verification webpage. Ensure you
are logged into the Google Account you used to create your OAuth credentials file and complete
the verification process. If you see the warning, 'This app isn't verified', click 'Advanced'
> 'Go to {Project Name} (unsafe)'. Once you complete the verification procedure you will be
returned to the app. Press [Enter] to continue to the verification page.
`

// openBrowser is replaced in tests.
var openBrowser func(url string) error

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()

	logger, closer := logging.New(logging.DefaultConfig(), cmd.ErrOrStderr())
	defer closer.Close()
	slog.SetDefault(logger)
	logger = logging.WithOperation(logger, "generate")

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		// The run context may already be cancelled, flush with a fresh one.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	configPath := config.DefaultPath
	if len(args) == 1 && args[0] != "" {
		configPath = args[0]
		fmt.Fprintf(out, "Loading config file from user-supplied path: '%s'\n", configPath)
	} else {
		fmt.Fprintf(out, "Loading config file from default path: '%s'\n", configPath)
	}

	cfg, created, err := config.LoadOrCreate(configPath)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "No config file found. Created default config file at '%s'\n", configPath)
	}
	logger.Debug("configuration loaded", logging.Path(configPath), "created", created)

	prompt := ui.NewPrompt(cmd.InOrStdin(), out)
	if err := prompt.Acknowledge(ctx, consentNotice); err != nil {
		return fmt.Errorf("token generation aborted: %w", err)
	}

	metrics := provider.Metrics()
	flow := google.NewFlow(google.FlowOptions{
		OpenBrowser: openBrowser,
		Out:         out,
		Progress:    ui.NewSpinner(out),
		Logger:      logger,
	})

	gen := generator.New(generator.Options{
		Config:     cfg,
		Authorizer: google.NewAuthorizer(flow, logger, metrics),
		Out:        out,
		Prompt:     prompt,
		Logger:     logger,
		Metrics:    metrics,
	})

	// Failures are reported by the generator itself and do not change the exit code.
	outcome := gen.Run(ctx)
	logger.Debug("run finished", logging.Step(outcome.Step), "succeeded", outcome.Succeeded())
	return nil
}
