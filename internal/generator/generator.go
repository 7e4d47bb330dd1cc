package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/gdrivetoken/internal/config"
	"github.com/teemow/gdrivetoken/internal/instrumentation"
	"github.com/teemow/gdrivetoken/internal/logging"
	"github.com/teemow/gdrivetoken/internal/ui"
)

// SDCardFolder is where the artifacts go on the console's SD card.
const SDCardFolder = "/switch/sx/"

// Authorizer makes sure the token file holds valid credentials, running the
// interactive consent flow when needed.
type Authorizer interface {
	Authorize(ctx context.Context, tokenPath, clientSecretPath string, scopes []string) error
}

// Prompter blocks until the user acknowledges a message or ctx is done.
type Prompter interface {
	Acknowledge(ctx context.Context, message string) error
}

// Options configures a Generator. Config and Authorizer are required.
type Options struct {
	Config     *config.Config
	Authorizer Authorizer

	// FS defaults to OSFileSystem.
	FS FileSystem

	// Out receives progress and error messages. Defaults to os.Stdout.
	Out io.Writer

	// Prompt is used to wait for the user after a successful run. When nil
	// the run ends without waiting.
	Prompt Prompter

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Outcome describes how a run ended.
type Outcome struct {
	// Step is the last step reached.
	Step Step

	// ClientSecretPath is the located client secret, if any.
	ClientSecretPath string

	// Err is the error that stopped the run, nil on success.
	Err error
}

// Succeeded reports whether the run reached the end without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Step == StepDone
}

// Generator produces the token bundle described by a configuration.
type Generator struct {
	cfg     *config.Config
	auth    Authorizer
	fs      FileSystem
	out     io.Writer
	prompt  Prompter
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// New creates a Generator.
func New(opts Options) *Generator {
	g := &Generator{
		cfg:     opts.Config,
		auth:    opts.Authorizer,
		fs:      opts.FS,
		out:     opts.Out,
		prompt:  opts.Prompt,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if g.fs == nil {
		g.fs = OSFileSystem{}
	}
	if g.out == nil {
		g.out = os.Stdout
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.logger = logging.WithComponent(g.logger, "generator")
	return g
}

// Run performs one generation run. Failures are reported to the user and
// returned in the Outcome; an empty token file is always removed afterwards.
func (g *Generator) Run(ctx context.Context) Outcome {
	ctx, span := instrumentation.StartSpan(ctx, "generator.run",
		attribute.String(instrumentation.SpanAttrOutputFolder, g.cfg.OutputFolder()))

	var outcome Outcome
	outcome.Err = g.generate(ctx, &outcome)
	if outcome.Err != nil {
		g.report(outcome)
	}

	g.cleanup()

	result := instrumentation.RunResultSuccess
	if outcome.Err != nil {
		result = instrumentation.RunResultFailure
	}
	g.metrics.RecordRun(ctx, result)
	instrumentation.EndSpan(span, outcome.Err)

	return outcome
}

func (g *Generator) generate(ctx context.Context, outcome *Outcome) error {
	fmt.Fprintln(g.out, "Creating output folder")
	err := g.step(ctx, StepFolderReady, outcome, func(context.Context) error {
		return g.cfg.EnsureOutputFolder(g.fs)
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(g.out, "Locating client secret file")
	err = g.step(ctx, StepSecretLocated, outcome, func(context.Context) error {
		path, err := g.cfg.ClientSecretSource()
		if err != nil {
			return err
		}
		outcome.ClientSecretPath = path
		return nil
	})
	if err != nil {
		return err
	}

	tokenPath := g.cfg.TokenPath()
	err = g.step(ctx, StepSentinelCreated, outcome, func(context.Context) error {
		return g.fs.Touch(tokenPath)
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(g.out, "Performing authentication")
	err = g.step(ctx, StepAuthAttempted, outcome, func(ctx context.Context) error {
		if err := g.auth.Authorize(ctx, tokenPath, outcome.ClientSecretPath, g.cfg.Scopes); err != nil {
			return err
		}
		size, _, err := g.fs.Size(tokenPath)
		if err != nil {
			return err
		}
		if size == 0 {
			return ErrEmptyToken
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(g.out, "Copying client secret JSON to output directory")
	dest := g.cfg.ClientSecretDestPath()
	err = g.step(ctx, StepSecretCopied, outcome, func(context.Context) error {
		if err := g.fs.Copy(outcome.ClientSecretPath, dest); err != nil {
			return &CopyError{Src: outcome.ClientSecretPath, Dst: dest, Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	outcome.Step = StepDone
	g.complete(ctx)
	return nil
}

// step runs fn and advances outcome to step when it succeeds. A done ctx
// stops the run before fn is called.
func (g *Generator) step(ctx context.Context, step Step, outcome *Outcome, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := instrumentation.StartStepSpan(ctx, step.String())
	start := time.Now()

	err := fn(ctx)

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	duration := time.Since(start)
	g.metrics.RecordStep(ctx, step.String(), status, duration)
	instrumentation.EndSpan(span, err)

	g.logger.Debug("step finished", logging.Step(step), logging.Status(status), "duration", duration)
	if err != nil {
		return err
	}
	outcome.Step = step
	return nil
}

func (g *Generator) complete(ctx context.Context) {
	folder := g.cfg.OutputFolder()
	if abs, err := filepath.Abs(folder); err == nil {
		folder = abs
	}

	fmt.Fprintf(g.out, "\nProcess complete! Copy (2) files from '%s' to your Switch SD card folder '%s'.\n", folder, SDCardFolder)

	var artifacts []ui.Artifact
	for _, path := range []string{g.cfg.TokenPath(), g.cfg.ClientSecretDestPath()} {
		size, _, err := g.fs.Size(path)
		if err != nil {
			g.logger.Warn("failed to stat artifact", logging.Path(path), logging.Err(err))
		}
		artifacts = append(artifacts, ui.Artifact{Name: filepath.Base(path), Path: path, Size: size})
	}
	ui.RenderArtifacts(g.out, artifacts)

	if g.prompt != nil {
		err := g.prompt.Acknowledge(ctx, "Press [Enter] to close this window.")
		if err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Warn("failed to wait for acknowledgment", logging.Err(err))
		}
	}
}

func (g *Generator) report(outcome Outcome) {
	var copyErr *CopyError
	if errors.As(outcome.Err, &copyErr) {
		fmt.Fprintf(g.out, "An error occurred while copying the client secret file to the output directory: %v\n", copyErr.Err)
	} else {
		fmt.Fprintf(g.out, "An error occurred while generating your token: %v\n", outcome.Err)
	}
	g.logger.Info("token generation failed", logging.Step(outcome.Step), logging.Err(outcome.Err))
}

// cleanup removes a token file that is still empty, so a failed run never
// leaves something that looks like a token behind.
func (g *Generator) cleanup() {
	tokenPath := g.cfg.TokenPath()

	size, exists, err := g.fs.Size(tokenPath)
	if err != nil {
		g.logger.Warn("failed to check token file", logging.Path(tokenPath), logging.Err(err))
		return
	}
	if !exists || size > 0 {
		return
	}

	if err := g.fs.Remove(tokenPath); err != nil {
		g.logger.Warn("failed to remove empty token file", logging.Path(tokenPath), logging.Err(err))
		return
	}
	g.logger.Debug("removed empty token file", logging.Path(tokenPath))
}
