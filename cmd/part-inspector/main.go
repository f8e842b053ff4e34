package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/ironsheep/part-inspector/internal/capture"
	"github.com/ironsheep/part-inspector/internal/config"
	"github.com/ironsheep/part-inspector/internal/detection"
	"github.com/ironsheep/part-inspector/internal/display"
	"github.com/ironsheep/part-inspector/internal/inspect"
	"github.com/ironsheep/part-inspector/internal/logging"
	"github.com/ironsheep/part-inspector/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "part-inspector: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "part-inspector %s\n", Version)
		fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
	}

	return &cli.App{
		Name:    "part-inspector",
		Usage:   "classify the color and shape of parts passing a camera",
		Version: Version,
		Flags:   config.Flags(),
		Action:  runInspection,
		// main prints the error and picks the exit status.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the inspection tools over MCP (JSON-RPC on stdin/stdout)",
				Action: runServer,
			},
		},
	}
}

// runInspection runs the inspection loop until the source ends or a signal
// arrives. Any returned error exits with status 1.
func runInspection(c *cli.Context) error {
	cfg, err := config.FromContext(c)
	if err != nil {
		return err
	}

	logger, err := logging.New("inspector", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Debugw("starting", "version", Version, "commit", GitCommit, "source", cfg.Source.Kind)

	detect, err := detection.NewDetector(string(cfg.Inspection.Detector))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := capture.Open(cfg.Source, logger)
	if err != nil {
		logger.Errorw("could not open camera", "error", err)
		return err
	}

	clk := clock.New()
	sink, err := display.Open(cfg.Display, clk, logger)
	if err != nil {
		return multierr.Append(err, errors.Wrap(src.Close(), "failed to release source"))
	}

	reporter := inspect.NewReporter(c.App.Writer, cfg.NoColor)
	loop := inspect.New(src, sink, reporter, clk, cfg.Inspection, logger)
	loop.Detect = detect
	return errors.Wrap(loop.Run(ctx), "inspection failed")
}

// runServer serves MCP requests until stdin is closed.
func runServer(c *cli.Context) error {
	logger, err := logging.New("server", c.String(config.FlagLogLevel))
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Debugw("MCP server starting", "version", Version, "built", BuildTime, "commit", GitCommit)
	return server.New(logger, Version).Run(c.App.Reader, c.App.Writer)
}
