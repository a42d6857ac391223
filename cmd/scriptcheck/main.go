package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	"github.com/scriptcheck/scriptcheck"
	"github.com/scriptcheck/scriptcheck/exitcodes"
	"github.com/scriptcheck/scriptcheck/flags"
	"github.com/scriptcheck/scriptcheck/registry"
	"github.com/scriptcheck/scriptcheck/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "scriptcheck"
	app.Usage = "Convention-driven script test runner"
	app.Description = "scriptcheck discovers test scripts by naming convention and runs them"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if scriptcheck.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if scriptcheck.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	// Start telemetry
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer otelShutdown()

	// Start healthz and metrics servers
	svc := service.New()
	svc.Start(context.Background())
	defer svc.Shutdown()

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(cliCtx *cli.Context) error {
	logger, err := newLogger(cliCtx.String(flags.LogLevel.Name))
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	reg, err := registry.NewRegistry(registry.Config{
		Log:            logger,
		ConventionFile: cliCtx.String(flags.ConventionFile.Name),
		TestPrefix:     cliCtx.String(flags.TestPrefix.Name),
	})
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	if cliCtx.Bool(flags.SelfCheck.Name) {
		if err := scriptcheck.RegisterSelfCheck(reg); err != nil {
			return cli.Exit(err.Error(), exitcodes.RuntimeErr)
		}
	} else if reg.Len() == 0 {
		logger.Warn("No scripts registered; did you mean --selfcheck?")
	}

	cfg, err := scriptcheck.NewConfig(cliCtx, logger, reg)
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	ctx, cancel := context.WithCancel(cliCtx.Context)
	defer cancel()

	app, err := scriptcheck.New(ctx, cfg, Version, func(error) { cancel() })
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}

	// Continuous mode: block until a shutdown signal or the service asks to
	// exit.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info("Received shutdown signal")
	case <-ctx.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}
	return app.WaitForShutdown(stopCtx)
}

// newLogger builds a terminal logger at the requested level.
func newLogger(level string) (log.Logger, error) {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)), nil
}
