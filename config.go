package scriptcheck

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/scriptcheck/scriptcheck/flags"
	"github.com/scriptcheck/scriptcheck/types"
)

// Config holds the application configuration
type Config struct {
	Enumerator     types.Enumerator // Source of scripts; required
	TestPrefix     string           // Test-case name prefix, empty for the default
	ConventionFile string           // Optional convention config file (absolute path)
	RunInterval    time.Duration    // Interval between test runs
	RunOnce        bool             // Indicates if the service should exit after one test run
	Tracer         trace.Tracer     // Optional tracer for run/test spans
	Log            log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger, enumerator types.Enumerator) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if enumerator == nil {
		return nil, errors.New("script enumerator is required")
	}

	conventionFile := ctx.String(flags.ConventionFile.Name)
	if conventionFile != "" {
		var err error
		conventionFile, err = filepath.Abs(conventionFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for convention file '%s': %w", ctx.String(flags.ConventionFile.Name), err)
		}
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	// A registry-style enumerator resolves the effective prefix itself,
	// with the convention file taking precedence over the flag. Prefer its
	// answer so the classifier sees the same convention the registry does.
	testPrefix := ctx.String(flags.TestPrefix.Name)
	if p, ok := enumerator.(interface{ TestPrefix() string }); ok {
		testPrefix = p.TestPrefix()
	}

	return &Config{
		Enumerator:     enumerator,
		TestPrefix:     testPrefix,
		ConventionFile: conventionFile,
		RunInterval:    runInterval,
		RunOnce:        runOnce,
		Log:            log,
	}, nil
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c.Enumerator == nil {
		return errors.New("script enumerator is required")
	}
	if c.Log == nil {
		return errors.New("logger is required")
	}
	if !c.RunOnce && c.RunInterval <= 0 {
		return errors.New("run interval must be positive in continuous mode")
	}
	return nil
}
