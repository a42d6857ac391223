// Package scriptcheck wraps the discovery-and-execution engine in a
// long-running service: it runs the registered scripts once or on an
// interval, prints a report, and records metrics.
package scriptcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/scriptcheck/scriptcheck/reporting"
	"github.com/scriptcheck/scriptcheck/runner"
	"github.com/scriptcheck/scriptcheck/types"
)

// Service drives test runs over a host's script registry.
type Service struct {
	ctx       context.Context
	config    *Config
	version   string
	runner    *runner.Runner
	executor  Executor
	scheduler Scheduler
	formatter reporting.ResultFormatter
	reporter  MetricsReporter

	// result is written by the scheduler goroutine in continuous mode.
	resultMu sync.RWMutex
	result   *runner.RunResult

	running atomic.Bool

	shutdownCallback func(error) // Callback to signal application shutdown
}

// New creates a Service from config. The config's enumerator supplies the
// scripts; nothing runs until Start.
func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Service, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Log.Debug("Creating scriptcheck service",
		"testPrefix", config.TestPrefix,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	testRunner, err := runner.NewRunner(runner.Config{
		Enumerator: config.Enumerator,
		TestPrefix: config.TestPrefix,
		Log:        config.Log,
		Tracer:     config.Tracer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Service{
		ctx:              ctx,
		config:           config,
		version:          version,
		runner:           testRunner,
		executor:         NewDefaultExecutor(testRunner, config.Log),
		scheduler:        NewDefaultScheduler(config.RunInterval, config.RunOnce, config.Log),
		formatter:        reporting.NewConsoleResultFormatter(config.Log),
		reporter:         NewDefaultMetricsReporter(),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Runner exposes the underlying engine for callers that want to drive it
// step by step instead of through the service loop.
func (s *Service) Runner() *runner.Runner {
	return s.runner
}

// Start runs the scripts immediately and, unless in run-once mode, keeps
// running them at the configured interval until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.ctx = ctx
	s.running.Store(true)

	if s.config.RunOnce {
		s.config.Log.Info("Starting scriptcheck in run-once mode", "version", s.version)
	} else {
		s.config.Log.Info("Starting scriptcheck in continuous mode",
			"version", s.version, "interval", s.config.RunInterval)
	}

	s.scheduler.RegisterCallback(s.runTests)
	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	if s.config.RunOnce {
		s.config.Log.Info("Tests completed, exiting (run-once mode)")

		if result := s.Result(); result != nil && result.Status == types.OutcomeFail {
			s.config.Log.Warn("Run-once test run completed with failures, returning exit code 1")
			return NewTestFailureError(fmt.Sprintf("%d of %d tests failed",
				result.Stats.Failed, result.Stats.Total))
		}

		go func() {
			s.shutdownCallback(nil)
		}()
		return nil
	}

	s.config.Log.Debug("scriptcheck started successfully")
	return nil
}

// runTests performs one full run and processes the results.
func (s *Service) runTests() error {
	result, err := s.executor.RunTests()
	if err != nil {
		// This is a runtime error (not a test failure).
		s.config.Log.Error("Runtime error running tests", "error", err)
		return NewRuntimeError(err)
	}
	s.resultMu.Lock()
	s.result = result
	s.resultMu.Unlock()

	if err := s.formatter.FormatResults(result); err != nil {
		s.config.Log.Error("Error formatting results", "error", err)
	}
	s.reporter.ReportResults(result.RunID, result)

	s.config.Log.Info("Test run completed", "run_id", result.RunID, "status", result.Status)
	return nil
}

// Result returns the most recent run's result, nil before the first run
// completes.
func (s *Service) Result() *runner.RunResult {
	s.resultMu.RLock()
	defer s.resultMu.RUnlock()
	return s.result
}

// Stop stops the scriptcheck service.
func (s *Service) Stop(ctx context.Context) error {
	s.config.Log.Info("Stopping scriptcheck")

	if !s.running.Load() {
		s.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	s.running.Store(false)
	if err := s.scheduler.Stop(); err != nil {
		return err
	}

	s.config.Log.Info("scriptcheck stopped successfully")
	return nil
}

// Stopped returns true if the service is stopped.
func (s *Service) Stopped() bool {
	return !s.running.Load()
}

// WaitForShutdown blocks until all service goroutines have terminated or
// ctx expires.
func (s *Service) WaitForShutdown(ctx context.Context) error {
	return s.scheduler.WaitForShutdown(ctx)
}
