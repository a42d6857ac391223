package scriptcheck

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/scriptcheck/scriptcheck/runner"
)

// Executor is responsible for running tests.
type Executor interface {
	RunTests() (*runner.RunResult, error)
}

// DefaultExecutor implements the Executor interface by driving the step
// engine to completion in one call.
type DefaultExecutor struct {
	runner *runner.Runner
	logger log.Logger
}

// NewDefaultExecutor creates a new DefaultExecutor.
func NewDefaultExecutor(r *runner.Runner, logger log.Logger) *DefaultExecutor {
	return &DefaultExecutor{
		runner: r,
		logger: logger,
	}
}

// RunTests runs all tests and returns the results.
func (e *DefaultExecutor) RunTests() (*runner.RunResult, error) {
	e.logger.Info("Running all tests...")
	result, err := e.runner.RunAll(context.Background())
	if err != nil {
		e.logger.Error("Error running tests", "error", err)
		return nil, err
	}
	e.logger.Info("Test run completed", "run_id", result.RunID, "status", result.Status)
	return result, nil
}
