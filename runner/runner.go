// Package runner implements the incremental discovery-and-execution engine.
//
// The engine is step-driven: Start yields an execution Context, each Step
// call performs at most one script invocation and records its progress in
// the Context, and Stop releases the Context's owned models. RunAll is a
// thin loop over Step for callers that want the monolithic form.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scriptcheck/scriptcheck/discover"
	"github.com/scriptcheck/scriptcheck/types"
)

// Runner drives discovery and execution over a host's scripts.
type Runner struct {
	enumerator types.Enumerator
	classifier discover.Classifier
	log        log.Logger
	tracer     trace.Tracer
}

// Config holds configuration for creating a new runner.
type Config struct {
	// Enumerator yields the host's scripts; required.
	Enumerator types.Enumerator

	// TestPrefix overrides the default test-case name prefix.
	TestPrefix string

	Log log.Logger

	// Tracer, when set, wraps each run and each test invocation in a span.
	Tracer trace.Tracer
}

// NewRunner creates a new runner instance.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Enumerator == nil {
		return nil, fmt.Errorf("enumerator is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	return &Runner{
		enumerator: cfg.Enumerator,
		classifier: discover.Classifier{TestPrefix: cfg.TestPrefix},
		log:        cfg.Log,
		tracer:     cfg.Tracer,
	}, nil
}

// RunResult captures the complete outcome of one run.
type RunResult struct {
	RunID    string
	Metadata *types.MetadataModel
	Results  *types.ResultsModel
	Stats    types.Stats
	Status   types.Outcome
	Duration time.Duration
}

// Start creates a fresh execution context in the initialization phase. The
// caller owns the context: it must be driven with Step and released with
// Stop. The supplied ctx is used for tracing spans only; the engine does
// not watch it for cancellation.
func (r *Runner) Start(ctx context.Context) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.New().String()
	r.log.Debug("Starting execution context", "run_id", runID)
	return &Context{
		ctx:     ctx,
		runID:   runID,
		phase:   phaseInit,
		started: time.Now(),
	}
}

// Step advances the context by one unit of work and reports whether more
// steps remain. At most one hook or test invocation happens per call. A
// nil or structurally invalid context reports no further steps. A contract
// violation (a test body not returning a types.Check) terminates the run
// and is returned as an error.
func (r *Runner) Step(c *Context) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("execution context is nil")
	}

	switch c.phase {
	case phaseInit:
		scripts := r.enumerator.Enumerate()
		c.discovery = discover.NewDiscovery(r.classifier, scripts, r.log)
		c.phase = phaseDiscovery
		r.log.Debug("Execution context initialized", "run_id", c.runID, "len(scripts)", len(scripts))
		return true, nil

	case phaseDiscovery:
		if !c.discovery.Step() {
			c.Metadata = c.discovery.Model()
			c.discovery = nil
			c.phase = phaseExecInit
			r.log.Debug("Discovery complete",
				"run_id", c.runID,
				"groups", c.Metadata.Len(),
				"tests", c.Metadata.TestCount())
		}
		return true, nil

	case phaseExecInit:
		c.exec = newExecution(c.Metadata)
		c.Results = c.exec.results
		c.phase = phaseExecution
		return true, nil

	case phaseExecution:
		more, err := r.execStep(c)
		if err != nil {
			c.phase = phaseDone
			return false, err
		}
		if !more {
			c.exec = nil
			c.phase = phaseDone
			r.log.Debug("Execution complete", "run_id", c.runID)
		}
		return more, nil

	case phaseDone, phaseStopped:
		return false, nil

	default:
		// Unknown phase means the context was corrupted; refuse to touch it
		// further rather than guessing.
		r.log.Error("Malformed execution context", "run_id", c.runID, "phase", c.phase)
		return false, fmt.Errorf("malformed execution context: unknown phase %d", c.phase)
	}
}

// Stop releases the context's owned models. The context must not be used
// afterward; Step on a stopped context reports no further steps.
func (r *Runner) Stop(c *Context) {
	if c == nil {
		return
	}
	r.log.Debug("Stopping execution context", "run_id", c.runID, "phase", c.phase)
	c.discovery = nil
	c.exec = nil
	c.Metadata = nil
	c.Results = nil
	c.phase = phaseStopped
}

// RunAll performs a complete run in one call: Start, Step until exhausted,
// then Stop. The incremental engine is the only implementation; this is
// the monolithic convenience form.
func (r *Runner) RunAll(ctx context.Context) (*RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "scriptcheck.run")
		defer span.End()
	}

	c := r.Start(ctx)
	defer r.Stop(c)

	for {
		more, err := r.Step(c)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	stats := c.Results.Stats()
	result := &RunResult{
		RunID:    c.runID,
		Metadata: c.Metadata,
		Results:  c.Results,
		Stats:    stats,
		Status:   stats.Status(),
		Duration: time.Since(c.started),
	}
	r.log.Info("Run complete",
		"run_id", result.RunID,
		"status", result.Status,
		"total", stats.Total,
		"passed", stats.Passed,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"duration", result.Duration)

	// Detach the models from the context before Stop releases it.
	c.Metadata = nil
	c.Results = nil

	return result, nil
}

// testSpan wraps a test invocation in a tracing span when a tracer is
// configured.
func (r *Runner) testSpan(c *Context, name, group string) func() {
	if r.tracer == nil {
		return func() {}
	}
	_, span := r.tracer.Start(c.ctx, "scriptcheck.test",
		trace.WithAttributes(
			attribute.String("scriptcheck.run_id", c.runID),
			attribute.String("scriptcheck.script", name),
			attribute.String("scriptcheck.group", group),
		))
	return func() { span.End() }
}
