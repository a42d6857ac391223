package runner

import (
	"context"
	"time"

	"github.com/scriptcheck/scriptcheck/discover"
	"github.com/scriptcheck/scriptcheck/types"
)

// phase is the coarse position of a context in its lifecycle. Sub-phase
// progress lives in the discovery and execution state values.
type phase int

const (
	phaseInit phase = iota
	phaseDiscovery
	phaseExecInit
	phaseExecution
	phaseDone
	phaseStopped
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "initialization"
	case phaseDiscovery:
		return "discovery"
	case phaseExecInit:
		return "execution-initialization"
	case phaseExecution:
		return "execution"
	case phaseDone:
		return "done"
	case phaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Context is the externally-owned, resumable state of one run. All
// progress lives here; no engine call stack survives between Step calls,
// so the caller may interleave arbitrary work between steps.
//
// The context exclusively owns Metadata and Results. Stop releases both;
// using a context after Stop is unsupported.
type Context struct {
	ctx     context.Context
	runID   string
	phase   phase
	started time.Time

	discovery *discover.Discovery
	exec      *execution

	// Metadata is populated once discovery completes.
	Metadata *types.MetadataModel
	// Results is populated incrementally during execution.
	Results *types.ResultsModel
}

// RunID identifies this run in logs, metrics and traces.
func (c *Context) RunID() string {
	return c.runID
}

// Phase names the context's current lifecycle phase.
func (c *Context) Phase() string {
	return c.phase.String()
}

// Done reports whether the run has finished (successfully or not).
func (c *Context) Done() bool {
	return c.phase == phaseDone || c.phase == phaseStopped
}
