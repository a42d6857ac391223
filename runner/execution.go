package runner

import (
	"fmt"
	"reflect"

	"github.com/scriptcheck/scriptcheck/metrics"
	"github.com/scriptcheck/scriptcheck/types"
)

// execSub is the fine-grained position of the execution engine. Each value
// names the single piece of work the next step performs; transitions that
// perform no invocation still consume a step, which keeps every state
// change observable between two Step calls.
type execSub int

const (
	subGlobalBeforeAll execSub = iota
	subSuiteEnter
	subSuiteBeforeAll
	subTestBegin
	subGlobalBeforeEach
	subSuiteBeforeEach
	subTestInvoke
	subSuiteAfterEach
	subGlobalAfterEach
	subSuiteAfterAll
	subGlobalAfterAll
	subFinished
)

// execution is the resumable state of the execution phase. It holds no
// references to engine internals; everything needed to resume lives here.
type execution struct {
	meta    *types.MetadataModel
	results *types.ResultsModel
	groups  []string
	global  *types.SuiteMetadata // sentinel suite, nil when never declared

	sub        execSub
	groupIdx   int
	testIdx    int
	globalSkip bool
	suiteSkip  bool

	// current is the in-flight executed test's result, handed to the
	// afterEach hooks before the cursor moves on.
	current *types.TestResult
}

func newExecution(meta *types.MetadataModel) *execution {
	e := &execution{
		meta:    meta,
		results: types.NewResultsModel(),
		groups:  meta.Groups(),
		sub:     subGlobalBeforeAll,
	}
	if g, ok := meta.Lookup(types.GlobalGroup); ok {
		e.global = g
	}
	// Results mirror the discovered groups even when a group has no tests,
	// only hooks.
	for _, group := range e.groups {
		e.results.Ensure(group)
	}
	return e
}

func (e *execution) group() string {
	return e.groups[e.groupIdx]
}

func (e *execution) suite() *types.SuiteMetadata {
	s, _ := e.meta.Lookup(e.group())
	return s
}

// The sentinel group's hooks are global hooks; they never double as suite
// hooks for the sentinel group itself.

func (e *execution) globalBeforeEach() *types.ScriptRef {
	if e.global == nil {
		return nil
	}
	return e.global.BeforeEach
}

func (e *execution) globalAfterEach() *types.ScriptRef {
	if e.global == nil {
		return nil
	}
	return e.global.AfterEach
}

func (e *execution) suiteBeforeEach() *types.ScriptRef {
	if e.group() == types.GlobalGroup {
		return nil
	}
	return e.suite().BeforeEach
}

func (e *execution) suiteAfterEach() *types.ScriptRef {
	if e.group() == types.GlobalGroup {
		return nil
	}
	return e.suite().AfterEach
}

// record appends an executed test's result and parks it for the afterEach
// chain.
func (e *execution) record(runID string, res *types.TestResult) {
	e.results.Append(e.group(), res)
	e.current = res
	metrics.RecordScript(runID, e.group(), res.Test.Name, res.Outcome)
}

// recordSkip appends a Skipped result and moves the cursor to the next
// test. Skipped tests run no afterEach hooks.
func (e *execution) recordSkip(runID string, test types.ScriptRef) {
	res := &types.TestResult{Test: test, Outcome: types.OutcomeSkip}
	e.results.Append(e.group(), res)
	metrics.RecordScript(runID, e.group(), test.Name, types.OutcomeSkip)
	e.advanceTest()
}

// advanceTest moves the cursor past the current test.
func (e *execution) advanceTest() {
	e.current = nil
	e.testIdx++
	e.sub = subTestBegin
}

// execStep advances the execution engine by one unit of work: at most one
// hook or test invocation. It reports whether execution work remains.
func (r *Runner) execStep(c *Context) (bool, error) {
	e := c.exec

	switch e.sub {
	case subGlobalBeforeAll:
		if e.global != nil && e.global.BeforeAll != nil {
			e.globalSkip = !truthy(e.global.BeforeAll.Invoke())
			if e.globalSkip {
				r.log.Info("Global before_all requested skip; recording all tests as skipped", "run_id", c.runID)
			}
		}
		e.groupIdx = 0
		e.sub = subSuiteEnter
		return true, nil

	case subSuiteEnter:
		if e.groupIdx >= len(e.groups) {
			e.sub = subGlobalAfterAll
			return true, nil
		}
		e.testIdx = 0
		e.suiteSkip = false
		if e.group() != types.GlobalGroup && !e.globalSkip && e.suite().BeforeAll != nil {
			e.sub = subSuiteBeforeAll
		} else {
			e.sub = subTestBegin
		}
		return true, nil

	case subSuiteBeforeAll:
		e.suiteSkip = !truthy(e.suite().BeforeAll.Invoke())
		if e.suiteSkip {
			r.log.Debug("Suite before_all requested skip", "run_id", c.runID, "group", e.group())
		}
		e.sub = subTestBegin
		return true, nil

	case subTestBegin:
		suite := e.suite()
		if e.testIdx >= len(suite.Tests) {
			// Suite afterAll runs regardless of suite-level skips, but a
			// global skip suppresses every suite hook.
			if e.group() != types.GlobalGroup && !e.globalSkip && suite.AfterAll != nil {
				e.sub = subSuiteAfterAll
			} else {
				e.groupIdx++
				e.sub = subSuiteEnter
			}
			return true, nil
		}
		if e.globalSkip || e.suiteSkip {
			e.recordSkip(c.runID, suite.Tests[e.testIdx])
			return true, nil
		}
		switch {
		case e.globalBeforeEach() != nil:
			e.sub = subGlobalBeforeEach
		case e.suiteBeforeEach() != nil:
			e.sub = subSuiteBeforeEach
		default:
			e.sub = subTestInvoke
		}
		return true, nil

	case subGlobalBeforeEach:
		if !truthy(e.globalBeforeEach().Invoke()) {
			// A falsy global beforeEach short-circuits the suite beforeEach.
			e.recordSkip(c.runID, e.suite().Tests[e.testIdx])
			return true, nil
		}
		if e.suiteBeforeEach() != nil {
			e.sub = subSuiteBeforeEach
		} else {
			e.sub = subTestInvoke
		}
		return true, nil

	case subSuiteBeforeEach:
		if !truthy(e.suiteBeforeEach().Invoke()) {
			e.recordSkip(c.runID, e.suite().Tests[e.testIdx])
			return true, nil
		}
		e.sub = subTestInvoke
		return true, nil

	case subTestInvoke:
		test := e.suite().Tests[e.testIdx]
		end := r.testSpan(c, test.Name, e.group())
		ret := test.Invoke()
		end()

		chk, ok := ret.(types.Check)
		if !ok {
			metrics.RecordError("malformed_check")
			return false, fmt.Errorf("test %q returned %T, want types.Check", test.Name, ret)
		}

		res := &types.TestResult{
			Test:        test,
			Expected:    chk.Expected,
			Actual:      chk.Actual,
			Comparator:  chk.Comparator,
			ExtraArg:    chk.ExtraArg,
			HasExtraArg: chk.HasExtraArg,
		}
		if checkEqual(chk) {
			res.Outcome = types.OutcomePass
		} else {
			res.Outcome = types.OutcomeFail
			r.log.Debug("Test failed",
				"run_id", c.runID,
				"group", e.group(),
				"test", test.Name,
				"expected", chk.Expected,
				"actual", chk.Actual)
		}
		e.record(c.runID, res)

		switch {
		case e.suiteAfterEach() != nil:
			e.sub = subSuiteAfterEach
		case e.globalAfterEach() != nil:
			e.sub = subGlobalAfterEach
		default:
			e.advanceTest()
		}
		return true, nil

	case subSuiteAfterEach:
		e.suiteAfterEach().Invoke(e.current)
		if e.globalAfterEach() != nil {
			e.sub = subGlobalAfterEach
		} else {
			e.advanceTest()
		}
		return true, nil

	case subGlobalAfterEach:
		e.globalAfterEach().Invoke(e.current)
		e.advanceTest()
		return true, nil

	case subSuiteAfterAll:
		e.suite().AfterAll.Invoke(e.results.Suite(e.group()))
		e.groupIdx++
		e.sub = subSuiteEnter
		return true, nil

	case subGlobalAfterAll:
		e.sub = subFinished
		if e.global != nil && e.global.AfterAll != nil {
			e.global.AfterAll.Invoke(e.results)
		}
		return false, nil

	case subFinished:
		return false, nil

	default:
		return false, fmt.Errorf("malformed execution state: unknown sub-phase %d", e.sub)
	}
}

// checkEqual computes a check's equality. A comparator, when present, is
// authoritative; otherwise native deep equality applies, guarded by a
// dynamic-type check so values of differing types never compare equal.
func checkEqual(chk types.Check) bool {
	if chk.Comparator != nil {
		args := []any{chk.Expected, chk.Actual}
		if chk.HasExtraArg {
			args = append(args, chk.ExtraArg)
		}
		return truthy(chk.Comparator.Invoke(args...))
	}
	if reflect.TypeOf(chk.Expected) != reflect.TypeOf(chk.Actual) {
		return false
	}
	return reflect.DeepEqual(chk.Expected, chk.Actual)
}

// truthy interprets a hook's (or comparator's) return value. A nil return
// means the hook had no opinion and execution continues; false, numeric
// zero and the empty string skip.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return t
	case int:
		return t != 0
	case int8:
		return t != 0
	case int16:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint8:
		return t != 0
	case uint16:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
