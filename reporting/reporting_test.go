package reporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcheck/scriptcheck/runner"
	"github.com/scriptcheck/scriptcheck/types"
)

func sampleResult() *runner.RunResult {
	results := types.NewResultsModel()
	results.Append(types.GlobalGroup, &types.TestResult{
		Test:    types.ScriptRef{Name: "ut_pass"},
		Outcome: types.OutcomePass,
	})
	results.Append("math", &types.TestResult{
		Test:       types.ScriptRef{Name: "ut_bad__math"},
		Outcome:    types.OutcomeFail,
		Expected:   5,
		Actual:     "5",
		Comparator: &types.ScriptRef{Name: "loose_equal"},
	})
	results.Append("math", &types.TestResult{
		Test:    types.ScriptRef{Name: "ut_skipped__math"},
		Outcome: types.OutcomeSkip,
	})

	stats := results.Stats()
	return &runner.RunResult{
		RunID:    "test-run",
		Results:  results,
		Stats:    stats,
		Status:   stats.Status(),
		Duration: 1500 * time.Millisecond,
	}
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleResultFormatterWriter(log.New(), &buf)

	require.NoError(t, f.FormatResults(sampleResult()))
	out := stripansi.Strip(buf.String())

	assert.Contains(t, out, "Script Check Results (1.5s)")
	assert.Contains(t, out, "(ungrouped)")
	assert.Contains(t, out, "math")
	assert.Contains(t, out, "ut_pass")
	assert.Contains(t, out, "✓ pass")
	assert.Contains(t, out, "✗ fail")
	assert.Contains(t, out, "- skip")
	// Failures carry expected/actual detail and the comparator's name
	assert.Contains(t, out, "expected 5 (int)")
	assert.Contains(t, out, `got 5 (string)`)
	assert.Contains(t, out, "loose_equal")
	assert.Contains(t, out, "TOTAL")
}

func TestConsoleFormatterPreservesEngineOrder(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleResultFormatterWriter(log.New(), &buf)
	require.NoError(t, f.FormatResults(sampleResult()))
	out := stripansi.Strip(buf.String())

	// The sentinel group ran first, so it must render first
	assert.Less(t, strings.Index(out, "ut_pass"), strings.Index(out, "ut_bad__math"))
	assert.Less(t, strings.Index(out, "ut_bad__math"), strings.Index(out, "ut_skipped__math"))
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewSummaryFormatter(&buf)

	require.NoError(t, f.FormatResults(sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "run test-run: fail (3 total, 1 passed, 1 failed, 1 skipped)")
	assert.Contains(t, out, "✓ pass ut_pass")
	assert.Contains(t, out, "✗ fail ut_bad__math: expected 5 (int), got 5 (string) [comparator loose_equal]")
	assert.Contains(t, out, "- skip ut_skipped__math")
	// Skipped tests carry no detail beyond the marker
	assert.NotContains(t, out, "ut_skipped__math:")
}

func TestDisplayGroup(t *testing.T) {
	assert.Equal(t, "(ungrouped)", displayGroup(types.GlobalGroup))
	assert.Equal(t, `""`, displayGroup(""))
	assert.Equal(t, "math", displayGroup("math"))
}
