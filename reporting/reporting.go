// Package reporting renders run results for humans. It only ever traverses
// the results model read-only, in the order the engine produced it.
package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/scriptcheck/scriptcheck/runner"
	"github.com/scriptcheck/scriptcheck/types"
)

// ResultFormatter is responsible for formatting and displaying run results.
type ResultFormatter interface {
	FormatResults(result *runner.RunResult) error
}

// ConsoleResultFormatter renders run results as a table on a writer,
// one row per suite and per test, with expected/actual detail for
// failures.
type ConsoleResultFormatter struct {
	logger log.Logger
	out    io.Writer
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter writing
// to stdout.
func NewConsoleResultFormatter(logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
		out:    os.Stdout,
	}
}

// NewConsoleResultFormatterWriter creates a formatter writing to w.
func NewConsoleResultFormatterWriter(logger log.Logger, w io.Writer) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
		out:    w,
	}
}

// FormatResults formats and displays the run results.
func (f *ConsoleResultFormatter) FormatResults(result *runner.RunResult) error {
	f.logger.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Script Check Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "Name", "Tests", "Passed", "Failed", "Skipped", "Status", "Detail",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "Name", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Detail", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, group := range result.Results.Groups() {
		tests := result.Results.Suite(group)
		stats := result.Results.SuiteStats(group)

		t.AppendRow(table.Row{
			"Suite",
			displayGroup(group),
			"-",
			stats.Passed,
			stats.Failed,
			stats.Skipped,
			resultString(stats.Status()),
			"",
		})

		for i, test := range tests {
			prefix := "├─"
			if i == len(tests)-1 {
				prefix = "└─"
			}

			t.AppendRow(table.Row{
				"",
				fmt.Sprintf("%s %s", prefix, test.Test.Name),
				"1",
				boolToInt(test.Outcome == types.OutcomePass),
				boolToInt(test.Outcome == types.OutcomeFail),
				boolToInt(test.Outcome == types.OutcomeSkip),
				resultString(test.Outcome),
				failureDetail(test),
			})
		}

		t.AppendSeparator()
	}

	if result.Status == types.OutcomePass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else if result.Status == types.OutcomeSkip {
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed,
		result.Stats.Skipped,
		resultString(result.Status),
		"",
	})

	t.Render()

	return nil
}

// failureDetail renders the expected/actual values and comparator name for
// a failed test; passing and skipped tests carry no detail.
func failureDetail(test *types.TestResult) string {
	if test.Outcome != types.OutcomeFail {
		return ""
	}
	detail := fmt.Sprintf("expected %v (%T), got %v (%T)",
		test.Expected, test.Expected, test.Actual, test.Actual)
	if name := test.ComparatorName(); name != "" {
		detail += fmt.Sprintf(" [comparator %s]", name)
	}
	return detail
}

// displayGroup gives the sentinel group a readable name in reports.
func displayGroup(group string) string {
	switch group {
	case types.GlobalGroup:
		return "(ungrouped)"
	case "":
		return `""`
	default:
		return group
	}
}

// resultString returns a marked string representing the test result.
func resultString(outcome types.Outcome) string {
	switch outcome {
	case types.OutcomePass:
		return "✓ pass"
	case types.OutcomeSkip:
		return "- skip"
	default:
		return "✗ fail"
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatDuration formats a duration to seconds with 1 decimal place.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// SummaryFormatter renders a compact one-line-per-test plain text summary,
// suitable for log files.
type SummaryFormatter struct {
	out io.Writer
}

// NewSummaryFormatter creates a SummaryFormatter writing to w.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{out: w}
}

// FormatResults writes the plain-text summary of a run.
func (f *SummaryFormatter) FormatResults(result *runner.RunResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %s (%d total, %d passed, %d failed, %d skipped)\n",
		result.RunID, result.Status,
		result.Stats.Total, result.Stats.Passed, result.Stats.Failed, result.Stats.Skipped)
	for _, group := range result.Results.Groups() {
		fmt.Fprintf(&b, "%s:\n", displayGroup(group))
		for _, test := range result.Results.Suite(group) {
			line := fmt.Sprintf("  %s %s", resultString(test.Outcome), test.Test.Name)
			if detail := failureDetail(test); detail != "" {
				line += ": " + detail
			}
			fmt.Fprintln(&b, line)
		}
	}
	_, err := io.WriteString(f.out, b.String())
	return err
}
