package types

// Outcome represents the possible states of a single test execution.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
	OutcomeSkip Outcome = "skip"
)

// TestResult captures the outcome of one test. Expected, Actual, the
// comparator and its extra argument are recorded only for executed tests;
// a skipped test carries nothing beyond its reference and outcome.
type TestResult struct {
	Test    ScriptRef
	Outcome Outcome

	Expected any
	Actual   any

	// Comparator is the custom equality script used, nil when the default
	// equality check applied.
	Comparator  *ScriptRef
	ExtraArg    any
	HasExtraArg bool
}

// ComparatorName returns the comparator's name, or empty when the default
// equality check was used.
func (r *TestResult) ComparatorName() string {
	if r.Comparator == nil {
		return ""
	}
	return r.Comparator.Name
}

// ResultsModel mirrors the MetadataModel's shape: per group, the ordered
// results of that group's tests, in the same order they were discovered.
type ResultsModel struct {
	suites map[string][]*TestResult
	order  []string
}

// NewResultsModel returns an empty results model.
func NewResultsModel() *ResultsModel {
	return &ResultsModel{suites: make(map[string][]*TestResult)}
}

// Append records a result under group, creating the group on first use.
func (m *ResultsModel) Append(group string, r *TestResult) {
	if _, ok := m.suites[group]; !ok {
		m.order = append(m.order, group)
	}
	m.suites[group] = append(m.suites[group], r)
}

// Ensure adds group to the model with no results yet, so a group with no
// executed tests still appears in the group order.
func (m *ResultsModel) Ensure(group string) {
	if _, ok := m.suites[group]; !ok {
		m.suites[group] = nil
		m.order = append(m.order, group)
	}
}

// Suite returns the recorded results for group in execution order.
func (m *ResultsModel) Suite(group string) []*TestResult {
	return m.suites[group]
}

// Groups returns the group names in the order results were first recorded.
func (m *ResultsModel) Groups() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Stats tracks pass/fail/skip counts at a given level.
type Stats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Add folds one outcome into the stats.
func (s *Stats) Add(o Outcome) {
	s.Total++
	switch o {
	case OutcomePass:
		s.Passed++
	case OutcomeFail:
		s.Failed++
	case OutcomeSkip:
		s.Skipped++
	}
}

// Stats computes the aggregate counts over every recorded result.
func (m *ResultsModel) Stats() Stats {
	var s Stats
	for _, results := range m.suites {
		for _, r := range results {
			s.Add(r.Outcome)
		}
	}
	return s
}

// SuiteStats computes the counts for a single group.
func (m *ResultsModel) SuiteStats(group string) Stats {
	var s Stats
	for _, r := range m.suites[group] {
		s.Add(r.Outcome)
	}
	return s
}

// Status reduces stats to an overall outcome: fail if anything failed,
// skip if everything was skipped, pass otherwise.
func (s Stats) Status() Outcome {
	switch {
	case s.Failed > 0:
		return OutcomeFail
	case s.Total > 0 && s.Skipped == s.Total:
		return OutcomeSkip
	default:
		return OutcomePass
	}
}
