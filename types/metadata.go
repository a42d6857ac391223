package types

// GlobalGroup is the sentinel group holding ungrouped tests and the truly
// global hooks. It is distinct from the empty-string group, which is a
// regular (if oddly named) suite.
const GlobalGroup = "."

// SuiteMetadata records the hooks and tests discovered for one group.
// Hook fields are nil until a script of the corresponding role is seen;
// when the same hook is declared twice the later declaration wins.
type SuiteMetadata struct {
	BeforeAll  *ScriptRef
	BeforeEach *ScriptRef
	AfterEach  *ScriptRef
	AfterAll   *ScriptRef
	Tests      []ScriptRef
}

// MetadataModel is the hierarchical record of discovered suites, keyed by
// group name and ordered by first appearance. Every key in the map appears
// exactly once in the order, and vice versa.
type MetadataModel struct {
	suites map[string]*SuiteMetadata
	order  []string
}

// NewMetadataModel returns an empty model.
func NewMetadataModel() *MetadataModel {
	return &MetadataModel{suites: make(map[string]*SuiteMetadata)}
}

// Suite returns the metadata for group, creating it on first use. Creation
// appends the group to the discovery order before anything is recorded in
// it.
func (m *MetadataModel) Suite(group string) *SuiteMetadata {
	if s, ok := m.suites[group]; ok {
		return s
	}
	s := &SuiteMetadata{}
	m.suites[group] = s
	m.order = append(m.order, group)
	return s
}

// Lookup returns the metadata for group without creating it.
func (m *MetadataModel) Lookup(group string) (*SuiteMetadata, bool) {
	s, ok := m.suites[group]
	return s, ok
}

// Groups returns the discovered group names in discovery order.
func (m *MetadataModel) Groups() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of discovered groups.
func (m *MetadataModel) Len() int {
	return len(m.order)
}

// TestCount returns the total number of discovered tests across all groups.
func (m *MetadataModel) TestCount() int {
	n := 0
	for _, s := range m.suites {
		n += len(s.Tests)
	}
	return n
}
