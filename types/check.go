package types

// Check is the typed record a test body returns to describe its assertion.
// A test that does not return a Check violates the declaration convention
// and is surfaced by the engine as a contract violation.
type Check struct {
	Expected any
	Actual   any

	// Comparator optionally supplies custom equality semantics. When nil,
	// the engine compares Expected and Actual with native equality guarded
	// by a dynamic-type check.
	Comparator *ScriptRef

	// ExtraArg is passed as a third argument to the comparator when
	// HasExtraArg is set.
	ExtraArg    any
	HasExtraArg bool
}

// Expect builds a Check comparing expected against actual with the
// default equality rules.
func Expect(expected, actual any) Check {
	return Check{Expected: expected, Actual: actual}
}

// Using returns a copy of the check that delegates equality to cmp.
func (c Check) Using(cmp ScriptRef) Check {
	c.Comparator = &cmp
	return c
}

// WithArg returns a copy of the check whose comparator receives arg as a
// third argument.
func (c Check) WithArg(arg any) Check {
	c.ExtraArg = arg
	c.HasExtraArg = true
	return c
}
