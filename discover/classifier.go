// Package discover classifies host scripts by naming convention and folds
// them into a suite metadata model, one script at a time.
package discover

import (
	"strings"

	"github.com/scriptcheck/scriptcheck/types"
)

// Role is the lifecycle role a script name maps to.
type Role int

const (
	RoleNone Role = iota
	RoleBeforeAll
	RoleBeforeEach
	RoleAfterEach
	RoleAfterAll
	RoleTest
)

func (r Role) String() string {
	switch r {
	case RoleBeforeAll:
		return "before_all"
	case RoleBeforeEach:
		return "before_each"
	case RoleAfterEach:
		return "after_each"
	case RoleAfterAll:
		return "after_all"
	case RoleTest:
		return "test"
	default:
		return "none"
	}
}

// Classification is the result of mapping a script name to its lifecycle
// role and suite group. Group is meaningless when Role is RoleNone.
type Classification struct {
	Role  Role
	Group string
}

// DefaultTestPrefix marks test-case scripts when no override is configured.
const DefaultTestPrefix = "ut_"

// groupSeparator splits a test name's group from its title.
const groupSeparator = "__"

// hookRoots are checked in order; each root matches both the exact global
// form ("before_all") and the suite-scoped prefix form ("before_all_<group>").
var hookRoots = []struct {
	name string
	role Role
}{
	{"before_all", RoleBeforeAll},
	{"before_each", RoleBeforeEach},
	{"after_each", RoleAfterEach},
	{"after_all", RoleAfterAll},
}

// Classifier maps script names to classifications. The zero value uses
// DefaultTestPrefix.
type Classifier struct {
	// TestPrefix marks test-case scripts; hook names are fixed.
	TestPrefix string
}

// Classify is pure and total: any string maps to exactly one classification,
// and the same name always maps to the same result.
//
// Hook names are matched before the test prefix. Hooks and tests can share
// a leading prefix, so testing the test-case rule first would misclassify
// hooks as tests.
func (c Classifier) Classify(name string) Classification {
	for _, root := range hookRoots {
		if name == root.name {
			return Classification{Role: root.role, Group: types.GlobalGroup}
		}
	}
	for _, root := range hookRoots {
		if rest, ok := strings.CutPrefix(name, root.name+"_"); ok {
			// The group may be the empty string ("before_all_"), which is a
			// real group distinct from the global sentinel.
			return Classification{Role: root.role, Group: rest}
		}
	}

	prefix := c.TestPrefix
	if prefix == "" {
		prefix = DefaultTestPrefix
	}
	if rest, ok := strings.CutPrefix(name, prefix); ok {
		if group, _, found := strings.Cut(rest, groupSeparator); found {
			return Classification{Role: RoleTest, Group: group}
		}
		return Classification{Role: RoleTest, Group: types.GlobalGroup}
	}

	return Classification{Role: RoleNone}
}
