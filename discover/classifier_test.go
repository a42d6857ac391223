package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptcheck/scriptcheck/types"
)

func TestClassify(t *testing.T) {
	c := Classifier{}

	tests := []struct {
		name  string
		input string
		role  Role
		group string
	}{
		// Exact hook names map to the global group
		{"global before_all", "before_all", RoleBeforeAll, types.GlobalGroup},
		{"global before_each", "before_each", RoleBeforeEach, types.GlobalGroup},
		{"global after_each", "after_each", RoleAfterEach, types.GlobalGroup},
		{"global after_all", "after_all", RoleAfterAll, types.GlobalGroup},

		// Suite-scoped hooks carry the group after the underscore
		{"suite before_all", "before_all_math", RoleBeforeAll, "math"},
		{"suite before_each", "before_each_math", RoleBeforeEach, "math"},
		{"suite after_each", "after_each_io", RoleAfterEach, "io"},
		{"suite after_all", "after_all_io", RoleAfterAll, "io"},
		{"suite hook with empty group", "before_all_", RoleBeforeAll, ""},
		{"suite hook group keeps underscores", "after_all_two_words", RoleAfterAll, "two_words"},

		// Test cases: prefix stripped, group split at first "__"
		{"ungrouped test", "ut_adds", RoleTest, types.GlobalGroup},
		{"grouped test", "ut_math__adds", RoleTest, "math"},
		{"group stops at first separator", "ut_math__a__b", RoleTest, "math"},
		{"empty group is not the sentinel", "ut___adds", RoleTest, ""},
		{"test name may be empty after prefix", "ut_", RoleTest, types.GlobalGroup},

		// Everything else is not a test artifact
		{"unrelated name", "helper_fn", RoleNone, ""},
		{"empty name", "", RoleNone, ""},
		{"prefix must match exactly", "Ut_adds", RoleNone, ""},
		{"hook root alone is not a hook", "before", RoleNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := c.Classify(tt.input)
			assert.Equal(t, tt.role, cls.Role)
			if tt.role != RoleNone {
				assert.Equal(t, tt.group, cls.Group)
			}
		})
	}
}

// Hook names must be classified before the test prefix is tried: with a
// prefix that is itself a hook-name prefix, hooks would otherwise be
// misclassified as tests.
func TestClassifyHookBeforeTestPrefix(t *testing.T) {
	c := Classifier{TestPrefix: "before_"}

	cls := c.Classify("before_all_math")
	assert.Equal(t, RoleBeforeAll, cls.Role)
	assert.Equal(t, "math", cls.Group)

	cls = c.Classify("before_mine")
	assert.Equal(t, RoleTest, cls.Role)
	assert.Equal(t, types.GlobalGroup, cls.Group)
}

func TestClassifyCustomPrefix(t *testing.T) {
	c := Classifier{TestPrefix: "spec_"}

	assert.Equal(t, Classification{Role: RoleTest, Group: "api"}, c.Classify("spec_api__get"))
	assert.Equal(t, RoleNone, c.Classify("ut_api__get").Role)
}

func TestClassifyDeterministic(t *testing.T) {
	c := Classifier{}
	names := []string{"before_all", "ut_a", "ut_b__g", "nope", "", "after_each_x"}
	for _, name := range names {
		first := c.Classify(name)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, c.Classify(name), "classification of %q must be stable", name)
		}
	}
}

func TestClassifyCaseSensitiveGroups(t *testing.T) {
	c := Classifier{}
	assert.Equal(t, "Math", c.Classify("ut_Math__adds").Group)
	assert.Equal(t, "math", c.Classify("ut_math__adds").Group)
}
