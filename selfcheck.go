package scriptcheck

import (
	"fmt"
	"math"

	"github.com/scriptcheck/scriptcheck/registry"
	"github.com/scriptcheck/scriptcheck/types"
)

// RegisterSelfCheck populates reg with the built-in smoke scripts. They
// exercise the full declaration convention (global and suite hooks, the
// sentinel group, custom comparators) and are all expected to pass.
func RegisterSelfCheck(reg *registry.Registry) error {
	approx := types.ScriptRef{
		Name: "approx_equal",
		Fn: func(args ...any) any {
			expected, ok1 := args[0].(float64)
			actual, ok2 := args[1].(float64)
			if !ok1 || !ok2 {
				return false
			}
			tolerance := 1e-9
			if len(args) > 2 {
				if t, ok := args[2].(float64); ok {
					tolerance = t
				}
			}
			return math.Abs(expected-actual) <= tolerance
		},
	}

	scripts := []struct {
		name string
		fn   types.ScriptFn
	}{
		{"before_all", func(...any) any { return true }},
		{"ut_concat", func(...any) any {
			return types.Expect("smoke", "smo"+"ke")
		}},
		{"before_all_math", func(...any) any { return true }},
		{"ut_add__math", func(...any) any {
			return types.Expect(4, 2+2)
		}},
		{"ut_approx__math", func(...any) any {
			return types.Expect(0.3, 0.1+0.2).Using(approx).WithArg(1e-6)
		}},
		{"after_all_math", func(...any) any { return nil }},
	}

	for _, s := range scripts {
		if err := reg.Register(s.name, s.fn); err != nil {
			return fmt.Errorf("failed to register self-check script %q: %w", s.name, err)
		}
	}
	return nil
}
