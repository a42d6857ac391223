package scriptcheck

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcheck/scriptcheck/registry"
	"github.com/scriptcheck/scriptcheck/runner"
	"github.com/scriptcheck/scriptcheck/types"
)

func TestSelfCheckAllPass(t *testing.T) {
	reg, err := registry.NewRegistry(registry.Config{Log: log.New()})
	require.NoError(t, err)
	require.NoError(t, RegisterSelfCheck(reg))

	r, err := runner.NewRunner(runner.Config{Enumerator: reg, Log: log.New()})
	require.NoError(t, err)

	result, err := r.RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.OutcomePass, result.Status)
	assert.Equal(t, 0, result.Stats.Failed)
	assert.Equal(t, 0, result.Stats.Skipped)
	assert.Equal(t, 3, result.Stats.Total)

	// The smoke scripts cover both the sentinel group and a named suite
	assert.Equal(t, []string{types.GlobalGroup, "math"}, result.Results.Groups())

	// The approximate comparison records its comparator
	math := result.Results.Suite("math")
	require.Len(t, math, 2)
	assert.Equal(t, "approx_equal", math[1].ComparatorName())
}

func TestSelfCheckRegisterTwiceFails(t *testing.T) {
	reg, err := registry.NewRegistry(registry.Config{Log: log.New()})
	require.NoError(t, err)
	require.NoError(t, RegisterSelfCheck(reg))
	require.Error(t, RegisterSelfCheck(reg))
}
