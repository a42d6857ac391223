package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcheck/scriptcheck/types"
)

func noop(...any) any { return nil }

func refs(names ...string) []types.ScriptRef {
	out := make([]types.ScriptRef, 0, len(names))
	for _, name := range names {
		out = append(out, types.ScriptRef{Name: name, Fn: noop})
	}
	return out
}

func TestDiscoveryBuildsModel(t *testing.T) {
	scripts := refs("before_all", "ut_a", "ut_b__g", "before_all_g", "ut_c__g")
	d := NewDiscovery(Classifier{}, scripts, nil)
	model := d.Run()

	require.Equal(t, []string{types.GlobalGroup, "g"}, model.Groups())

	global, ok := model.Lookup(types.GlobalGroup)
	require.True(t, ok)
	require.NotNil(t, global.BeforeAll)
	assert.Equal(t, "before_all", global.BeforeAll.Name)
	require.Len(t, global.Tests, 1)
	assert.Equal(t, "ut_a", global.Tests[0].Name)

	g, ok := model.Lookup("g")
	require.True(t, ok)
	require.NotNil(t, g.BeforeAll)
	assert.Equal(t, "before_all_g", g.BeforeAll.Name)
	require.Len(t, g.Tests, 2)
	assert.Equal(t, "ut_b__g", g.Tests[0].Name)
	assert.Equal(t, "ut_c__g", g.Tests[1].Name)
}

func TestDiscoverySkipsNonArtifacts(t *testing.T) {
	scripts := refs("helper", "ut_a", "internal_state", "ut_b")
	model := NewDiscovery(Classifier{}, scripts, nil).Run()

	require.Equal(t, []string{types.GlobalGroup}, model.Groups())
	global, _ := model.Lookup(types.GlobalGroup)
	require.Len(t, global.Tests, 2)
	assert.Equal(t, "ut_a", global.Tests[0].Name)
	assert.Equal(t, "ut_b", global.Tests[1].Name)
}

func TestDiscoveryOneScriptPerStep(t *testing.T) {
	scripts := refs("ut_a", "helper", "ut_b__g")
	d := NewDiscovery(Classifier{}, scripts, nil)

	assert.False(t, d.Done())
	assert.True(t, d.Step())  // ut_a
	assert.True(t, d.Step())  // helper (skipped, still one step)
	assert.False(t, d.Step()) // ut_b__g exhausts the sequence
	assert.True(t, d.Done())
	assert.False(t, d.Step(), "further steps report no work")

	model := d.Model()
	assert.Equal(t, []string{types.GlobalGroup, "g"}, model.Groups())
}

// Re-running discovery over an unchanged enumeration yields an identical
// model.
func TestDiscoveryDeterministic(t *testing.T) {
	scripts := refs("before_all", "ut_b__g", "ut_a", "after_each_g", "ut_c__g")

	first := NewDiscovery(Classifier{}, scripts, nil).Run()
	second := NewDiscovery(Classifier{}, scripts, nil).Run()

	require.Equal(t, first.Groups(), second.Groups())
	for _, group := range first.Groups() {
		a, _ := first.Lookup(group)
		b, _ := second.Lookup(group)
		require.Len(t, b.Tests, len(a.Tests))
		for i := range a.Tests {
			assert.Equal(t, a.Tests[i].Name, b.Tests[i].Name)
		}
	}
}

func TestDiscoveryEmptyGroupIsDistinct(t *testing.T) {
	scripts := refs("ut___x", "ut_y", "before_all_")
	model := NewDiscovery(Classifier{}, scripts, nil).Run()

	require.Equal(t, []string{"", types.GlobalGroup}, model.Groups())

	empty, ok := model.Lookup("")
	require.True(t, ok)
	require.Len(t, empty.Tests, 1)
	assert.Equal(t, "ut___x", empty.Tests[0].Name)
	require.NotNil(t, empty.BeforeAll)

	global, ok := model.Lookup(types.GlobalGroup)
	require.True(t, ok)
	require.Len(t, global.Tests, 1)
	assert.Nil(t, global.BeforeAll)
}

func TestDiscoveryLastHookWins(t *testing.T) {
	scripts := []types.ScriptRef{
		{Name: "before_each_g", Fn: noop},
		{Name: "ut_t__g", Fn: noop},
		{Name: "before_each_g", Fn: noop},
	}
	// Duplicate names cannot come from the registry, but the engine accepts
	// whatever the enumerator yields; the later declaration wins.
	model := NewDiscovery(Classifier{}, scripts, nil).Run()
	g, ok := model.Lookup("g")
	require.True(t, ok)
	require.NotNil(t, g.BeforeEach)
}

func TestDiscoveryEmptyEnumeration(t *testing.T) {
	d := NewDiscovery(Classifier{}, nil, nil)
	assert.True(t, d.Done())
	assert.False(t, d.Step())
	assert.Equal(t, 0, d.Model().Len())
}
