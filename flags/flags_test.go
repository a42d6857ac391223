package flags

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlagNames asserts no two flags share a name
func TestUniqueFlagNames(t *testing.T) {
	seen := map[string]struct{}{}
	for _, f := range Flags {
		for _, name := range f.Names() {
			_, exists := seen[name]
			assert.False(t, exists, "duplicate flag name %q", name)
			seen[name] = struct{}{}
		}
	}
}

// TestEnvVarPrefix asserts every flag's env var carries the app prefix
func TestEnvVarPrefix(t *testing.T) {
	for _, f := range Flags {
		envFlag, ok := f.(interface{ GetEnvVars() []string })
		require.True(t, ok, "flag %v has no env vars", f.Names())
		for _, envVar := range envFlag.GetEnvVars() {
			assert.True(t, strings.HasPrefix(envVar, EnvVarPrefix+"_"),
				"env var %q must start with %s_", envVar, EnvVarPrefix)
		}
	}
}

func TestCheckRequired(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(cli.NewApp(), set, nil)
	assert.NoError(t, CheckRequired(ctx))
}
