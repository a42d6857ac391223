package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "SCRIPTCHECK"

// prefixEnvVars adds the application env-var prefix to a variable name.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	ConventionFile = &cli.StringFlag{
		Name:    "conventions",
		Value:   "",
		EnvVars: prefixEnvVars("CONVENTIONS"),
		Usage:   "Path to convention config file (eg. 'conventions.yaml')",
	}
	TestPrefix = &cli.StringFlag{
		Name:    "test-prefix",
		Value:   "",
		EnvVars: prefixEnvVars("TEST_PREFIX"),
		Usage:   "Name prefix marking test-case scripts (default 'ut_'); overridden by the convention file",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between test runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level: trace, debug, info, warn, error, crit",
	}
	SelfCheck = &cli.BoolFlag{
		Name:    "selfcheck",
		Value:   false,
		EnvVars: prefixEnvVars("SELFCHECK"),
		Usage:   "Run the built-in smoke-check scripts instead of a host registry",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	ConventionFile,
	TestPrefix,
	RunInterval,
	LogLevel,
	SelfCheck,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
