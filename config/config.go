// Package config loads solver tunables from flags and environment: a
// flat struct, namsral/flag parsing a single FlagSet for command-line
// use, plus an optional spf13/viper pass so tunables can also come from
// a config file or env vars in a deployed (Lambda) setting.
package config

import (
	"github.com/namsral/flag"
	"github.com/spf13/viper"
)

// Config holds every runtime-tunable knob the solver reads. Unlike
// movesearch.MaxPickupDepth, these are deliberately NOT constants: the
// default time budget and memo-cache size are deployment concerns, not
// algorithm shape.
type Config struct {
	DefaultTimeLimitMs int
	MemoMemoryFraction float64
	Debug              bool
}

// Load parses args (typically os.Args[1:]) into a Config, falling back
// to the documented defaults when a flag isn't given.
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("rummisolve", flag.ContinueOnError)
	fs.IntVar(&c.DefaultTimeLimitMs, "default-time-limit-ms", 2000,
		"default wall-clock budget for a solve when the request omits one")
	fs.Float64Var(&c.MemoMemoryFraction, "memo-memory-fraction", 0.01,
		"fraction of system memory to budget for the meld-search memo cache")
	fs.BoolVar(&c.Debug, "debug", false, "enable debug-level logging")
	return fs.Parse(args)
}

// LoadFromViper overlays values found in v (a config file or environment
// variables bound under the RUMMISOLVE_ prefix) on top of c's current
// values, so a deployment can configure itself without command-line
// flags.
func (c *Config) LoadFromViper(v *viper.Viper) {
	if v.IsSet("default_time_limit_ms") {
		c.DefaultTimeLimitMs = v.GetInt("default_time_limit_ms")
	}
	if v.IsSet("memo_memory_fraction") {
		c.MemoMemoryFraction = v.GetFloat64("memo_memory_fraction")
	}
	if v.IsSet("debug") {
		c.Debug = v.GetBool("debug")
	}
}

// NewViper builds a viper instance that reads RUMMISOLVE_-prefixed
// environment variables, since Lambda configuration arrives as env
// vars, not flags.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("rummisolve")
	v.AutomaticEnv()
	return v
}
