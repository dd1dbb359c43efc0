package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// Env is a configuration backed by environment variables.
type Env map[string]string

var _ schuko.Configuration = Env{}

// Environment snapshots the process environment.
func Environment() Env {
	return FromEnviron(os.Environ())
}

// FromEnviron creates a configuration from "key=value" pairs.
func FromEnviron(environ []string) Env {
	env := make(Env, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Key maps a dotted configuration key to an environment name:
// "tracing.adapter" becomes PRESENTON_TRACING_ADAPTER.
func Key(key string) string {
	if key == strings.ToUpper(key) {
		return key
	}
	return "PRESENTON_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// InitDefaults selects the Go logger for tracing, unless set otherwise.
func (e Env) InitDefaults() {
	if _, ok := e[Key("tracing")]; !ok {
		e[Key("tracing")] = "go"
	}
}

// IsSet is part of interface schuko.Configuration.
func (e Env) IsSet(key string) bool {
	_, ok := e[Key(key)]
	return ok
}

// GetString is part of interface schuko.Configuration.
func (e Env) GetString(key string) string {
	return e[Key(key)]
}

// GetInt is part of interface schuko.Configuration.
func (e Env) GetInt(key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(e[Key(key)]))
	return n
}

// GetBool is part of interface schuko.Configuration.
func (e Env) GetBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(e[Key(key)]))
	return b
}

// IsInteractive is part of interface schuko.Configuration. A service is
// never interactive.
func (e Env) IsInteractive() bool { return false }

func init() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
}

// SetupTracing installs the tracing adapter named by conf ("tracing"
// key) as the global trace selector, at the given level. An unknown
// adapter name selects a no-op tracer.
func SetupTracing(conf schuko.Configuration, level tracing.TraceLevel) {
	adapter := tracing.GetAdapterFromConfiguration(conf, "")
	tracing.SetTraceSelector(tracing.SelectorForAdapter(adapter))
	tracing.Select("presenton").SetTraceLevel(level)
	tracing.Select("presenton").Infof("tracing at level %s", level)
}
