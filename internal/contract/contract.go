// Package contract holds the environment contract enforced on every child
// invocation. It is not configuration: the values travel verbatim into every
// probe, never read from the ambient process environment.
package contract

import "github.com/surfacectl/surfacectl/internal/schema"

const (
	// EnvLCAll is the locale forced on every child for deterministic output.
	EnvLCAll = "C"
	// EnvTZ is the timezone forced on every child for deterministic timestamps.
	EnvTZ = "UTC"
	// EnvTerm is the terminal type forced on every child for non-interactive output.
	EnvTerm = "dumb"
	// EnvPath is the minimal PATH exposed to every child.
	EnvPath = "/bin:/usr/bin"
)

// Env returns the fixed set of environment variables applied to a child
// after its environment has been cleared. Callers must never add to this
// map; it is the contract, not a base to extend.
func Env() map[string]string {
	return map[string]string{
		"LC_ALL": EnvLCAll,
		"TZ":     EnvTZ,
		"TERM":   EnvTerm,
		"PATH":   EnvPath,
	}
}

// EnvSlice returns the contract as a "KEY=VALUE" slice suitable for
// exec.Cmd.Env, which always starts from a cleared environment.
func EnvSlice() []string {
	return []string{
		"LC_ALL=" + EnvLCAll,
		"TZ=" + EnvTZ,
		"TERM=" + EnvTerm,
		"PATH=" + EnvPath,
	}
}

// Snapshot returns the contract expressed as the report's EnvSnapshot shape.
func Snapshot() schema.EnvSnapshot {
	return schema.EnvSnapshot{Locale: EnvLCAll, TZ: EnvTZ, Term: EnvTerm}
}
