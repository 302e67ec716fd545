// Package errkind classifies the fatal errors a surface extraction run
// can produce and maps each to its process exit code (spec §7).
package errkind

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of fatal error categories.
type Kind string

const (
	InputInvalid       Kind = "input_invalid"
	HelpUnavailable    Kind = "help_unavailable"
	ParseEmpty         Kind = "parse_empty"
	PlannerUnavailable Kind = "planner_unavailable"
	PlannerProtocol    Kind = "planner_protocol"
	SandboxSetup       Kind = "sandbox_setup"
)

// exitCodes fixes the process exit code for each fatal kind. Per-probe
// failures (ProbeSpawn, TimedOut) never reach here — they are absorbed
// into a probe's AttemptAnalysis and become Undetermined verdicts.
var exitCodes = map[Kind]int{
	InputInvalid:       2,
	HelpUnavailable:    3,
	ParseEmpty:         4,
	PlannerUnavailable: 5,
	PlannerProtocol:    5,
	SandboxSetup:       6,
}

// Error wraps a cause with the fatal kind it was classified under.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap tags err with kind, or returns nil if err is nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: err}
}

// ExitCode returns the process exit code for err: the fixed per-kind code
// if err is (or wraps) an *Error, 1 for any other non-nil error, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var kindErr *Error
	if errors.As(err, &kindErr) {
		if code, ok := exitCodes[kindErr.Kind]; ok {
			return code
		}
	}
	return 1
}
