package errkind

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"input invalid", Wrap(InputInvalid, errors.New("bad path")), 2},
		{"help unavailable", Wrap(HelpUnavailable, errors.New("no help")), 3},
		{"parse empty", Wrap(ParseEmpty, errors.New("zero options")), 4},
		{"planner unavailable", Wrap(PlannerUnavailable, errors.New("no planner")), 5},
		{"planner protocol", Wrap(PlannerProtocol, errors.New("bad json")), 5},
		{"sandbox setup", Wrap(SandboxSetup, errors.New("no bwrap")), 6},
		{"unclassified error", errors.New("boom"), 1},
		{"wrapped kind survives fmt.Errorf", fmt.Errorf("context: %w", Wrap(InputInvalid, errors.New("bad"))), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(InputInvalid, nil); err != nil {
		t.Errorf("Wrap(kind, nil) = %v, want nil", err)
	}
}

func TestErrorUnwraps(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(InputInvalid, cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}
