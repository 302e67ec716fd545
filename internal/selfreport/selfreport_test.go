package selfreport

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/surfacectl/surfacectl/internal/isolate"
	"github.com/surfacectl/surfacectl/internal/schema"
)

// fakeRunner maps an argv key (joined with a space) to a canned result.
type fakeRunner struct {
	results map[string]isolate.Result
	errs    map[string]error
	calls   [][]string
}

func exitCode(n int) *int { return &n }

func key(args []string) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		s += a
	}
	return s
}

func (f *fakeRunner) Run(args []string) (isolate.Result, error) {
	f.calls = append(f.calls, args)
	k := key(args)
	if err, ok := f.errs[k]; ok {
		return isolate.Result{}, err
	}
	if res, ok := f.results[k]; ok {
		return res, nil
	}
	return isolate.Result{ExitCode: exitCode(0)}, nil
}

func TestCollectUsesHelpWhenNonEmpty(t *testing.T) {
	r := &fakeRunner{results: map[string]isolate.Result{
		"--help":    {ExitCode: exitCode(0), Stdout: []byte("Usage: tool [OPTIONS]\n")},
		"--version": {ExitCode: exitCode(0), Stdout: []byte("tool 1.0\n")},
		UnknownFlag: {ExitCode: exitCode(2), Stderr: []byte("unrecognized option\n")},
	}}

	report, err := Collect(r)
	if err != nil {
		t.Fatalf("Collect() = %v", err)
	}
	if report.Help.Stdout != "Usage: tool [OPTIONS]\n" {
		t.Errorf("Help.Stdout = %q, want the --help output", report.Help.Stdout)
	}
	if report.Version.Stdout != "tool 1.0\n" {
		t.Errorf("Version.Stdout = %q, want the --version output", report.Version.Stdout)
	}
	if report.UsageError.Stderr != "unrecognized option\n" {
		t.Errorf("UsageError.Stderr = %q, want the unknown-flag stderr", report.UsageError.Stderr)
	}

	for _, call := range r.calls {
		if reflect.DeepEqual(call, []string{"-h"}) {
			t.Error("Collect() invoked -h even though --help produced output")
		}
	}
}

func TestCollectFallsBackToShortHelp(t *testing.T) {
	r := &fakeRunner{results: map[string]isolate.Result{
		"--help": {ExitCode: exitCode(2), Stdout: []byte(""), Stderr: []byte("")},
		"-h":     {ExitCode: exitCode(0), Stdout: []byte("usage: tool\n")},
	}}

	report, err := Collect(r)
	if err != nil {
		t.Fatalf("Collect() = %v", err)
	}
	if report.Help.Stdout != "usage: tool\n" {
		t.Errorf("Help.Stdout = %q, want the -h fallback output", report.Help.Stdout)
	}
}

func TestCollectHelpUnavailableWhenBothEmpty(t *testing.T) {
	r := &fakeRunner{results: map[string]isolate.Result{
		"--help": {ExitCode: exitCode(2)},
		"-h":     {ExitCode: exitCode(2)},
	}}

	if _, err := Collect(r); err == nil {
		t.Fatal("Collect() = nil error, want error when both --help and -h are empty")
	}
}

func TestCollectPropagatesRunError(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{
		"--help": fmt.Errorf("spawn failed"),
	}}

	if _, err := Collect(r); err == nil {
		t.Fatal("Collect() = nil error, want propagated spawn error")
	}
}

func TestCollectPropagatesSandboxSetupErrorUnwrappable(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{
		"--help": &isolate.SetupError{Cause: fmt.Errorf("bwrap not found")},
	}}

	_, err := Collect(r)
	if err == nil {
		t.Fatal("Collect() = nil error, want propagated sandbox setup error")
	}
	var setupErr *isolate.SetupError
	if !errors.As(err, &setupErr) {
		t.Errorf("Collect() error = %v, want it to unwrap to *isolate.SetupError so the caller can classify it as fatal SandboxSetup", err)
	}
}

func TestCanonicalHelpTextPrefersStdout(t *testing.T) {
	c := schema.CaptureOutput{Stdout: "from stdout", Stderr: "from stderr"}
	if got := CanonicalHelpText(c); got != "from stdout" {
		t.Errorf("CanonicalHelpText() = %q, want stdout preferred", got)
	}
}

func TestCanonicalHelpTextFallsBackToStderr(t *testing.T) {
	c := schema.CaptureOutput{Stdout: "", Stderr: "from stderr"}
	if got := CanonicalHelpText(c); got != "from stderr" {
		t.Errorf("CanonicalHelpText() = %q, want stderr fallback", got)
	}
}
