// Package probe runs a planned option's probe schedule against an
// isolated child, turning captured output into existence and binding
// verdicts (spec §4.5). It is the seam where isolate, signal, and infer
// meet.
package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/surfacectl/surfacectl/internal/contract"
	"github.com/surfacectl/surfacectl/internal/hashing"
	"github.com/surfacectl/surfacectl/internal/isolate"
	"github.com/surfacectl/surfacectl/internal/schema"
	"github.com/surfacectl/surfacectl/internal/surface/infer"
	"github.com/surfacectl/surfacectl/internal/surface/signal"
)

// Executor runs a single child invocation in a fixed mode, against a fixed
// binary and fixture root, within a fixed resource envelope.
type Executor struct {
	ExecPath     string // argv[0] form, preserving multi-call-binary semantics
	ResolvedPath string // canonical path; only used to populate the sandbox
	FixtureRoot  string
	Mode         isolate.Mode
	Limits       isolate.Limits
	Pace         *rate.Limiter // optional; throttles successive child spawns
}

// Run executes one child invocation with the given argv, satisfying
// selfreport.Runner so an Executor doubles as the help/version/usage-error
// collector's isolated-execution backend.
func (e *Executor) Run(args []string) (isolate.Result, error) {
	return e.run(args)
}

func (e *Executor) run(args []string) (isolate.Result, error) {
	if e.Pace != nil {
		_ = e.Pace.Wait(context.Background())
	}
	switch e.Mode {
	case isolate.ModeSandboxed:
		return isolate.RunSandboxed(e.ExecPath, e.ResolvedPath, args, e.FixtureRoot, e.Limits)
	default:
		return isolate.RunDirect(e.ExecPath, args, e.FixtureRoot, e.Limits)
	}
}

// BuildArgv constructs the child argv for one probe type (spec §4.5). hint
// is the help parser's form hint for the option, or nil when no hint was
// recorded.
func BuildArgv(probeType schema.ProbeType, option string, hint *schema.BindingHint) []string {
	switch probeType {
	case schema.ProbeExistence:
		return []string{option, "--help"}
	case schema.ProbeOptionAtEnd:
		return []string{option}
	case schema.ProbeInvalidValue:
		attached := strings.HasPrefix(option, "--")
		if hint != nil {
			attached = hint.Form == schema.FormAttached
		}
		var argv []string
		if attached {
			argv = []string{option + "=" + signal.DummyValue}
		} else {
			argv = []string{option, signal.DummyValue}
		}
		return append(argv, "--help")
	default:
		return nil
	}
}

// attempt runs one probe and produces both its auditable Evidence (hashes
// only, never raw bytes) and the AttemptAnalysis derived from the raw
// captured text, plus the raw stdout/stderr for rules that need to
// re-scan the text directly (e.g. the unattributed-marker existence check).
//
// A non-nil error here means the sandbox itself could not be constructed
// (isolate.SetupError): that is fatal and must propagate rather than be
// absorbed, per spec §4.1/§7 — "the probe executor never silently falls
// back." An ordinary per-probe spawn failure is absorbed into the
// returned AttemptAnalysis/Evidence instead and never returns an error.
func (e *Executor) attempt(option string, probeType schema.ProbeType, hint *schema.BindingHint) (schema.AttemptAnalysis, schema.Evidence, string, string, error) {
	args := BuildArgv(probeType, option, hint)
	env := contract.Env()

	res, err := e.run(args)
	if err != nil {
		var setupErr *isolate.SetupError
		if errors.As(err, &setupErr) {
			return schema.AttemptAnalysis{}, schema.Evidence{}, "", "", fmt.Errorf("sandbox setup: %w", err)
		}
		analysis := schema.AttemptAnalysis{Notes: []string{fmt.Sprintf("spawn failed: %v", err)}}
		evidence := schema.Evidence{Args: args, Env: env, Notes: analysis.Notes}
		return analysis, evidence, "", "", nil
	}

	stdout := string(res.Stdout)
	stderr := string(res.Stderr)

	analysis := signal.Analyze(option, res.ExitCode, stdout, stderr)
	if res.TimedOut {
		analysis.Notes = append(analysis.Notes, "probe exceeded wall-clock deadline")
	}

	evidence := schema.Evidence{
		Args:       args,
		Env:        env,
		ExitCode:   res.ExitCode,
		StdoutHash: hashing.Hex([]byte(stdout)),
		StderrHash: hashing.Hex([]byte(stderr)),
		Notes:      analysis.Notes,
	}
	return analysis, evidence, stdout, stderr, nil
}

// classifyExistence applies the per-probe existence rule (spec §4.5).
func classifyExistence(a schema.AttemptAnalysis, stdout, stderr string) (schema.ValidationStatus, string) {
	if a.ExitCode == nil {
		for _, n := range a.Notes {
			if strings.HasPrefix(n, "spawn failed:") {
				return schema.StatusUndetermined, n
			}
		}
		return schema.StatusUndetermined, "terminated without exit code"
	}
	if a.Unrecognized {
		return schema.StatusRefuted, "unrecognized option response"
	}
	if signal.UnrecognizedMarkerPresent(stdout, stderr) {
		return schema.StatusUndetermined, "unrecognized option marker present without attribution"
	}
	if a.Ambiguous {
		return schema.StatusUndetermined, "ambiguous option response"
	}
	reason := "option recognized"
	if (a.ExitCode != nil && *a.ExitCode != 0) || a.ArgumentError {
		reason = "option recognized (non-zero exit or argument-error signal noted)"
	}
	return schema.StatusConfirmed, reason
}

// RunOption executes planned.Probes in order against option, applying the
// stop rules between probes, and returns the assembled OptionSurface. A
// non-nil error means a probe's sandbox could not be set up at all
// (isolate.SetupError) — fatal for the whole run, per spec §4.1/§7.
func (e *Executor) RunOption(planned schema.PlannedOption, hint *schema.BindingHint, stop schema.StopRules) (schema.OptionSurface, error) {
	option := planned.Option

	var existenceTier schema.TierResult
	existenceTier.Status = schema.StatusUndetermined

	var existenceAnalysis, invalidAnalysis schema.AttemptAnalysis
	var endAnalysis *schema.AttemptAnalysis
	var bindingEvidence []schema.Evidence
	existenceConfirmed := false

	for _, probeType := range planned.Probes {
		analysis, evidence, stdout, stderr, err := e.attempt(option, probeType, hint)
		if err != nil {
			return schema.OptionSurface{}, fmt.Errorf("option %s: %w", option, err)
		}

		switch probeType {
		case schema.ProbeExistence:
			status, reason := classifyExistence(analysis, stdout, stderr)
			existenceTier = schema.TierResult{Status: status, Reason: reason, Evidence: []schema.Evidence{evidence}}
			existenceAnalysis = analysis
			existenceConfirmed = status == schema.StatusConfirmed
			bindingEvidence = append(bindingEvidence, evidence)

			if stop.StopOnUnrecognized && status == schema.StatusRefuted {
				return finalize(option, existenceTier, existenceConfirmed, existenceAnalysis, invalidAnalysis, endAnalysis, hint, bindingEvidence), nil
			}

		case schema.ProbeInvalidValue:
			invalidAnalysis = analysis
			bindingEvidence = append(bindingEvidence, evidence)

		case schema.ProbeOptionAtEnd:
			a := analysis
			endAnalysis = &a
			bindingEvidence = append(bindingEvidence, evidence)
		}

		if stop.StopOnBindingConfirmed && existenceConfirmed {
			tentative := infer.Decide(infer.Input{
				ExistenceConfirmed: existenceConfirmed,
				FormHint:           hint,
				Missing:            existenceAnalysis,
				Invalid:            invalidAnalysis,
				End:                endAnalysis,
			})
			if tentative.Status == schema.StatusConfirmed && tentative.Kind != nil {
				break
			}
		}
	}

	return finalize(option, existenceTier, existenceConfirmed, existenceAnalysis, invalidAnalysis, endAnalysis, hint, bindingEvidence), nil
}

func finalize(
	option string,
	existenceTier schema.TierResult,
	existenceConfirmed bool,
	existenceAnalysis, invalidAnalysis schema.AttemptAnalysis,
	endAnalysis *schema.AttemptAnalysis,
	hint *schema.BindingHint,
	bindingEvidence []schema.Evidence,
) schema.OptionSurface {
	decision := infer.Decide(infer.Input{
		ExistenceConfirmed: existenceConfirmed,
		FormHint:           hint,
		Missing:            existenceAnalysis,
		Invalid:            invalidAnalysis,
		End:                endAnalysis,
	})

	binding := schema.BindingResult{
		Status:   decision.Status,
		Kind:     decision.Kind,
		Reason:   decision.Reason,
		Evidence: bindingEvidence,
	}

	return schema.OptionSurface{Option: option, Existence: existenceTier, Binding: binding}
}
