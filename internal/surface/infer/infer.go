// Package infer applies the fixed 10-step decision order (spec §4.6) that
// turns a set of probe analyses into a binding verdict: ValidationStatus,
// an optional BindingKind, and a human-readable reason. Rule order is
// load-bearing — earlier, cleaner evidence overrides later heuristics.
package infer

import (
	"github.com/surfacectl/surfacectl/internal/schema"
)

// Input bundles the analyses the binding decision is made from. End is
// optional: nil when no option-at-end probe ran for this option.
type Input struct {
	ExistenceConfirmed bool
	FormHint           *schema.BindingHint
	Missing            schema.AttemptAnalysis
	Invalid            schema.AttemptAnalysis
	End                *schema.AttemptAnalysis
}

// Binding is the decision result: status, an optional kind (nil unless
// status is Confirmed), and the reason recorded alongside it.
type Binding struct {
	Status schema.ValidationStatus
	Kind   *schema.BindingKind
	Reason string
}

func kind(k schema.BindingKind) *schema.BindingKind { return &k }

// Decide runs the ordered rules against in, returning the first match.
func Decide(in Input) Binding {
	if !in.ExistenceConfirmed {
		return Binding{Status: schema.StatusUndetermined, Reason: "option existence not confirmed"}
	}

	if in.Missing.Unrecognized || in.Invalid.Unrecognized {
		return Binding{Status: schema.StatusUndetermined, Reason: "unrecognized option response"}
	}

	if in.Missing.Ambiguous || in.Invalid.Ambiguous {
		return Binding{Status: schema.StatusUndetermined, Reason: "ambiguous option response"}
	}

	if in.Missing.MissingArg {
		return Binding{Status: schema.StatusConfirmed, Kind: kind(schema.BindingRequired), Reason: "missing argument response observed"}
	}

	if in.Missing.InvalidArg {
		return Binding{
			Status: schema.StatusConfirmed,
			Kind:   kind(schema.BindingRequired),
			Reason: "invalid argument response observed for missing probe",
		}
	}

	if in.Invalid.ArgNotAllowed {
		return Binding{Status: schema.StatusConfirmed, Kind: kind(schema.BindingNoValue), Reason: "argument not allowed response observed"}
	}

	if in.Invalid.InvalidArg {
		if !in.Missing.HelpLike && in.Invalid.HelpLike {
			return Binding{
				Status: schema.StatusConfirmed,
				Kind:   kind(schema.BindingRequired),
				Reason: "missing probe likely consumed --help; invalid argument observed",
			}
		}
		return Binding{Status: schema.StatusConfirmed, Kind: kind(schema.BindingOptional), Reason: "invalid argument response observed"}
	}

	if exitedClean(in.Missing) && exitedClean(in.Invalid) {
		if in.FormHint != nil && in.FormHint.Form == schema.FormAttached {
			return Binding{Status: schema.StatusConfirmed, Kind: kind(schema.BindingOptional), Reason: "no argument errors detected with attached value"}
		}
		return Binding{Status: schema.StatusUndetermined, Reason: "no argument errors detected with trailing value"}
	}

	if in.End != nil && in.End.MissingArg && in.End.ExitCode != nil && *in.End.ExitCode != 0 {
		return Binding{
			Status: schema.StatusConfirmed,
			Kind:   kind(schema.BindingRequired),
			Reason: "missing argument response observed (option at end probe)",
		}
	}

	return Binding{Status: schema.StatusUndetermined, Reason: "insufficient binding evidence"}
}

// exitedClean reports a probe that produced no argument-error signal at
// all and exited zero — the "no argument errors detected" precondition of
// rule 8.
func exitedClean(a schema.AttemptAnalysis) bool {
	if a.Unrecognized || a.Ambiguous || a.MissingArg || a.InvalidArg || a.ArgNotAllowed {
		return false
	}
	return a.ExitCode != nil && *a.ExitCode == 0
}
