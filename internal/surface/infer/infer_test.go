package infer

import (
	"testing"

	"github.com/surfacectl/surfacectl/internal/schema"
)

func exitCode(n int) *int { return &n }

func TestDecide(t *testing.T) {
	attached := &schema.BindingHint{Form: schema.FormAttached}
	trailing := &schema.BindingHint{Form: schema.FormTrailing}

	tests := []struct {
		name       string
		in         Input
		wantStatus schema.ValidationStatus
		wantKind   *schema.BindingKind
	}{
		{
			name:       "existence not confirmed short-circuits",
			in:         Input{ExistenceConfirmed: false},
			wantStatus: schema.StatusUndetermined,
		},
		{
			name: "unrecognized on either probe stays undetermined",
			in: Input{
				ExistenceConfirmed: true,
				Missing:            schema.AttemptAnalysis{Unrecognized: true},
			},
			wantStatus: schema.StatusUndetermined,
		},
		{
			name: "ambiguous stays undetermined",
			in: Input{
				ExistenceConfirmed: true,
				Invalid:            schema.AttemptAnalysis{Ambiguous: true},
			},
			wantStatus: schema.StatusUndetermined,
		},
		{
			name: "missing-arg on existence probe implies required",
			in: Input{
				ExistenceConfirmed: true,
				Missing:            schema.AttemptAnalysis{MissingArg: true},
			},
			wantStatus: schema.StatusConfirmed,
			wantKind:   kind(schema.BindingRequired),
		},
		{
			name: "invalid-arg on the missing probe implies required",
			in: Input{
				ExistenceConfirmed: true,
				Missing:            schema.AttemptAnalysis{InvalidArg: true},
			},
			wantStatus: schema.StatusConfirmed,
			wantKind:   kind(schema.BindingRequired),
		},
		{
			name: "arg-not-allowed on invalid probe implies no-value",
			in: Input{
				ExistenceConfirmed: true,
				Invalid:            schema.AttemptAnalysis{ArgNotAllowed: true},
			},
			wantStatus: schema.StatusConfirmed,
			wantKind:   kind(schema.BindingNoValue),
		},
		{
			name: "invalid-arg on invalid probe implies optional",
			in: Input{
				ExistenceConfirmed: true,
				Invalid:            schema.AttemptAnalysis{InvalidArg: true},
			},
			wantStatus: schema.StatusConfirmed,
			wantKind:   kind(schema.BindingOptional),
		},
		{
			name: "invalid-arg plus missing probe swallowed --help implies required",
			in: Input{
				ExistenceConfirmed: true,
				Missing:            schema.AttemptAnalysis{HelpLike: false},
				Invalid:            schema.AttemptAnalysis{InvalidArg: true, HelpLike: true},
			},
			wantStatus: schema.StatusConfirmed,
			wantKind:   kind(schema.BindingRequired),
		},
		{
			name: "clean exits with attached hint imply optional",
			in: Input{
				ExistenceConfirmed: true,
				FormHint:           attached,
				Missing:            schema.AttemptAnalysis{ExitCode: exitCode(0)},
				Invalid:            schema.AttemptAnalysis{ExitCode: exitCode(0)},
			},
			wantStatus: schema.StatusConfirmed,
			wantKind:   kind(schema.BindingOptional),
		},
		{
			name: "clean exits with trailing hint stay undetermined",
			in: Input{
				ExistenceConfirmed: true,
				FormHint:           trailing,
				Missing:            schema.AttemptAnalysis{ExitCode: exitCode(0)},
				Invalid:            schema.AttemptAnalysis{ExitCode: exitCode(0)},
			},
			wantStatus: schema.StatusUndetermined,
		},
		{
			name: "option-at-end missing-arg with non-zero exit implies required",
			in: Input{
				ExistenceConfirmed: true,
				Missing:            schema.AttemptAnalysis{ExitCode: exitCode(1)},
				Invalid:            schema.AttemptAnalysis{ExitCode: exitCode(1)},
				End:                &schema.AttemptAnalysis{MissingArg: true, ExitCode: exitCode(1)},
			},
			wantStatus: schema.StatusConfirmed,
			wantKind:   kind(schema.BindingRequired),
		},
		{
			name: "no evidence at all falls through to undetermined",
			in: Input{
				ExistenceConfirmed: true,
				Missing:            schema.AttemptAnalysis{ExitCode: exitCode(1)},
				Invalid:            schema.AttemptAnalysis{ExitCode: exitCode(1)},
			},
			wantStatus: schema.StatusUndetermined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.in)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %v, want %v (reason: %s)", got.Status, tt.wantStatus, got.Reason)
			}
			if tt.wantKind == nil && got.Kind != nil {
				t.Errorf("kind = %v, want nil", *got.Kind)
			}
			if tt.wantKind != nil {
				if got.Kind == nil {
					t.Fatalf("kind = nil, want %v", *tt.wantKind)
				}
				if *got.Kind != *tt.wantKind {
					t.Errorf("kind = %v, want %v", *got.Kind, *tt.wantKind)
				}
			}
		})
	}
}

func TestExitedClean(t *testing.T) {
	tests := []struct {
		name string
		a    schema.AttemptAnalysis
		want bool
	}{
		{"zero exit no signals", schema.AttemptAnalysis{ExitCode: exitCode(0)}, true},
		{"nil exit code", schema.AttemptAnalysis{}, false},
		{"non-zero exit", schema.AttemptAnalysis{ExitCode: exitCode(1)}, false},
		{"zero exit but unrecognized", schema.AttemptAnalysis{ExitCode: exitCode(0), Unrecognized: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitedClean(tt.a); got != tt.want {
				t.Errorf("exitedClean() = %v, want %v", got, tt.want)
			}
		})
	}
}
