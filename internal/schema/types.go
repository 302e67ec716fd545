// Package schema defines the data model shared across the surface
// extraction pipeline: identity, captures, plans, evidence, and the final
// report. Types here are immutable once constructed; nothing in this
// package mutates a value after it is returned.
package schema

// Hash is a content-address: a fixed algorithm tag plus its lowercase hex value.
type Hash struct {
	Algo  string `json:"algo"`
	Value string `json:"value"`
}

// Platform is the OS/architecture tuple a binary was probed under.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// EnvSnapshot records the environment contract values in effect for a run.
type EnvSnapshot struct {
	Locale string `json:"locale"`
	TZ     string `json:"tz"`
	Term   string `json:"term"`
}

// BinaryIdentity pins down what was actually probed.
type BinaryIdentity struct {
	Path     string      `json:"path"`
	Hash     Hash        `json:"hash"`
	Platform Platform    `json:"platform"`
	Env      EnvSnapshot `json:"env"`
}

// CaptureOutput is the result of one child invocation.
type CaptureOutput struct {
	Args     []string `json:"args"`
	ExitCode *int     `json:"exit_code"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// SelfReport is the triplet of captures taken before any probe.
type SelfReport struct {
	Help       CaptureOutput `json:"help"`
	Version    CaptureOutput `json:"version"`
	UsageError CaptureOutput `json:"usage_error"`
}

// BindingHint is the parser's expectation for how a value attaches to an option.
type BindingHint struct {
	Optional bool        `json:"optional"`
	Form     BindingForm `json:"form"`
}

// HelpOption is one option token discovered in help text, first-observed order.
type HelpOption struct {
	Option  string       `json:"option"`
	Binding *BindingHint `json:"binding,omitempty"`
}

// ProbeBudget bounds how many probes a plan may schedule.
type ProbeBudget struct {
	MaxTotal     int `json:"max_total"`
	MaxPerOption int `json:"max_per_option"`
}

// StopRules prune wasted probes during execution.
type StopRules struct {
	StopOnUnrecognized     bool `json:"stop_on_unrecognized"`
	StopOnBindingConfirmed bool `json:"stop_on_binding_confirmed"`
}

// PlannedOption is one option's ordered probe schedule.
type PlannedOption struct {
	Option string      `json:"option"`
	Probes []ProbeType `json:"probes"`
}

// ProbePlan is the planner's full schedule for a request.
type ProbePlan struct {
	PlannerVersion string          `json:"planner_version"`
	Options        []PlannedOption `json:"options"`
	Budget         ProbeBudget     `json:"budget"`
	StopRules      StopRules       `json:"stop_rules"`
}

// AttemptAnalysis holds the signals extracted from one probe's captured output.
type AttemptAnalysis struct {
	Unrecognized  bool     `json:"unrecognized"`
	MissingArg    bool     `json:"missing_arg"`
	ArgNotAllowed bool     `json:"arg_not_allowed"`
	InvalidArg    bool     `json:"invalid_arg"`
	Ambiguous     bool     `json:"ambiguous"`
	HelpLike      bool     `json:"help_like"`
	ArgumentError bool     `json:"argument_error"`
	ExitCode      *int     `json:"exit_code"`
	Notes         []string `json:"notes,omitempty"`
}

// Evidence is the auditable, content-addressed record of one probe.
// Raw stdout/stderr bytes are never retained — only their hashes.
type Evidence struct {
	Args       []string          `json:"args"`
	Env        map[string]string `json:"env"`
	ExitCode   *int              `json:"exit_code"`
	StdoutHash string            `json:"stdout_hash"`
	StderrHash string            `json:"stderr_hash"`
	Notes      []string          `json:"notes,omitempty"`
}

// TierResult is the existence verdict for one option.
type TierResult struct {
	Status   ValidationStatus `json:"status"`
	Reason   string           `json:"reason,omitempty"`
	Evidence []Evidence       `json:"evidence"`
}

// BindingResult is the binding verdict for one option.
type BindingResult struct {
	Status   ValidationStatus `json:"status"`
	Kind     *BindingKind     `json:"kind,omitempty"`
	Reason   string           `json:"reason,omitempty"`
	Evidence []Evidence       `json:"evidence"`
}

// OptionSurface is one option's full discovered surface.
type OptionSurface struct {
	Option    string        `json:"option"`
	Existence TierResult    `json:"existence"`
	Binding   BindingResult `json:"binding"`
}

// HigherTierStatus reserves slots for tiers this system does not evaluate.
type HigherTierStatus struct {
	T2 TierStatus `json:"t2"`
	T3 TierStatus `json:"t3"`
	T4 TierStatus `json:"t4"`
}

// DefaultHigherTierStatus returns the fixed not-evaluated placeholder.
func DefaultHigherTierStatus() HigherTierStatus {
	return HigherTierStatus{T2: TierNotEvaluated, T3: TierNotEvaluated, T4: TierNotEvaluated}
}

// PlannerInfo records which planner produced the plan and its content hash.
type PlannerInfo struct {
	Version  string `json:"version"`
	PlanHash string `json:"plan_hash"`
}

// Timings records the three wall-clock spans the report is accountable for.
type Timings struct {
	PlannerMs int64 `json:"planner_ms"`
	ProbesMs  int64 `json:"probes_ms"`
	TotalMs   int64 `json:"total_ms"`
}

// SurfaceReport is the final, authoritative artifact of one extraction run.
type SurfaceReport struct {
	InvokedPath         string           `json:"invoked_path"`
	BinaryIdentity      BinaryIdentity   `json:"binary_identity"`
	Planner             PlannerInfo      `json:"planner"`
	ProbeLibraryVersion string           `json:"probe_library_version"`
	TimingsMs           Timings          `json:"timings_ms"`
	SelfReport          SelfReport       `json:"self_report"`
	Options             []OptionSurface  `json:"options"`
	HigherTiers         HigherTierStatus `json:"higher_tiers"`
}
