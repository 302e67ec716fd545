// Package planner talks to the probe planner: it builds the request,
// reads the plan back from either a pre-materialized file or a spawned
// command, and enforces the plan validation invariants (spec §4.4) before
// any probe runs against them.
package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/surfacectl/surfacectl/internal/hashing"
	"github.com/surfacectl/surfacectl/internal/schema"
)

// ProbeLibraryVersion is pinned: bumping it is a breaking change to the
// planner contract, not a configuration value.
const ProbeLibraryVersion = "v1"

// ProbeDefinition describes one probe type for the planner's benefit.
type ProbeDefinition struct {
	Probe       schema.ProbeType `json:"probe"`
	Description string           `json:"description"`
}

// ProbeLibrary is the fixed, versioned catalogue of probes a planner may schedule.
type ProbeLibrary struct {
	Version string            `json:"version"`
	Probes  []ProbeDefinition `json:"probes"`
}

// Library returns the fixed probe catalogue sent with every request.
func Library() ProbeLibrary {
	return ProbeLibrary{
		Version: ProbeLibraryVersion,
		Probes: []ProbeDefinition{
			{Probe: schema.ProbeExistence, Description: "Run <opt> --help and detect unrecognized or ambiguous responses."},
			{Probe: schema.ProbeInvalidValue, Description: "Run <opt> with a dummy value and --help to detect argument binding."},
			{Probe: schema.ProbeOptionAtEnd, Description: "Run <opt> at end (no --help) to detect missing-arg responses."},
		},
	}
}

// Request is what gets marshaled to the planner's stdin.
type Request struct {
	SelfReport   schema.SelfReport  `json:"self_report"`
	Options      []string           `json:"options"`
	ProbeLibrary ProbeLibrary       `json:"probe_library"`
	Budget       schema.ProbeBudget `json:"budget"`
	StopRules    schema.StopRules   `json:"stop_rules"`
}

// Output bundles the validated plan with its canonical form and hash.
type Output struct {
	Plan    schema.ProbePlan
	RawJSON string
	Hash    string
}

// Source selects where the plan comes from. A non-empty PlanFile always
// wins over Cmd; each field, in turn, falls back to its environment
// variable when the config value is empty (DESIGN.md Open Question 5:
// configured source beats environment, not the other way around).
type Source struct {
	PlanFile string
	Cmd      string
}

const (
	envPlanFile = "SURFACECTL_PLANNER_PLAN"
	envCmd      = "SURFACECTL_PLANNER_CMD"
)

// Run resolves the plan source, obtains the raw plan text, validates it
// against request, and returns the hashed, validated Output.
func Run(request Request, source Source) (Output, error) {
	planFile := source.PlanFile
	if planFile == "" {
		planFile = os.Getenv(envPlanFile)
	}
	if planFile != "" {
		raw, err := os.ReadFile(planFile)
		if err != nil {
			return Output{}, fmt.Errorf("read planner plan file: %w", err)
		}
		return validateAndHash(string(raw), request)
	}

	cmd := source.Cmd
	if cmd == "" {
		cmd = os.Getenv(envCmd)
	}
	if cmd == "" {
		return Output{}, fmt.Errorf("planner unavailable: no plan file or planner command configured")
	}

	raw, err := spawnPlanner(cmd, request)
	if err != nil {
		return Output{}, err
	}
	return validateAndHash(raw, request)
}

func spawnPlanner(cmdName string, request Request) (string, error) {
	requestJSON, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal planner request: %w", err)
	}

	cmd := exec.Command(cmdName)
	cmd.Stdin = bytes.NewReader(requestJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("planner command failed: %w (stderr=%s)", err, stderr.String())
	}
	if stderr.Len() > 0 {
		return "", fmt.Errorf("planner command emitted stderr: %s", stderr.String())
	}

	raw := strings.TrimSpace(stdout.String())
	if raw == "" {
		return "", fmt.Errorf("planner returned empty output")
	}
	return raw, nil
}

func validateAndHash(raw string, request Request) (Output, error) {
	var plan schema.ProbePlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return Output{}, fmt.Errorf("parse planner output: %w", err)
	}
	if strings.TrimSpace(plan.PlannerVersion) == "" {
		return Output{}, fmt.Errorf("planner_version is required")
	}
	if err := validatePlan(plan, request); err != nil {
		return Output{}, err
	}
	return Output{Plan: plan, RawJSON: raw, Hash: hashing.Hex([]byte(raw))}, nil
}

// validatePlan enforces every invariant in spec §4.4: budgets and stop
// rules must be byte-equal to the request, every option must be in the
// request's candidate set with no duplicates, every probe list must be
// non-empty and start with Existence, per-option and total probe budgets
// must hold, and coverage must be exact.
func validatePlan(plan schema.ProbePlan, request Request) error {
	if plan.Budget != request.Budget {
		return fmt.Errorf("planner budget does not match requested budget")
	}
	if plan.StopRules != request.StopRules {
		return fmt.Errorf("planner stop rules do not match requested stop rules")
	}

	allowed := make(map[string]bool, len(request.Options))
	for _, opt := range request.Options {
		allowed[opt] = true
	}

	seen := make(map[string]bool, len(plan.Options))
	totalProbes := 0

	for _, planned := range plan.Options {
		if !allowed[planned.Option] {
			return fmt.Errorf("planner returned unknown option: %s", planned.Option)
		}
		if seen[planned.Option] {
			return fmt.Errorf("planner returned duplicate option: %s", planned.Option)
		}
		seen[planned.Option] = true

		if len(planned.Probes) == 0 {
			return fmt.Errorf("planner returned empty probe list for %s", planned.Option)
		}
		if planned.Probes[0] != schema.ProbeExistence {
			return fmt.Errorf("planner must start probes with existence for %s", planned.Option)
		}
		if len(planned.Probes) > plan.Budget.MaxPerOption {
			return fmt.Errorf("planner exceeded per-option probe budget for %s", planned.Option)
		}
		totalProbes += len(planned.Probes)
	}

	if totalProbes > plan.Budget.MaxTotal {
		return fmt.Errorf("planner exceeded total probe budget")
	}

	if len(seen) != len(allowed) {
		var missing []string
		for opt := range allowed {
			if !seen[opt] {
				missing = append(missing, opt)
			}
		}
		return fmt.Errorf("planner did not cover all options; missing %v", missing)
	}

	return nil
}
