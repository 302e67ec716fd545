// Package stub is a deterministic, in-process stand-in for an external
// planner process, used by tests that exercise the probe pipeline without
// spawning a real planner command. It mirrors the reference planner
// stub's behavior: existence always scheduled, invalid_value and
// option_at_end added as the per-option budget allows, the request's
// budget and stop rules echoed back.
package stub

import (
	"github.com/surfacectl/surfacectl/internal/planner"
	"github.com/surfacectl/surfacectl/internal/schema"
)

const Version = "stub-v1"

// BuildPlan deterministically schedules probes for every requested option,
// honoring the request's budget, and stops adding options once max_total
// would be exceeded.
func BuildPlan(request planner.Request) schema.ProbePlan {
	maxPerOption := request.Budget.MaxPerOption
	if maxPerOption <= 0 {
		maxPerOption = 1
	}
	maxTotal := request.Budget.MaxTotal
	if maxTotal <= 0 {
		maxTotal = len(request.Options)
	}

	var plannedOptions []schema.PlannedOption
	totalProbes := 0

	for _, option := range request.Options {
		probes := []schema.ProbeType{schema.ProbeExistence}
		if maxPerOption >= 2 {
			probes = append(probes, schema.ProbeInvalidValue)
		}
		if maxPerOption >= 3 {
			probes = append(probes, schema.ProbeOptionAtEnd)
		}

		totalProbes += len(probes)
		if totalProbes > maxTotal {
			break
		}
		plannedOptions = append(plannedOptions, schema.PlannedOption{Option: option, Probes: probes})
	}

	return schema.ProbePlan{
		PlannerVersion: Version,
		Options:        plannedOptions,
		Budget:         request.Budget,
		StopRules:      request.StopRules,
	}
}
