// Package signal extracts AttemptAnalysis signals from a probe's captured
// output by scanning for fixed marker substrings and attributing them back
// to the option under test via targeted regexes. Deliberately lexical, not
// grammatical (spec §9 Design Notes).
package signal

import (
	"fmt"
	"strings"

	"github.com/surfacectl/surfacectl/internal/schema"
)

// Analyze computes the AttemptAnalysis for one probe's captured output.
// option is the option under test (the token an InvalidValue/OptionAtEnd/
// Existence probe was built around).
func Analyze(option string, exitCode *int, stdout, stderr string) schema.AttemptAnalysis {
	rawOutput := stdout + stderr
	output := strings.ToLower(rawOutput)

	var notes []string
	analysis := schema.AttemptAnalysis{ExitCode: exitCode}

	if marker, ok := containsAny(output, unrecognizedMarkers); ok {
		reported := extractReportedOptions(rawOutput)
		switch {
		case anyMatches(reported, option):
			analysis.Unrecognized = true
		case len(reported) == 0:
			notes = append(notes, fmt.Sprintf("unrecognized option marker (%s) without option attribution", marker))
		default:
			notes = append(notes, fmt.Sprintf("unrecognized option marker (%s) for %v", marker, reported))
		}
	}

	if marker, ok := containsAny(output, ambiguousMarkers); ok {
		analysis.Ambiguous = true
		notes = append(notes, fmt.Sprintf("ambiguous option response (%s)", marker))
	}

	missingOptions := extractMissingArgumentOptions(rawOutput)
	switch {
	case anyMatches(missingOptions, option):
		analysis.MissingArg = true
	case len(missingOptions) > 0:
		notes = append(notes, fmt.Sprintf("missing argument marker for %v", missingOptions))
	default:
		if _, ok := containsAny(output, missingArgumentMarkers); ok {
			// Carve-out: missing-argument diagnostics frequently omit the
			// option name. Attribute to the tested option anyway and keep
			// the fallback auditable via the note (spec §9 Open Question 3
			// / DESIGN.md Open Question 4 — do not widen this rule).
			analysis.MissingArg = true
			notes = append(notes, "missing argument marker without option attribution; attributed to tested option")
		}
	}

	notAllowedOptions := extractArgumentNotAllowedOptions(rawOutput)
	switch {
	case anyMatches(notAllowedOptions, option):
		analysis.ArgNotAllowed = true
	case len(notAllowedOptions) > 0:
		notes = append(notes, fmt.Sprintf("argument not allowed marker for %v", notAllowedOptions))
	default:
		if _, ok := containsAny(output, argumentNotAllowedMarkers); ok {
			notes = append(notes, "argument not allowed marker without option attribution")
		}
	}

	invalidOptions := extractInvalidArgumentOptions(rawOutput)
	switch {
	case anyMatches(invalidOptions, option):
		analysis.InvalidArg = true
	case len(invalidOptions) > 0:
		notes = append(notes, fmt.Sprintf("invalid argument marker for %v", invalidOptions))
	default:
		if whitelistedOption, ok := matchInvalidArgWhitelist(output); ok && whitelistedOption == option {
			analysis.InvalidArg = true
			notes = append(notes, "invalid argument marker matched via attribution-fallback table")
		} else if _, ok := containsAny(output, invalidArgumentMarkers); ok {
			notes = append(notes, "invalid argument marker without option attribution")
		}
	}

	if _, ok := containsAny(output, argumentErrorMarkers); ok {
		analysis.ArgumentError = true
	}
	if strings.Contains(output, "usage:") {
		analysis.HelpLike = true
	}

	analysis.Notes = notes
	return analysis
}

// UnrecognizedMarkerPresent reports whether any unrecognized-option marker
// appears in the output, independent of whether attribution succeeded —
// used to distinguish "refuted" from "marker seen but unattributed"
// existence verdicts (spec §4.5's per-probe existence classification).
func UnrecognizedMarkerPresent(stdout, stderr string) bool {
	output := strings.ToLower(stdout + stderr)
	_, ok := containsAny(output, unrecognizedMarkers)
	return ok
}

func anyMatches(reported []string, option string) bool {
	for _, r := range reported {
		if optionMatches(r, option) {
			return true
		}
	}
	return false
}

func matchInvalidArgWhitelist(output string) (string, bool) {
	for _, entry := range invalidArgWhitelist {
		if strings.Contains(output, entry.marker) {
			return entry.option, true
		}
	}
	return "", false
}
