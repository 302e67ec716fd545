package signal

// Marker tables: case-insensitive substring tests applied to the
// concatenation of a probe's stdout and stderr. Verbatim from spec §4.5,
// themselves carried over from the legacy claim-validator's marker tables
// (original_source/src/validate.rs) — see SPEC_FULL.md supplement 4.
var (
	unrecognizedMarkers = []string{
		"unrecognized option", "unknown option", "invalid option", "illegal option",
		"unknown flag", "unrecognized flag", "invalid flag", "unknown switch", "invalid switch",
	}

	ambiguousMarkers = []string{"ambiguous option", "option is ambiguous"}

	missingArgumentMarkers = []string{
		"requires an argument", "requires a value",
		"option requires an argument", "option requires a value",
		"missing argument", "missing value",
	}

	argumentNotAllowedMarkers = []string{
		"doesn't allow an argument", "does not allow an argument",
		"doesn't allow a value", "does not allow a value",
		"doesn't take an argument", "does not take an argument",
		"doesn't take a value", "does not take a value",
		"doesn't accept an argument", "does not accept an argument",
		"takes no argument", "takes no value",
		"argument not allowed", "value not allowed",
	}

	invalidArgumentMarkers = []string{"invalid argument", "invalid value"}
)

// argumentErrorMarkers is the generic union used only as an informational
// signal (spec §4.5: "Argument-error (union used as a generic signal)").
var argumentErrorMarkers = append(append([]string{}, missingArgumentMarkers...), "invalid argument")

// invalidArgWhitelist carries binary-specific idioms that report an
// invalid-argument diagnostic without the option token itself, attributed
// by a fixed, tested table (spec §4.5's carve-out; extend only with paired
// tests).
var invalidArgWhitelist = []struct {
	marker string
	option string
}{
	{"invalid tab size", "--tabsize"},
	{"invalid line width", "--width"},
}

// DummyValue is the fixed sentinel bound to InvalidValue probes.
const DummyValue = "__bvm__"
