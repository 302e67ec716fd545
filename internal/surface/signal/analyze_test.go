package signal

import "testing"

func TestAnalyzeUnrecognizedAttributed(t *testing.T) {
	code := 1
	a := Analyze("--frobnicate", &code, "", "unrecognized option '--frobnicate'\n")
	if !a.Unrecognized {
		t.Errorf("Unrecognized = false, want true")
	}
}

func TestAnalyzeUnrecognizedUnattributed(t *testing.T) {
	code := 1
	a := Analyze("--frobnicate", &code, "", "unrecognized option '--other'\n")
	if a.Unrecognized {
		t.Errorf("Unrecognized = true, want false (attributed to a different option)")
	}
	if !UnrecognizedMarkerPresent("", "unrecognized option '--other'\n") {
		t.Errorf("UnrecognizedMarkerPresent() = false, want true")
	}
}

func TestAnalyzeMissingArgDirect(t *testing.T) {
	code := 1
	a := Analyze("--output", &code, "", "option '--output' requires an argument\n")
	if !a.MissingArg {
		t.Errorf("MissingArg = false, want true")
	}
}

func TestAnalyzeMissingArgUnattributedCarveOut(t *testing.T) {
	code := 1
	a := Analyze("--output", &code, "", "missing argument\n")
	if !a.MissingArg {
		t.Errorf("MissingArg = false, want true (unattributed carve-out)")
	}
	found := false
	for _, n := range a.Notes {
		if n == "missing argument marker without option attribution; attributed to tested option" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected carve-out note, got notes=%v", a.Notes)
	}
}

func TestAnalyzeMissingArgAttributedElsewhereNotApplied(t *testing.T) {
	code := 1
	a := Analyze("--output", &code, "", "missing argument for '--other'\n")
	if a.MissingArg {
		t.Errorf("MissingArg = true, want false (attributed to a different option)")
	}
}

func TestAnalyzeInvalidArgWhitelist(t *testing.T) {
	code := 1
	a := Analyze("--tabsize", &code, "", "invalid tab size: 'x'\n")
	if !a.InvalidArg {
		t.Errorf("InvalidArg = false, want true (whitelist carve-out)")
	}
}

func TestAnalyzeInvalidArgWhitelistWrongOption(t *testing.T) {
	code := 1
	a := Analyze("--width", &code, "", "invalid tab size: 'x'\n")
	if a.InvalidArg {
		t.Errorf("InvalidArg = true, want false (whitelist maps to --tabsize, not --width)")
	}
}

func TestAnalyzeArgNotAllowed(t *testing.T) {
	code := 1
	a := Analyze("--verbose", &code, "", "option '--verbose' does not allow an argument\n")
	if !a.ArgNotAllowed {
		t.Errorf("ArgNotAllowed = false, want true")
	}
}

func TestAnalyzeAmbiguous(t *testing.T) {
	code := 1
	a := Analyze("--v", &code, "", "ambiguous option '--v'; possibilities: --verbose --version\n")
	if !a.Ambiguous {
		t.Errorf("Ambiguous = false, want true")
	}
}

func TestAnalyzeHelpLike(t *testing.T) {
	zero := 0
	a := Analyze("--help", &zero, "Usage: tool [options]\n", "")
	if !a.HelpLike {
		t.Errorf("HelpLike = false, want true")
	}
}

func TestAnalyzeShortOptionGetoptAttribution(t *testing.T) {
	code := 1
	a := Analyze("-v", &code, "", "invalid option -- 'v'\n")
	if !a.Unrecognized {
		t.Errorf("Unrecognized = false, want true (getopt short-option form)")
	}
}

func TestOptionMatchesTrailingValue(t *testing.T) {
	if !optionMatches("--output=foo", "--output") {
		t.Errorf("optionMatches with trailing =VALUE should match")
	}
}

func TestOptionMatchesSingleLetterAgainstShortOption(t *testing.T) {
	if !optionMatches("v", "-v") {
		t.Errorf("optionMatches single-letter against -v should match")
	}
}
