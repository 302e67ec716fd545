package display

import "testing"

func TestTruncateShortStringUnchanged(t *testing.T) {
	got := Truncate("short", 20)
	if got != "short" {
		t.Errorf("Truncate() = %q, want %q", got, "short")
	}
}

func TestTruncateLongStringGetsEllipsis(t *testing.T) {
	got := Truncate("this is a long sentence that needs truncating", 10)
	if len(got) != 10 {
		t.Errorf("Truncate() len = %d, want 10", len(got))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("Truncate() = %q, want to end with ...", got)
	}
}

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	got := CleanText("line one\nline   two\nline three")
	want := "line one line two line three"
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextTrimsOuterWhitespace(t *testing.T) {
	got := CleanText("  \n  padded text  \n")
	if got != "padded text" {
		t.Errorf("CleanText() = %q, want %q", got, "padded text")
	}
}

func TestPadRightPadsShortStrings(t *testing.T) {
	d := &Display{}
	got := d.padRight("ab", 5)
	if got != "ab   " {
		t.Errorf("padRight() = %q, want %q", got, "ab   ")
	}
}

func TestPadRightTruncatesLongStrings(t *testing.T) {
	d := &Display{}
	got := d.padRight("abcdef", 3)
	if got != "abc" {
		t.Errorf("padRight() = %q, want %q", got, "abc")
	}
}

func TestNewWithOptionsNoColorUsesNoColorTheme(t *testing.T) {
	d := NewWithOptions(true)
	if got := d.Theme().Success(SymbolSuccess); got != SymbolSuccess {
		t.Errorf("Theme().Success() = %q, want unstyled %q for --no-color", got, SymbolSuccess)
	}
}
