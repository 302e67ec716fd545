// Package display provides unified output formatting for surfacectl: a
// boxed banner per pipeline phase, single-line timestamped status lines,
// and a compact per-option probe summary.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Display handles all CLI output with a consistent visual hierarchy.
type Display struct {
	theme     *Theme
	termWidth int
	noColor   bool
}

// New creates a Display with color enabled.
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display, disabling color when noColor is set.
func NewWithOptions(noColor bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		noColor:   noColor,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

// Phase prints a boxed banner for a pipeline stage (help capture, plan,
// probe, emit).
func (d *Display) Phase(title string, lines ...string) {
	if len(lines) == 0 {
		lines = []string{title}
		title = "surfacectl"
	}

	width := d.termWidth - 2
	titleLen := len(title) + 4
	remainingWidth := width - titleLen
	if remainingWidth < 0 {
		remainingWidth = 0
	}

	topLine := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remainingWidth) + BoxTopRight
	fmt.Println(d.theme.PhaseBorder(topLine))

	for _, line := range lines {
		padded := d.padRight(line, width-2)
		fmt.Println(d.theme.PhaseBorder(BoxVertical) + " " + d.theme.PhaseText(padded) + " " + d.theme.PhaseBorder(BoxVertical))
	}

	bottomLine := BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight
	fmt.Println(d.theme.PhaseBorder(bottomLine))
}

// Status prints a single-line timestamped status message.
func (d *Display) Status(symbol, message string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.Dim(timestamp), symbol, d.theme.PhaseText(message))
}

// Success prints a success status line.
func (d *Display) Success(message string) {
	d.Status(d.theme.Success(SymbolSuccess), message)
}

// Error prints an error status line.
func (d *Display) Error(message string) {
	d.Status(d.theme.Error(SymbolError), message)
}

// Warning prints a warning status line.
func (d *Display) Warning(message string) {
	d.Status(d.theme.Warning(SymbolWarning), message)
}

// Info prints a labeled info status line.
func (d *Display) Info(label, message string) {
	d.Status(d.theme.Info(label+":"), message)
}

// Option prints one line summarizing a single option's verdicts as each
// finishes probing — the highest-volume output the tool produces.
func (d *Display) Option(option string, existence, binding string, probeCount int) {
	fmt.Printf("  %s %s existence=%s binding=%s %s\n",
		SymbolPartial,
		d.theme.OptionName(option),
		d.theme.OptionNote(existence),
		d.theme.OptionNote(binding),
		d.theme.ProbeCount(fmt.Sprintf("(%d probes)", probeCount)))
}

// CacheHit prints the short-circuit message when a prior run's artifacts
// already exist for this cache key.
func (d *Display) CacheHit(reportPath string) {
	d.Success(fmt.Sprintf("cache hit: %s", reportPath))
}

// SectionBreak prints a horizontal separator.
func (d *Display) SectionBreak() {
	fmt.Println(d.theme.Separator(strings.Repeat(SectionBreak, d.termWidth)))
}

// Summary prints the final one-line tally for a run.
func (d *Display) Summary(optionCount int, dur time.Duration) {
	fmt.Printf("\n%s extracted surface for %d option(s) in %s\n",
		d.theme.Success(SymbolSuccess), optionCount, dur.Round(time.Millisecond))
}

// Theme returns the current theme for callers that need direct access.
func (d *Display) Theme() *Theme {
	return d.theme
}

func (d *Display) padRight(s string, width int) string {
	if width < 0 {
		width = 0
	}
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate truncates text to max length with an ellipsis.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// CleanText removes newlines and collapses repeated spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
