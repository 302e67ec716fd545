package display

import "github.com/fatih/color"

// Box drawing characters
const (
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	SectionBreak   = "━"
)

// Status symbols
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolPending = "○"
	SymbolPartial = "◐"
)

// IndentChild is the indentation used for a probed option's detail lines.
const IndentChild = "  "

// Theme holds all color functions for consistent progress-line styling.
type Theme struct {
	// Run-level progress (phase headers: help capture, plan, probe, emit)
	PhaseBorder func(a ...interface{}) string
	PhaseLabel  func(a ...interface{}) string
	PhaseText   func(a ...interface{}) string

	// Per-option probe output (subdued, high volume)
	OptionName func(a ...interface{}) string
	OptionNote func(a ...interface{}) string
	ProbeCount func(a ...interface{}) string

	// Status indicators
	Success func(a ...interface{}) string
	Error   func(a ...interface{}) string
	Warning func(a ...interface{}) string
	Info    func(a ...interface{}) string

	// Structural elements
	Bold      func(a ...interface{}) string
	Dim       func(a ...interface{}) string
	Separator func(a ...interface{}) string
}

// DefaultTheme creates the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		PhaseBorder: color.New(color.FgCyan).SprintFunc(),
		PhaseLabel:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		PhaseText:   color.New(color.FgWhite).SprintFunc(),

		OptionName: color.New(color.FgWhite, color.Bold).SprintFunc(),
		OptionNote: color.New(color.FgHiBlack).SprintFunc(),
		ProbeCount: color.New(color.FgHiBlack).SprintFunc(),

		Success: color.New(color.FgGreen).SprintFunc(),
		Error:   color.New(color.FgRed).SprintFunc(),
		Warning: color.New(color.FgYellow).SprintFunc(),
		Info:    color.New(color.FgCyan).SprintFunc(),

		Bold:      color.New(color.Bold).SprintFunc(),
		Dim:       color.New(color.FgHiBlack).SprintFunc(),
		Separator: color.New(color.FgCyan).SprintFunc(),
	}
}

// NoColorTheme creates a theme without colors (for --no-color or non-TTY output).
func NoColorTheme() *Theme {
	identity := func(a ...interface{}) string {
		if len(a) == 0 {
			return ""
		}
		if s, ok := a[0].(string); ok {
			return s
		}
		return ""
	}
	return &Theme{
		PhaseBorder: identity,
		PhaseLabel:  identity,
		PhaseText:   identity,
		OptionName:  identity,
		OptionNote:  identity,
		ProbeCount:  identity,
		Success:     identity,
		Error:       identity,
		Warning:     identity,
		Info:        identity,
		Bold:        identity,
		Dim:         identity,
		Separator:   identity,
	}
}
