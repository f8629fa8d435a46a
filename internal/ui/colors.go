// Package ui holds the ANSI styling used by command help and
// human-readable status output.
package ui

const esc = "\033["

// Style and color codes. Commands compose these directly when a line
// mixes styles; the helpers below cover the single-style case.
const (
	ColorReset = esc + "0m"
	ColorBold  = esc + "1m"
	ColorDim   = esc + "2m"

	ColorRed    = esc + "31m"
	ColorGreen  = esc + "32m"
	ColorYellow = esc + "33m"
	ColorCyan   = esc + "36m"
	ColorWhite  = esc + "97m"
)

func paint(style, s string) string { return style + s + ColorReset }

// Bold wraps s in the bold style.
func Bold(s string) string { return paint(ColorBold, s) }

// Success styles s green, for completed-action lines.
func Success(s string) string { return paint(ColorGreen, s) }

// Warn styles s yellow, for recoverable problems.
func Warn(s string) string { return paint(ColorYellow, s) }

// Info styles s dim yellow, for supplementary notes.
func Info(s string) string { return paint(ColorDim+ColorYellow, s) }

// Error styles s red, for failures.
func Error(s string) string { return paint(ColorRed, s) }
