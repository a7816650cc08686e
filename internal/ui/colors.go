package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI styles for CLI output. They are empty when stdout is not a terminal or
// NO_COLOR is set, so piped output stays plain.
var (
	ColorReset string
	ColorBold  string
	ColorDim   string

	ColorCyan   string
	ColorGreen  string
	ColorYellow string
	ColorWhite  string
	ColorRed    string
)

func init() {
	SetColor(colorEnabled())
}

// SetColor switches the styles on or off
func SetColor(on bool) {
	if !on {
		ColorReset, ColorBold, ColorDim = "", "", ""
		ColorCyan, ColorGreen, ColorYellow, ColorWhite, ColorRed = "", "", "", "", ""
		return
	}
	ColorReset, ColorBold, ColorDim = "\033[0m", "\033[1m", "\033[2m"
	ColorCyan = "\033[36m"
	ColorGreen = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite = "\033[97m"
	ColorRed = "\033[31m"
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

// Warn is for recoverable problems such as an expired session
func Warn(s string) string {
	return ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}
