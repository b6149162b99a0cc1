package render

import (
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ColorMode selects whether the renderer emits ANSI styling.
type ColorMode int

const (
	// ColorAuto delegates to "is stderr a TTY and NO_COLOR unset".
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Resolve turns a ColorMode into a concrete on/off decision.
func Resolve(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI escape sequences so display width reflects what
// actually prints in a terminal cell.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func displayWidth(s string) int {
	return len([]rune(stripANSI(s)))
}

var (
	currentBranchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("76"))
	placeholderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func styleCurrentBranch(name string, colorsOn bool) string {
	if !colorsOn {
		return name
	}
	return currentBranchStyle.Render(name)
}

func stylePlaceholder(value string, colorsOn bool) string {
	if !colorsOn {
		return value
	}
	return placeholderStyle.Render(value)
}
