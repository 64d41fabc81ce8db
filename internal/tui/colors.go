package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// colorsEnabled gates styling on a real terminal. NO_COLOR and dumb
// terminals disable it.
var colorsEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}()

func render(style lipgloss.Style, text string) string {
	if !colorsEnabled {
		return text
	}
	return style.Render(text)
}

var (
	currentBranchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	branchStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	restackStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	prNumberStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	redStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	yellowStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	cyanStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// ColorBranchName colors a branch name, marking the current branch
func ColorBranchName(branchName string, isCurrent bool) string {
	if isCurrent {
		return render(currentBranchStyle, branchName+" (current)")
	}
	return render(branchStyle, branchName)
}

// ColorNeedsRestack colors the "needs restack" annotation
func ColorNeedsRestack(text string) string {
	return render(restackStyle, text)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return render(dimStyle, text)
}

// ColorPRNumber colors a PR number reference
func ColorPRNumber(text string) string {
	return render(prNumberStyle, text)
}

// ColorRed makes text red
func ColorRed(text string) string {
	return render(redStyle, text)
}

// ColorYellow makes text yellow
func ColorYellow(text string) string {
	return render(yellowStyle, text)
}

// ColorCyan makes text cyan
func ColorCyan(text string) string {
	return render(cyanStyle, text)
}
