package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorUser    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B5382A", Dark: "#E05A3A"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD93D"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A89984"}
	colorValue   = lipgloss.AdaptiveColor{Light: "#00838F", Dark: "#4DD0E1"}
)

// Theme holds the styles used by the chat loop. The plain theme renders
// text unchanged for pipes and NO_COLOR.
type Theme struct {
	Title     lipgloss.Style
	Box       lipgloss.Style
	Muted     lipgloss.Style
	Value     lipgloss.Style
	OK        lipgloss.Style
	Fail      lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Warning   lipgloss.Style
}

func ColorTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPrimary).Padding(0, 1),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Value:     lipgloss.NewStyle().Foreground(colorValue),
		OK:        lipgloss.NewStyle().Foreground(colorPrimary),
		Fail:      lipgloss.NewStyle().Foreground(colorError),
		User:      lipgloss.NewStyle().Bold(true).Foreground(colorUser),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Warning:   lipgloss.NewStyle().Foreground(colorWarning),
	}
}

func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title: plain, Box: plain, Muted: plain, Value: plain, OK: plain,
		Fail: plain, User: plain, Assistant: plain, Warning: plain,
	}
}

// DetectTheme picks the plain theme when NO_COLOR is set or stdout is not
// a terminal.
func DetectTheme() Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return PlainTheme()
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return PlainTheme()
	}
	return ColorTheme()
}
