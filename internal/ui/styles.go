package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha (dark theme)
var mocha = struct {
	Red, Peach, Yellow, Green, Teal, Blue, Mauve                lipgloss.Color
	Text, Subtext1, Overlay1, Surface1, Base                    lipgloss.Color
}{
	Red: "#f38ba8", Peach: "#fab387", Yellow: "#f9e2af",
	Green: "#a6e3a1", Teal: "#94e2d5", Blue: "#89b4fa", Mauve: "#cba6f7",
	Text: "#cdd6f4", Subtext1: "#bac2de", Overlay1: "#7f849c",
	Surface1: "#45475a", Base: "#1e1e2e",
}

// Catppuccin Latte (light theme)
var latte = struct {
	Red, Peach, Yellow, Green, Teal, Blue, Mauve                lipgloss.Color
	Text, Subtext1, Overlay1, Surface1, Base                    lipgloss.Color
}{
	Red: "#d20f39", Peach: "#fe640b", Yellow: "#df8e1d",
	Green: "#40a02b", Teal: "#179299", Blue: "#1e66f5", Mauve: "#8839ef",
	Text: "#4c4f69", Subtext1: "#5c5f77", Overlay1: "#8c8fa1",
	Surface1: "#bcc0cc", Base: "#eff1f5",
}

// ThemePalette holds the current color scheme used by jobs/error/prompt output.
type ThemePalette struct {
	Red, Green, Yellow, Blue, Teal, Peach, Mauve lipgloss.Color
	Text, Subtext, Overlay, Surface, Base        lipgloss.Color
}

var currentTheme ThemePalette

func init() {
	if DetectTheme() == ThemeDark {
		SetDarkTheme()
	} else {
		SetLightTheme()
	}
}

// SetDarkTheme switches to Catppuccin Mocha
func SetDarkTheme() {
	currentTheme = ThemePalette{
		Red: mocha.Red, Green: mocha.Green, Yellow: mocha.Yellow,
		Blue: mocha.Blue, Teal: mocha.Teal, Peach: mocha.Peach, Mauve: mocha.Mauve,
		Text: mocha.Text, Subtext: mocha.Subtext1, Overlay: mocha.Overlay1, Surface: mocha.Surface1,
		Base: mocha.Base,
	}
	refreshStyles()
}

// SetLightTheme switches to Catppuccin Latte
func SetLightTheme() {
	currentTheme = ThemePalette{
		Red: latte.Red, Green: latte.Green, Yellow: latte.Yellow,
		Blue: latte.Blue, Teal: latte.Teal, Peach: latte.Peach, Mauve: latte.Mauve,
		Text: latte.Text, Subtext: latte.Subtext1, Overlay: latte.Overlay1, Surface: latte.Surface1,
		Base: latte.Base,
	}
	refreshStyles()
}

// Semantic styles for prompt, job-table, and diagnostic output.
var (
	MutedStyle       lipgloss.Style
	ErrorStyle       lipgloss.Style
	WarningStyle     lipgloss.Style
	SuccessStyle     lipgloss.Style
	PromptUserStyle  lipgloss.Style
	PromptPathStyle  lipgloss.Style
	CommandStyle     lipgloss.Style
	HeaderStyle      lipgloss.Style
	JobRunningStyle  lipgloss.Style // BG jobs ("Running")
	JobForegroundStyle lipgloss.Style
	JobStoppedStyle  lipgloss.Style
)

func refreshStyles() {
	MutedStyle = lipgloss.NewStyle().Foreground(currentTheme.Overlay)
	ErrorStyle = lipgloss.NewStyle().Foreground(currentTheme.Red).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(currentTheme.Peach)
	SuccessStyle = lipgloss.NewStyle().Foreground(currentTheme.Green)
	PromptUserStyle = lipgloss.NewStyle().Foreground(currentTheme.Teal)
	PromptPathStyle = lipgloss.NewStyle().Foreground(currentTheme.Blue).Bold(true)
	CommandStyle = lipgloss.NewStyle().Foreground(currentTheme.Green).Bold(true)
	HeaderStyle = lipgloss.NewStyle().Foreground(currentTheme.Mauve).Bold(true)

	JobRunningStyle = lipgloss.NewStyle().Foreground(currentTheme.Green)
	JobForegroundStyle = lipgloss.NewStyle().Foreground(currentTheme.Blue)
	JobStoppedStyle = lipgloss.NewStyle().Foreground(currentTheme.Yellow)
}
