package style

import (
	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	// Headers and titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// Code and path styles
	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Method family styles
var (
	SystemStyle = lipgloss.NewStyle().
			Foreground(SystemColor).
			Bold(true)

	ReleaseStyle = lipgloss.NewStyle().
			Foreground(ReleaseColor).
			Bold(true)

	ScriptStyle = lipgloss.NewStyle().
			Foreground(ScriptColor).
			Bold(true)

	CustomStyle = lipgloss.NewStyle().
			Foreground(CustomColor).
			Bold(true)
)

// Operation indicators
const (
	SuccessMark  = "✓"
	ErrorMark    = "✗"
	InfoMark     = "•"
	PendingMark  = "○"
	ProgressMark = "⟳"
)

// MethodStyle returns the style for a method's family
func MethodStyle(m types.Method) lipgloss.Style {
	switch m {
	case types.MethodGitHub, types.MethodGit:
		return ReleaseStyle
	case types.MethodScript, types.MethodCommand:
		return ScriptStyle
	case types.MethodCustom:
		return CustomStyle
	}
	if m.IsSystem() {
		return SystemStyle
	}
	return MutedStyle
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
