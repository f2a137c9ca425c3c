package style

import (
	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// OutcomeStyle returns the lipgloss style for an install outcome
func OutcomeStyle(o types.Outcome) lipgloss.Style {
	switch o {
	case types.OutcomeInstalled:
		return SuccessStyle
	case types.OutcomePresent:
		return InfoStyle
	case types.OutcomePlanned:
		return WarningStyle
	case types.OutcomeFailed:
		return ErrorStyle
	default:
		return MutedStyle
	}
}

// OutcomeMark returns the one-character marker printed before a package
func OutcomeMark(o types.Outcome) string {
	switch o {
	case types.OutcomeInstalled:
		return SuccessMark
	case types.OutcomePresent:
		return InfoMark
	case types.OutcomePlanned:
		return PendingMark
	case types.OutcomeFailed:
		return ErrorMark
	default:
		return "-"
	}
}

// StateStyle returns the pterm style for a status table cell
func StateStyle(state string) *pterm.Style {
	switch state {
	case "installed":
		return pterm.NewStyle(pterm.FgGreen)
	case "missing":
		return pterm.NewStyle(pterm.FgYellow)
	case "unknown":
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}
