package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Color modes, as accepted by output.color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// UseColor decides whether output to f gets colours: never when NO_COLOR is
// set or output is piped, unless mode is "always"
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f == nil || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// Setup configures lipgloss and pterm for the chosen mode and reports
// whether colours are on
func Setup(mode string, f *os.File) bool {
	enabled := UseColor(mode, f)
	if enabled {
		if mode == ColorAlways && termenv.ColorProfile() == termenv.Ascii {
			lipgloss.SetColorProfile(termenv.ANSI256)
		}
		pterm.EnableColor()
		pterm.EnableStyling()
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
		pterm.DisableColor()
		pterm.DisableStyling()
	}
	return enabled
}
