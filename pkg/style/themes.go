package style

import (
	"github.com/charmbracelet/lipgloss"
)

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Base palette. Each colour has a light and a dark terminal variant.
var (
	PrimaryColor   = adaptive("#007ACC", "#3D9EFF")
	SecondaryColor = adaptive("#6C757D", "#A0A8B0")

	HeadingColor = adaptive("#212529", "#F8F9FA")
	MutedColor   = adaptive("#6C757D", "#ADB5BD")
)

// Outcome colours
var (
	SuccessColor = adaptive("#28A745", "#4CDD76")
	ErrorColor   = adaptive("#DC3545", "#FF6B7D")
	WarningColor = adaptive("#B8860B", "#FFD54F")
	InfoColor    = adaptive("#17A2B8", "#4DD0E1")
)

// Method family colours, so a glance at a plan shows what goes through
// the package manager and what is fetched from elsewhere
var (
	// SystemColor marks OS package managers
	SystemColor = adaptive("#10B981", "#34D399")

	// ReleaseColor marks GitHub releases and git checkouts
	ReleaseColor = adaptive("#0EA5E9", "#38BDF8")

	// ScriptColor marks installer scripts and inline commands
	ScriptColor = adaptive("#D97706", "#FBBF24")

	// CustomColor marks custom installers
	CustomColor = adaptive("#8B5CF6", "#A78BFA")
)
