package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given adaptive color for ANSI256+ terminals and the
// safe ANSI fallback for 16-color or lower terminals, so limited terminals
// get palette colors instead of a down-converted approximation.
func ThemeFg(c lipgloss.AdaptiveColor, fallback lipgloss.ANSIColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return fallback
	}
	return c
}

// Theme collects the styles used across the dashboard.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor

	// Chrome
	Header     lipgloss.Style
	StatusBar  lipgloss.Style
	StatusErr  lipgloss.Style
	FooterKeys lipgloss.Style
	PanelTitle lipgloss.Style
	Panel      lipgloss.Style
	Sidebar    lipgloss.Style

	// Tree nodes
	RootNode        lipgloss.Style
	FolderNode      lipgloss.Style
	MultibranchNode lipgloss.Style
	LeafNode        lipgloss.Style
	CursorLine      lipgloss.Style
	HoverLine       lipgloss.Style
	Dim             lipgloss.Style

	// Build results
	ResultGood     lipgloss.Style
	ResultBad      lipgloss.Style
	ResultUnstable lipgloss.Style
	ResultNeutral  lipgloss.Style
}

// DefaultTheme builds the standard theme against the given renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	primary := lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}
	accent := lipgloss.AdaptiveColor{Light: "#875FAF", Dark: "#AF87FF"}
	muted := lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
	danger := lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	good := lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"}
	warn := lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD75F"}

	primaryFg := ThemeFg(primary, lipgloss.ANSIColor(4))
	accentFg := ThemeFg(accent, lipgloss.ANSIColor(5))
	mutedFg := ThemeFg(muted, lipgloss.ANSIColor(7))
	dangerFg := ThemeFg(danger, lipgloss.ANSIColor(1))
	goodFg := ThemeFg(good, lipgloss.ANSIColor(2))
	warnFg := ThemeFg(warn, lipgloss.ANSIColor(3))

	return Theme{
		Renderer: r,

		Primary: primary,
		Accent:  accent,
		Muted:   muted,
		Danger:  danger,

		Header:     r.NewStyle().Bold(true).Foreground(primaryFg).Padding(0, 1),
		StatusBar:  r.NewStyle().Foreground(mutedFg).Padding(0, 1),
		StatusErr:  r.NewStyle().Foreground(dangerFg).Padding(0, 1),
		FooterKeys: r.NewStyle().Foreground(mutedFg).Padding(0, 1),
		PanelTitle: r.NewStyle().Bold(true).Foreground(primaryFg),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedFg).
			Padding(0, 1),
		Sidebar: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedFg),

		RootNode:        r.NewStyle().Bold(true).Foreground(primaryFg),
		FolderNode:      r.NewStyle().Foreground(accentFg),
		MultibranchNode: r.NewStyle().Foreground(warnFg),
		LeafNode:        r.NewStyle(),
		CursorLine:      r.NewStyle().Reverse(true),
		HoverLine:       r.NewStyle().Underline(true),
		Dim:             r.NewStyle().Foreground(mutedFg).Faint(true),

		ResultGood:     r.NewStyle().Foreground(goodFg),
		ResultBad:      r.NewStyle().Foreground(dangerFg),
		ResultUnstable: r.NewStyle().Foreground(warnFg),
		ResultNeutral:  r.NewStyle().Foreground(mutedFg),
	}
}
