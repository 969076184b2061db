package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/taskgrove/pkg/model"
)

// Theme holds the visual styling for the tree view. Styles are created
// once at startup, not per frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor

	Container  lipgloss.AdaptiveColor
	Workstream lipgloss.AdaptiveColor
	Task       lipgloss.AdaptiveColor
	Done       lipgloss.AdaptiveColor
	Flag       lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	DimText  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-leaning theme rendered through r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Subtext: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Muted:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},

		Container:  lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Workstream: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Task:       lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"},
		Done:       lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Flag:       lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Cursor = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Selected = r.NewStyle().Foreground(t.Primary).Underline(true)
	t.Header = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.DimText = r.NewStyle().Foreground(t.Muted)
	return t
}

// kindColor returns the foreground color for an entity row.
func (t Theme) kindColor(n *LiveNode) lipgloss.AdaptiveColor {
	switch {
	case n == nil:
		return t.Subtext
	case isDone(n):
		return t.Done
	case isFlagged(n):
		return t.Flag
	}
	switch n.kind {
	case model.KindContainer:
		return t.Container
	case model.KindWorkstream:
		return t.Workstream
	default:
		return t.Task
	}
}
