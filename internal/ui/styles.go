package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles for console output, bound to one
// output so colour support is detected per writer.
type Styles struct {
	renderer *lipgloss.Renderer

	Header  lipgloss.Style
	Group   lipgloss.Style
	Faster  lipgloss.Style
	Slower  lipgloss.Style
	Neutral lipgloss.Style
	Failed  lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles for w. With plain set, colours and attributes
// are disabled regardless of the terminal.
func NewStyles(w io.Writer, plain bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}
	return newStyles(r)
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		renderer: r,
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#7D56F4")). // Brand Color
			Bold(true).
			Padding(0, 1),
		Group: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")), // Light purple
		Faster: r.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true),
		Slower: r.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true),
		Neutral: r.NewStyle().
			Foreground(lipgloss.Color("252")), // Light Gray
		Failed: r.NewStyle().
			Foreground(lipgloss.Color("196")),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
