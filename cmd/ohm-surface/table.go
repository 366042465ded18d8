package main

import (
	"fmt"

	"github.com/JeanRibes/ohm-surface/modes"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4"))
	cellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	modeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	unboundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

var columns = []struct {
	title string
	width int
}{
	{"control", 14},
	{"kind", 8},
	{"layer", 16},
	{"component", 18},
	{"mode", 10},
	{"role", 22},
}

func row(style lipgloss.Style, cells ...string) string {
	rendered := make([]string, len(cells))
	for i, c := range cells {
		rendered[i] = style.Width(columns[i].width).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderBindings prints who owns each control of the surface.
func renderBindings(name string, rows []modes.Assignment) string {
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.title
	}
	lines := []string{titleStyle.Render(name), row(headerStyle, header...)}
	unbound := 0
	for _, a := range rows {
		if a.Layer == "" {
			unbound++
			lines = append(lines, row(unboundStyle, string(a.Control), a.Kind.String(), "-", "-", "-", "-"))
			continue
		}
		style := cellStyle
		mode := "base"
		if a.Mode != "" {
			style = modeStyle
			mode = a.Mode
		}
		role := fmt.Sprintf("%s[%d]", a.Role, a.Index)
		lines = append(lines, row(style, string(a.Control), a.Kind.String(), a.Layer, a.Component, mode, role))
	}
	lines = append(lines, "", fmt.Sprintf("%d controls, %d unbound", len(rows), unbound))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
