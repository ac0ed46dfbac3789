package verifier

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals // Terminal styles are immutable after init.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Width(kindColumnWidth)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pathRowStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// kindColumnWidth fits the longest Kind value plus a space.
const kindColumnWidth = 17

// Render formats the report for a terminal.
func (r *Report) Render() string {
	lines := []string{
		titleStyle.Render("Release verification: " + r.ReleaseRoot),
		subtleStyle.Render(fmt.Sprintf("%d files compared with their sources", r.FilesCompared)),
	}

	if r.OK() {
		lines = append(lines, okStyle.Render("OK"))

		return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
	}

	lines = append(lines, failStyle.Render(fmt.Sprintf("%d problem(s) found", len(r.Findings))))

	for _, finding := range r.Findings {
		lines = append(lines, pathRowStyle.Render(
			lipgloss.JoinHorizontal(lipgloss.Top, kindStyle.Render(string(finding.Kind)), finding.Path),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// String lists findings one per line without styling.
func (r *Report) String() string {
	var builder strings.Builder

	for _, finding := range r.Findings {
		builder.WriteString(string(finding.Kind))
		builder.WriteString(": ")
		builder.WriteString(finding.Path)
		builder.WriteString("\n")
	}

	return builder.String()
}
