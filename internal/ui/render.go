// Package ui renders the plan listing and failure summary.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghtools-se/gh-archive/internal/archive"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	itemStyle   = lipgloss.NewStyle().PaddingLeft(2)
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
)

// RenderReports formats the per-pattern expansion messages shown before the
// confirmation gate.
func RenderReports(reports []archive.PatternReport) string {
	var b strings.Builder

	for i, rep := range reports {
		if i > 0 {
			b.WriteString("\n")
		}

		if len(rep.Matches) == 0 {
			b.WriteString(headerStyle.Render(
				fmt.Sprintf("Pattern '%s' matched 0 non-archived repositories.", rep.Pattern)))
			b.WriteString("\n")

			continue
		}

		b.WriteString(headerStyle.Render(
			fmt.Sprintf("Pattern '%s' will archive:", rep.Pattern)))
		b.WriteString("\n")

		for _, slug := range rep.Matches {
			b.WriteString(itemStyle.Render(slug))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderFailures formats the end-of-run failure summary.
func RenderFailures(fails []string) string {
	var b strings.Builder

	b.WriteString(failStyle.Render(
		fmt.Sprintf("Failed to archive %d repository(ies):", len(fails))))
	b.WriteString("\n")

	for _, slug := range fails {
		b.WriteString(itemStyle.Render(slug))
		b.WriteString("\n")
	}

	return b.String()
}
