// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Marker prefixes a cell whose value matched threat intelligence.
const Marker = "*** "

var (
	// Header is the title line above tables and watch frames.
	Header = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	// TableHeader styles column names.
	TableHeader = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)

	// Cell styles ordinary table cells.
	Cell = lipgloss.NewStyle().Foreground(TextPrimary)

	// Flagged styles cells carrying Marker.
	Flagged = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// Muted styles synthetic rows, hints and progress lines.
	Muted = lipgloss.NewStyle().Foreground(TextMuted)

	// Error styles error text.
	Error = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// Warning styles confirmation prompts and warnings.
	Warning = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	// Success styles success text.
	Success = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
)

// statusColors maps remediation status labels to their colour.
var statusColors = map[string]lipgloss.AdaptiveColor{
	"Active":   Amber,
	"Killed":   Emerald,
	"Disabled": Emerald,
	"Reset":    Purple,
	"Failed":   Rose,
}

// Status returns the style for a remediation status label.
// Unknown labels use the plain cell style.
func Status(label string) lipgloss.Style {
	c, ok := statusColors[label]
	if !ok {
		return Cell
	}
	return lipgloss.NewStyle().Foreground(c).Bold(label == "Failed")
}

// CellStyle picks the style for a rendered cell value.
func CellStyle(value string) lipgloss.Style {
	if strings.HasPrefix(value, Marker) {
		return Flagged
	}
	if _, ok := statusColors[value]; ok {
		return Status(value)
	}
	return Cell
}
