// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for icewarden commands.
//
// Colours are disabled for non-TTY output and when NO_COLOR is set.

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(22)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// SuccessStyle is used for success messages
	SuccessStyle = styles.Success

	// ErrorStyle is used for error messages
	ErrorStyle = styles.Error

	// WarningStyle is used for warnings
	WarningStyle = styles.Warning

	// DimStyle is used for hints
	DimStyle = styles.Muted
)

// RenderLabel renders a label with consistent width.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderField renders "label  value" on one line.
func RenderField(label string, value any) string {
	return RenderLabel(label) + ValueStyle.Render(fmt.Sprint(value))
}

// RenderSummary renders a batch summary, red when anything failed.
func RenderSummary(s remediate.Summary) string {
	switch {
	case s.Failed() > 0:
		return ErrorStyle.Render(s.String())
	case len(s) == 0:
		return DimStyle.Render(s.String())
	default:
		return SuccessStyle.Render(s.String())
	}
}
