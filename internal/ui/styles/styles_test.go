// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStatus_KnownLabels(t *testing.T) {
	tests := []struct {
		label string
		want  lipgloss.AdaptiveColor
	}{
		{"Active", Amber},
		{"Killed", Emerald},
		{"Disabled", Emerald},
		{"Reset", Purple},
		{"Failed", Rose},
	}
	for _, tt := range tests {
		got := Status(tt.label).GetForeground()
		if got != tt.want {
			t.Errorf("Status(%q) foreground = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestStatus_UnknownLabelIsPlain(t *testing.T) {
	if Status("Pending").GetForeground() != Cell.GetForeground() {
		t.Error("unknown label should use the cell style")
	}
}

func TestCellStyle(t *testing.T) {
	if CellStyle(Marker+"104.223.91.28").GetForeground() != Rose {
		t.Error("marked cell should be flagged")
	}
	if CellStyle("Killed").GetForeground() != Emerald {
		t.Error("status cell should use its status colour")
	}
	if CellStyle("ALICE").GetForeground() != TextPrimary {
		t.Error("plain cell should use the primary text colour")
	}
}
