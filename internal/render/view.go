// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jeranaias/icewarden/internal/ui/styles"
	"github.com/jeranaias/icewarden/internal/util"
)

// String renders the view as a borderless table with a header rule,
// preceded by the title and followed by the footer lines.
func (v View) String() string {
	var b strings.Builder
	if v.Title != "" {
		b.WriteString(styles.Header.Render(v.Title))
		b.WriteString("\n\n")
	}

	synthetic := len(v.Rows) - len(v.Records())
	firstSynthetic := len(v.Rows) - synthetic

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Overlay)).
		Headers(v.Headers...).
		Rows(singleLine(v.Rows)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = styles.TableHeader
			case row >= firstSynthetic:
				s = styles.Muted
			case row >= 0 && row < len(v.Rows) && col < len(v.Rows[row]):
				s = styles.CellStyle(v.Rows[row][col])
			default:
				s = styles.Cell
			}
			return s.PaddingRight(2)
		})

	b.WriteString(t.Render())
	for _, line := range v.Footer {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render(line))
	}
	return b.String()
}

func singleLine(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = util.SingleLine(cell)
		}
	}
	return out
}

// CSV writes the headers and record rows as CSV. Synthetic rows are never written.
func (v View) CSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(v.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(v.Records()); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
