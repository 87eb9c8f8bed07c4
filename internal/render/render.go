// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns record lists into bounded tables that fit a terminal.
//
// Rendering is a pure function of its inputs: records, the column selection,
// per-column transforms and a row limit. When there are more records than
// rows, the view ends with an ellipsis row and an "And k more" summary row.
package render

import (
	"fmt"
	"time"

	"github.com/jeranaias/icewarden/internal/util"
)

// ScreenOverhead is the number of terminal lines a table needs besides its
// data rows: header, header rule, the two synthetic rows and the prompt.
const ScreenOverhead = 5

// Column selects one value from a record.
type Column[T any] struct {
	Name  string
	Value func(T) any

	// MaxWidth truncates the rendered cell to this display width. Zero means no limit.
	MaxWidth int
}

// Transform renders one cell value as text.
type Transform func(any) string

// View is a rendered, possibly truncated table.
type View struct {
	Title   string
	Headers []string
	Rows    [][]string

	// Omitted is the number of records left out. When non-zero the last two
	// rows of Rows are the ellipsis and summary rows.
	Omitted int

	// Footer lines are printed below the table.
	Footer []string
}

// Render builds a view of records. transforms is keyed by column name;
// columns without a transform use Plain. A rowLimit of zero or less shows
// every record.
func Render[T any](records []T, columns []Column[T], transforms map[string]Transform, rowLimit int) View {
	v := View{Headers: make([]string, len(columns))}
	for i, c := range columns {
		v.Headers[i] = c.Name
	}

	shown := records
	if rowLimit > 0 && len(records) > rowLimit {
		shown = records[:rowLimit]
		v.Omitted = len(records) - rowLimit
	}

	v.Rows = make([][]string, 0, len(shown)+2)
	for _, rec := range shown {
		row := make([]string, len(columns))
		for i, c := range columns {
			tf, ok := transforms[c.Name]
			if !ok || tf == nil {
				tf = Plain
			}
			cell := tf(c.Value(rec))
			if c.MaxWidth > 0 {
				cell = util.Truncate(util.SingleLine(cell), c.MaxWidth)
			}
			row[i] = cell
		}
		v.Rows = append(v.Rows, row)
	}

	if v.Omitted > 0 {
		v.Rows = append(v.Rows, ellipsisRow(len(columns)), summaryRow(len(columns), v.Omitted))
	}
	return v
}

// RowLimit returns the number of data rows that fit a terminal of the given
// height. It is never less than one.
func RowLimit(termHeight int) int {
	return max(termHeight-ScreenOverhead, 1)
}

// Records returns the rows that correspond to real records.
func (v View) Records() [][]string {
	if v.Omitted > 0 && len(v.Rows) >= 2 {
		return v.Rows[:len(v.Rows)-2]
	}
	return v.Rows
}

func ellipsisRow(n int) []string {
	row := make([]string, n)
	for i := range row {
		row[i] = util.Ellipsis
	}
	return row
}

func summaryRow(n, omitted int) []string {
	row := make([]string, n)
	if n > 0 {
		row[0] = fmt.Sprintf("And %d more", omitted)
	}
	return row
}

// Plain renders a value with fmt. Nil values and nil times render empty.
func Plain(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(time.DateTime)
	case *time.Time:
		if val == nil || val.IsZero() {
			return ""
		}
		return val.Format(time.DateTime)
	default:
		return fmt.Sprint(val)
	}
}
