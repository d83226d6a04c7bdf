package engine

import (
	"fmt"
	"strings"
)

// ResultSet is the materialized output of a SELECT: a header and rows of
// already-formatted cell text, both in the requested column order.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// String renders the result as a box-drawn table: a "+---+---+" separator
// between header, body, and footer, with each cell center-padded to the
// column's display width (the max of the header name and any cell value).
func (rs *ResultSet) String() string {
	widths := make([]int, len(rs.Columns))
	for i, col := range rs.Columns {
		widths[i] = len(col)
	}
	for _, row := range rs.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	sep := separatorLine(widths)

	sb.WriteString(sep)
	sb.WriteString(formatRow(rs.Columns, widths))
	sb.WriteString(sep)
	for _, row := range rs.Rows {
		sb.WriteString(formatRow(row, widths))
	}
	sb.WriteString(sep)
	return sb.String()
}

func separatorLine(widths []int) string {
	var sb strings.Builder
	for _, w := range widths {
		sb.WriteByte('+')
		sb.WriteString(strings.Repeat("-", w+2))
	}
	sb.WriteString("+\n")
	return sb.String()
}

func formatRow(cells []string, widths []int) string {
	var sb strings.Builder
	for i, cell := range cells {
		sb.WriteByte('|')
		sb.WriteByte(' ')
		sb.WriteString(centerPad(cell, widths[i]))
		sb.WriteByte(' ')
	}
	sb.WriteString("|\n")
	return sb.String()
}

func centerPad(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	right := pad - left
	return fmt.Sprintf("%s%s%s", strings.Repeat(" ", left), s, strings.Repeat(" ", right))
}
