package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders the column-aligned listings the shell prints for `jobs -l`
// and similar builtins: ANSI-styled cells line up by visible width, not by
// byte length.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	padding int
}

// NewTable creates a table that writes to w once Render is called.
func NewTable(w io.Writer) *Table {
	return &Table{
		writer:  w,
		padding: 2,
	}
}

// SetHeaders sets the column header row (e.g. JID/PID/STATE/CPU/RSS/CMDLINE
// for `jobs -l`).
func (t *Table) SetHeaders(headers ...string) {
	t.headers = headers
}

// AddRow appends one data row; cols are rendered in the column order given.
func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

// Render writes the headers (if any) and every row, each column padded to
// the widest cell in it.
func (t *Table) Render() {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return
	}

	numCols := len(t.headers)
	for _, row := range t.rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	colWidths := make([]int, numCols)
	for i, h := range t.headers {
		if w := visibleLen(h); w > colWidths[i] {
			colWidths[i] = w
		}
	}
	for _, row := range t.rows {
		for i, col := range row {
			if w := visibleLen(col); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	if len(t.headers) > 0 {
		t.printRow(t.headers, colWidths)
	}
	for _, row := range t.rows {
		t.printRow(row, colWidths)
	}
}

func (t *Table) printRow(row []string, widths []int) {
	for i, col := range row {
		pad := widths[i] - visibleLen(col)
		fmt.Fprint(t.writer, col)
		if i < len(widths)-1 {
			fmt.Fprint(t.writer, strings.Repeat(" ", pad+t.padding))
		}
	}
	fmt.Fprintln(t.writer)
}

// stripANSI removes escape sequences so a styled cell's width can be
// measured against an unstyled one.
func stripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// visibleLen is a cell's rune width once ANSI styling is stripped.
func visibleLen(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}
