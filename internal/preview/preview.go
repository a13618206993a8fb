// Package preview renders the head of a dataset table for the terminal.
package preview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/alnah/go-textprobe/internal/dataset"
)

// Defaults for previews.
const (
	DefaultRows      = 5
	DefaultCellWidth = 48
	ellipsis         = "..."
)

// Options controls rendering.
type Options struct {
	// CellWidth truncates cells to this many display cells. 0 uses the default.
	CellWidth int
	// Color enables header styling. Leave off when writing to a pipe.
	Color bool
}

// Head returns the first min(n, rows) rows of t. n <= 0 uses DefaultRows.
func Head(t *dataset.Table, n int) *dataset.Table {
	if n <= 0 {
		n = DefaultRows
	}
	return t.Head(n)
}

// Render writes head as a table with an index column. total is the row
// count of the full table; when it exceeds the preview, a shape footer
// "[N rows x M columns]" follows.
func Render(w io.Writer, head *dataset.Table, total int, opts Options) error {
	width := opts.CellWidth
	if width <= 0 {
		width = DefaultCellWidth
	}

	headers := make([]string, 0, len(head.Columns)+1)
	headers = append(headers, "")
	for _, c := range head.Columns {
		headers = append(headers, truncate(c.Name, width))
	}

	rows := make([][]string, len(head.Rows))
	for i, row := range head.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for j, col := range head.Columns {
			var v any
			if j < len(row) {
				v = row[j]
			}
			cells = append(cells, truncate(dataset.FormatCell(col, v), width))
		}
		rows[i] = cells
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	headerStyle := cellStyle
	if opts.Color {
		headerStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("69"))
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, tbl.String()); err != nil {
		return err
	}
	if total > len(head.Rows) {
		if _, err := fmt.Fprintf(w, "\n[%d rows x %d columns]\n", total, len(head.Columns)); err != nil {
			return err
		}
	}
	return nil
}

// truncate flattens newlines and shortens s to width display cells.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, ellipsis)
}
