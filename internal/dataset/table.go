// Package dataset loads tabular text datasets from the Hugging Face
// datasets-server API, a local SQLite cache, or JSON Lines files.
//
// Every source produces the same Table shape: an ordered column schema and
// rows whose cells line up with it. Downstream code never sees the wire
// format of the source it came from.
package dataset

import (
	"fmt"
	"strings"
)

// ColumnType is the closed set of cell types a Table can carry.
type ColumnType string

const (
	TypeString     ColumnType = "string"
	TypeInt        ColumnType = "int"
	TypeFloat      ColumnType = "float"
	TypeBool       ColumnType = "bool"
	TypeClassLabel ColumnType = "class_label" // int cell with named classes
	TypeOther      ColumnType = "other"       // raw JSON text
)

// Column describes one column of a Table.
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Labels []string   `json:"labels,omitempty"` // class names for TypeClassLabel
}

// Row holds one record. Cells are string, int64, float64, bool, or nil,
// aligned with Table.Columns. TypeOther cells hold their raw JSON text.
type Row []any

// Table is an in-memory dataset split.
type Table struct {
	Dataset string
	Subset  string
	Split   string
	Columns []Column
	Rows    []Row
	// Total is the row count of the whole split at the source, which may be
	// larger than len(Rows) when a limit was applied.
	Total int
}

// Len returns the number of loaded rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Head returns a table sharing t's schema with at most n leading rows.
// The row slices are shared, not copied.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	head := *t
	head.Rows = t.Rows[:n:n]
	return &head
}

// Name returns "dataset/subset/split" with empty parts omitted.
func (t *Table) Name() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Dataset, t.Subset, t.Split} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// FormatCell renders a cell for display. Class labels show their name when
// the column declares one.
func FormatCell(col Column, v any) string {
	switch cell := v.(type) {
	case nil:
		return "None"
	case string:
		return cell
	case bool:
		if cell {
			return "True"
		}
		return "False"
	case int64:
		if col.Type == TypeClassLabel && cell >= 0 && int(cell) < len(col.Labels) {
			return fmt.Sprintf("%d (%s)", cell, col.Labels[cell])
		}
		return fmt.Sprintf("%d", cell)
	case float64:
		return fmt.Sprintf("%g", cell)
	default:
		return fmt.Sprintf("%v", cell)
	}
}
