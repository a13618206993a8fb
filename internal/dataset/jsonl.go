package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// maxJSONLLine bounds a single record; long reviews fit comfortably.
const maxJSONLLine = 16 << 20

// ReadJSONL reads a JSON Lines file of flat objects into a Table.
// The schema is the union of keys in first-seen order; a column's type is
// taken from its first non-null value. Blank lines are skipped.
func ReadJSONL(r io.Reader, name string) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	var records []gjson.Result
	var columns []Column
	index := make(map[string]int)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("%w: %s:%d: invalid JSON", ErrDecode, name, line)
		}
		record := gjson.Parse(text)
		if !record.IsObject() {
			return nil, fmt.Errorf("%w: %s:%d: record is not an object", ErrDecode, name, line)
		}

		record.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			i, seen := index[k]
			if !seen {
				i = len(columns)
				index[k] = i
				columns = append(columns, Column{Name: k})
			}
			if value.Type == gjson.Null {
				return true
			}
			switch typ := inferColumnType(value); {
			case columns[i].Type == "":
				columns[i].Type = typ
			case columns[i].Type == TypeInt && typ == TypeFloat:
				columns[i].Type = TypeFloat
			}
			return true
		})
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	for i := range columns {
		if columns[i].Type == "" {
			columns[i].Type = TypeOther
		}
	}

	table := &Table{Dataset: name, Columns: columns, Rows: make([]Row, 0, len(records))}
	for n, record := range records {
		row, err := decodeRow(columns, record)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, n+1, err)
		}
		table.Rows = append(table.Rows, row)
	}
	table.Total = len(table.Rows)
	return table, nil
}
