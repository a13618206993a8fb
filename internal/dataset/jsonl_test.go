package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestReadJSONL(t *testing.T) {
	t.Parallel()

	input := `{"text":"she laughed","label":1,"score":null}

{"text":"they left","label":0,"score":0.25,"extra":[1]}
{"label":1,"score":3}
`
	table, err := ReadJSONL(strings.NewReader(input), "reviews.jsonl")
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}

	wantColumns := []Column{
		{Name: "text", Type: TypeString},
		{Name: "label", Type: TypeInt},
		{Name: "score", Type: TypeFloat},
		{Name: "extra", Type: TypeOther},
	}
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Errorf("Columns = %+v, want %+v", table.Columns, wantColumns)
	}

	wantRows := []Row{
		{"she laughed", int64(1), nil, nil},
		{"they left", int64(0), 0.25, "[1]"},
		{nil, int64(1), 3.0, nil},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("Rows = %#v, want %#v", table.Rows, wantRows)
	}
	if table.Total != 3 || table.Dataset != "reviews.jsonl" {
		t.Errorf("Total = %d, Dataset = %q", table.Total, table.Dataset)
	}
}

func TestReadJSONL_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid json", input: "{\"text\":\n"},
		{name: "array record", input: "[1,2]\n"},
		{name: "type conflict", input: "{\"a\":\"x\"}\n{\"a\":1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ReadJSONL(strings.NewReader(tt.input), "bad.jsonl"); !errors.Is(err, ErrDecode) {
				t.Errorf("error = %v, want ErrDecode", err)
			}
		})
	}
}

func TestReadJSONL_Empty(t *testing.T) {
	t.Parallel()

	table, err := ReadJSONL(strings.NewReader(""), "empty.jsonl")
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}
	if table.Len() != 0 || len(table.Columns) != 0 {
		t.Errorf("got %d rows, %d columns, want none", table.Len(), len(table.Columns))
	}
}
