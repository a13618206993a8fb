package disaggregate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/alnah/go-textprobe/internal/dataset"
)

// TagFunc maps one text to its category flags, keyed by category label.
// Every label of the taxonomy is present in the result.
type TagFunc func(text string) map[string]bool

// Disaggregator tags a text column with the categories of one taxonomy.
type Disaggregator struct {
	taxonomy Taxonomy
	column   string
	sets     []map[string]struct{}
}

// New builds a Disaggregator for the named taxonomy over column.
func New(taxonomy, column string, registry *Registry) (*Disaggregator, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	tax, err := registry.Lookup(taxonomy)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(column) == "" {
		return nil, fmt.Errorf("%w: empty column name", ErrColumnNotFound)
	}

	fold := cases.Fold()
	sets := make([]map[string]struct{}, len(tax.Categories))
	for i, c := range tax.Categories {
		sets[i] = make(map[string]struct{}, len(c.Words))
		for _, w := range c.Words {
			sets[i][fold.String(strings.TrimSpace(w))] = struct{}{}
		}
	}

	return &Disaggregator{taxonomy: tax, column: column, sets: sets}, nil
}

// Taxonomy returns the taxonomy being applied.
func (d *Disaggregator) Taxonomy() Taxonomy {
	return d.taxonomy
}

// Column returns the text column being tagged.
func (d *Disaggregator) Column() string {
	return d.column
}

// Function returns the per-record tagging function.
// The function is safe for concurrent use.
func (d *Disaggregator) Function() TagFunc {
	return func(text string) map[string]bool {
		flags := d.tag(cases.Fold(), text)
		out := make(map[string]bool, len(flags))
		for i, c := range d.taxonomy.Categories {
			out[c.Label] = flags[i]
		}
		return out
	}
}

// tag returns one flag per category, in taxonomy order.
// A cases.Caser is stateful, so callers pass their own.
func (d *Disaggregator) tag(fold cases.Caser, text string) []bool {
	flags := make([]bool, len(d.sets))
	if text == "" {
		return flags
	}
	remaining := len(d.sets)
	for _, token := range tokenize(fold.String(text)) {
		for i, set := range d.sets {
			if flags[i] {
				continue
			}
			if _, ok := set[token]; ok {
				flags[i] = true
				remaining--
			}
		}
		if remaining == 0 {
			break
		}
	}
	return flags
}

// tokenize splits on every rune that is not a letter, so "she's" yields
// "she" and "s".
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
}

// Apply returns a new table with one bool column per category appended.
// The input table is not modified. Null cells tag as all false.
func (d *Disaggregator) Apply(t *dataset.Table) (*dataset.Table, error) {
	idx := t.ColumnIndex(d.column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrColumnNotFound, d.column, t.Name())
	}
	if typ := t.Columns[idx].Type; typ != dataset.TypeString {
		return nil, fmt.Errorf("%w: %q has type %s", ErrColumnType, d.column, typ)
	}
	for _, label := range d.taxonomy.Labels() {
		if t.ColumnIndex(label) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnExists, label)
		}
	}

	out := &dataset.Table{
		Dataset: t.Dataset,
		Subset:  t.Subset,
		Split:   t.Split,
		Total:   t.Total,
		Columns: make([]dataset.Column, 0, len(t.Columns)+len(d.sets)),
		Rows:    make([]dataset.Row, len(t.Rows)),
	}
	out.Columns = append(out.Columns, t.Columns...)
	for _, label := range d.taxonomy.Labels() {
		out.Columns = append(out.Columns, dataset.Column{Name: label, Type: dataset.TypeBool})
	}

	fold := cases.Fold()
	width := len(out.Columns)
	for i, row := range t.Rows {
		var text string
		switch cell := row[idx].(type) {
		case nil:
		case string:
			text = cell
		default:
			return nil, fmt.Errorf("%w: row %d of %q holds %T", ErrColumnType, i, d.column, cell)
		}

		tagged := make(dataset.Row, 0, width)
		tagged = append(tagged, row...)
		for _, flag := range d.tag(fold, text) {
			tagged = append(tagged, flag)
		}
		out.Rows[i] = tagged
	}
	return out, nil
}
