package textprobe

import "github.com/alnah/go-textprobe/internal/pipeline"

// Fragment is one text-bearing node of a rendered document.
type Fragment = pipeline.Fragment

// FragmentKind identifies the node kind behind a Fragment.
type FragmentKind = pipeline.FragmentKind

// Fragment kinds.
const (
	KindText    = pipeline.KindText
	KindComment = pipeline.KindComment
)

// Filter decides which fragments are kept.
type Filter = pipeline.Filter

// Fragment filters.
const (
	// FilterNewline drops fragments whose text is exactly "\n".
	FilterNewline = pipeline.FilterNewline
	// FilterBlank drops fragments made only of whitespace, including "".
	FilterBlank = pipeline.FilterBlank
)

// ParseFilter resolves a filter name ("newline" or "blank").
func ParseFilter(name string) (Filter, error) {
	return pipeline.ParseFilter(name)
}

// Document holds the kept fragments of one file, in document order.
type Document struct {
	Path      string
	Fragments []Fragment
}

// Count returns the number of kept fragments.
func (d *Document) Count() int {
	return len(d.Fragments)
}

// Extraction is the ordered result of a directory scan.
type Extraction struct {
	Dir       string
	Documents []*Document
}

// Count returns the total fragment count, the sum of per-file counts.
func (e *Extraction) Count() int {
	n := 0
	for _, d := range e.Documents {
		n += d.Count()
	}
	return n
}

// Fragments returns every fragment of every document as one sequence,
// documents in path order.
func (e *Extraction) Fragments() []Fragment {
	out := make([]Fragment, 0, e.Count())
	for _, d := range e.Documents {
		out = append(out, d.Fragments...)
	}
	return out
}
