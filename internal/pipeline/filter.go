package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFilter is returned by ParseFilter for unrecognized names.
var ErrUnknownFilter = errors.New("unknown fragment filter")

// Filter decides which fragments survive extraction.
type Filter int

const (
	// FilterNewline drops fragments whose text is exactly "\n".
	// Empty strings and other whitespace are kept.
	FilterNewline Filter = iota
	// FilterBlank drops every fragment that is empty or whitespace-only.
	FilterBlank
)

// ParseFilter maps a configuration name to a Filter. Empty means FilterNewline.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "newline":
		return FilterNewline, nil
	case "blank":
		return FilterBlank, nil
	default:
		return FilterNewline, fmt.Errorf("%w: %q (must be newline or blank)", ErrUnknownFilter, name)
	}
}

// String returns the configuration name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterNewline:
		return "newline"
	case FilterBlank:
		return "blank"
	default:
		return fmt.Sprintf("Filter(%d)", int(f))
	}
}

// Keep reports whether fr survives the filter.
func (f Filter) Keep(fr Fragment) bool {
	if f == FilterBlank {
		return strings.TrimSpace(fr.Text) != ""
	}
	return fr.Text != "\n"
}

// Apply returns the fragments that survive, preserving their order.
// The input slice is not modified.
func (f Filter) Apply(fragments []Fragment) []Fragment {
	kept := make([]Fragment, 0, len(fragments))
	for _, fr := range fragments {
		if f.Keep(fr) {
			kept = append(kept, fr)
		}
	}
	return kept
}
