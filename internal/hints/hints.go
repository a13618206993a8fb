// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForUnauthorized returns a hint for gated or private datasets.
// tokenSet reports whether HF_TOKEN was already provided.
func ForUnauthorized(tokenSet bool) string {
	if tokenSet {
		return format("HF_TOKEN was rejected; check that it can read this dataset")
	}
	return format("set HF_TOKEN to a Hugging Face access token for gated datasets")
}

// ForRequest returns hints for transport failures against the datasets-server.
func ForRequest() string {
	return formatHints([]string{
		"check the network or --endpoint",
		"raise --timeout for slow connections",
		"run 'textprobe doctor'",
	})
}

// ForSplitNotFound suggests selecting the split or subset explicitly.
func ForSplitNotFound() string {
	return format("pick one of the listed splits with --split, or --subset")
}

// ForNotRegularFile explains how to handle subdirectories in extract.
func ForNotRegularFile() string {
	return format("use --recursive to descend into subdirectories")
}

// ForInvalidUTF8 suggests skipping non-markdown files.
func ForInvalidUTF8() string {
	return format("use --markdown-only to skip files without .md/.markdown extension")
}

// ForConfigNotFound suggests --config with a path or a file in the user config dir.
func ForConfigNotFound() string {
	return format("use --config /path/to/file.yaml or create ~/.config/textprobe/<name>.yaml")
}

// ForCache returns hints for dataset cache failures.
func ForCache() string {
	return formatHints([]string{"use --no-cache", "point --cache-dir at a writable directory"})
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
