// Package pipeline implements the Markdown-to-text extraction stages.
//
// The stages run in order for every source document:
//   - Markdown preprocessing (line ending normalization, BOM removal)
//   - Markdown to HTML conversion via Goldmark
//   - HTML parsing and text node collection via golang.org/x/net/html
//   - Fragment filtering (bare newlines, or every blank fragment)
//
// Directory traversal and aggregation across files live in the root
// textprobe package, which keeps this package free of filesystem concerns.
package pipeline
