package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// byteOrderMark is stripped from the start of a document so it never
// surfaces as part of the first text fragment.
const byteOrderMark = "\ufeff"

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor prepares raw file content for rendering.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// SourcePreprocessor normalizes raw file content before rendering.
type SourcePreprocessor struct{}

// PreprocessMarkdown strips a leading byte order mark and normalizes line
// endings. Content is returned untouched once ctx is done.
func (p *SourcePreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return NormalizeLineEndings(strings.TrimPrefix(content, byteOrderMark))
}

// NormalizeLineEndings rewrites every \r\n and lone \r as \n, so "\n"
// fragments look the same whatever platform saved the file.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
