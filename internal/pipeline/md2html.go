package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion wraps goldmark render failures.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter renders one markdown document to HTML.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter renders markdown with goldmark. It is safe for
// concurrent use by extraction workers.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

type converterConfig struct {
	highlight bool
	style     string
}

// WithHighlighting renders fenced code blocks through chroma, which splits
// code into one span per token. Every token then becomes its own text node.
func WithHighlighting(style string) ConverterOption {
	return func(c *converterConfig) {
		c.highlight = true
		c.style = style
	}
}

// NewGoldmarkConverter enables GFM tables, strikethrough, autolinks, task
// lists and footnotes.
// Raw HTML in the source is passed through: the output is only parsed for
// text, never served, and dropping it would hide text authors wrote inline.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	cfg := converterConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	extensions := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
	}
	if cfg.highlight {
		hlOpts := []highlighting.Option{
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		}
		if cfg.style != "" {
			hlOpts = append(hlOpts, highlighting.WithStyle(cfg.style))
		}
		extensions = append(extensions, highlighting.NewHighlighting(hlOpts...))
	}

	return &GoldmarkConverter{md: goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// ToHTML renders content as an HTML fragment without an html/body wrapper.
// goldmark has no context support, so rendering runs in its own goroutine
// and ToHTML returns early when ctx is cancelled.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type rendered struct {
		out string
		err error
	}
	ch := make(chan rendered, 1)

	go func() {
		var buf bytes.Buffer
		err := c.md.Convert([]byte(content), &buf)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		ch <- rendered{out: buf.String(), err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		return r.out, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
