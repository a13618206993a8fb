package textprobe

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-textprobe/internal/fileutil"
	"github.com/alnah/go-textprobe/internal/pipeline"
)

// Extractor turns markdown files into ordered text fragments.
// It is safe for concurrent use.
type Extractor struct {
	cfg          extractorConfig
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
}

type extractorConfig struct {
	filter         Filter
	highlight      bool
	highlightStyle string
	workers        int
	markdownOnly   bool
	recursive      bool
	logger         *zap.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*extractorConfig)

// WithFilter selects which fragments are kept. The default is FilterNewline.
func WithFilter(f Filter) ExtractorOption {
	return func(c *extractorConfig) { c.filter = f }
}

// WithHighlighting renders fenced code through chroma. Each highlighted
// token becomes its own fragment, so counts grow with code density.
// An empty style uses the chroma default.
func WithHighlighting(style string) ExtractorOption {
	return func(c *extractorConfig) {
		c.highlight = true
		c.highlightStyle = style
	}
}

// WithWorkers sets how many files are rendered in parallel.
// 0 or less selects ResolveWorkers(0).
func WithWorkers(n int) ExtractorOption {
	return func(c *extractorConfig) { c.workers = n }
}

// WithLogger sets the logger for per-file progress.
func WithLogger(l *zap.Logger) ExtractorOption {
	return func(c *extractorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMarkdownOnly skips entries without a .md or .markdown extension.
func WithMarkdownOnly() ExtractorOption {
	return func(c *extractorConfig) { c.markdownOnly = true }
}

// WithRecursive descends into subdirectories instead of rejecting them.
func WithRecursive() ExtractorOption {
	return func(c *extractorConfig) { c.recursive = true }
}

// NewExtractor creates an Extractor with default configuration.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	cfg := extractorConfig{
		filter: FilterNewline,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.workers = ResolveWorkers(cfg.workers)

	var convOpts []pipeline.ConverterOption
	if cfg.highlight {
		convOpts = append(convOpts, pipeline.WithHighlighting(cfg.highlightStyle))
	}

	return &Extractor{
		cfg:          cfg,
		preprocessor: &pipeline.SourcePreprocessor{},
		converter:    pipeline.NewGoldmarkConverter(convOpts...),
	}
}

// Workers returns the resolved worker count.
func (e *Extractor) Workers() int {
	return e.cfg.workers
}

// ExtractMarkdown renders markdown and returns its kept fragments in
// document order.
func (e *Extractor) ExtractMarkdown(ctx context.Context, markdown string) ([]Fragment, error) {
	content := e.preprocessor.PreprocessMarkdown(ctx, markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err := e.converter.ToHTML(ctx, content)
	if err != nil {
		return nil, err
	}

	fragments, err := pipeline.TextNodes(htmlContent)
	if err != nil {
		return nil, err
	}
	return e.cfg.filter.Apply(fragments), nil
}

// ExtractFile reads path as UTF-8 markdown and extracts its fragments.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Document, error) {
	content, err := fileutil.ReadUTF8File(path)
	if err != nil {
		return nil, err
	}

	fragments, err := e.ExtractMarkdown(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Document{Path: path, Fragments: fragments}, nil
}

// ExtractDir extracts every file of dir, in sorted path order.
// The first failing file, in that order, aborts the extraction.
func (e *Extractor) ExtractDir(ctx context.Context, dir string) (*Extraction, error) {
	start := time.Now()

	paths, err := e.listFiles(dir)
	if err != nil {
		return nil, err
	}

	docs, errs := runOrdered(ctx, len(paths), e.cfg.workers, func(ctx context.Context, i int) (*Document, error) {
		doc, err := e.ExtractFile(ctx, paths[i])
		if err == nil {
			e.cfg.logger.Debug("extracted file",
				zap.String("path", paths[i]),
				zap.Int("fragments", doc.Count()),
			)
		}
		return doc, err
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	result := &Extraction{Dir: dir, Documents: docs}
	e.cfg.logger.Debug("extracted directory",
		zap.String("dir", dir),
		zap.Int("files", len(docs)),
		zap.Int("fragments", result.Count()),
		zap.Int("workers", e.cfg.workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// listFiles returns the entries to extract, sorted by path.
// Without recursion, subdirectories are returned too so that reading them
// fails with ErrNotRegularFile.
func (e *Extractor) listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	if !e.cfg.recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading directory: %w", err)
		}
		paths := make([]string, 0, len(entries))
		for _, entry := range entries {
			if e.cfg.markdownOnly && !fileutil.IsMarkdown(entry.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
		return paths, nil
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if e.cfg.markdownOnly && !fileutil.IsMarkdown(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}
	return paths, nil
}
