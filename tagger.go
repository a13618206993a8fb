package textprobe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-textprobe/internal/dataset"
	"github.com/alnah/go-textprobe/internal/disaggregate"
)

// TableLoader loads a dataset split. *dataset.Loader implements it.
type TableLoader interface {
	Load(ctx context.Context, req dataset.Request) (*dataset.Table, error)
}

// Compile-time interface implementation check.
var _ TableLoader = (*dataset.Loader)(nil)

// TagRequest selects the records to tag and how to tag them.
type TagRequest struct {
	Dataset  string
	Subset   string // empty resolves the first subset holding Split
	Split    string
	Column   string
	Taxonomy string
	Limit    int // 0 tags the whole split

	// From reads records from a local JSON Lines file instead of the loader.
	From string
}

// Tagger loads dataset records and appends taxonomy columns to them.
type Tagger struct {
	loader   TableLoader
	registry *disaggregate.Registry
	logger   *zap.Logger
}

// TaggerOption configures a Tagger.
type TaggerOption func(*Tagger)

// WithTaggerLogger sets the logger for load and tag progress.
func WithTaggerLogger(l *zap.Logger) TaggerOption {
	return func(t *Tagger) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTagger creates a Tagger. A nil registry uses the built-in taxonomies;
// a nil loader restricts the Tagger to TagRequest.From.
func NewTagger(loader TableLoader, registry *disaggregate.Registry, opts ...TaggerOption) *Tagger {
	if registry == nil {
		registry = disaggregate.NewRegistry()
	}
	t := &Tagger{loader: loader, registry: registry, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run loads the requested records and returns them with one boolean column
// per taxonomy category appended. The tagger is built before any record is
// loaded, so an unknown taxonomy fails without network traffic.
func (t *Tagger) Run(ctx context.Context, req TagRequest) (*dataset.Table, error) {
	d, err := disaggregate.New(req.Taxonomy, req.Column, t.registry)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	table, err := t.load(ctx, req)
	if err != nil {
		return nil, err
	}
	loaded := time.Since(start)

	tagged, err := d.Apply(table)
	if err != nil {
		return nil, err
	}

	t.logger.Info("tagged records",
		zap.String("source", table.Name()),
		zap.String("taxonomy", d.Taxonomy().Name),
		zap.String("column", d.Column()),
		zap.Int("rows", tagged.Len()),
		zap.Duration("load", loaded),
		zap.Duration("total", time.Since(start)),
	)
	return tagged, nil
}

func (t *Tagger) load(ctx context.Context, req TagRequest) (*dataset.Table, error) {
	if req.From != "" {
		return readJSONLFile(req.From, req.Limit)
	}
	if t.loader == nil {
		return nil, ErrNoSource
	}
	return t.loader.Load(ctx, dataset.Request{
		Dataset: req.Dataset,
		Subset:  req.Subset,
		Split:   req.Split,
		Limit:   req.Limit,
	})
}

// readJSONLFile loads a local JSON Lines file, keeping at most limit rows.
func readJSONLFile(path string, limit int) (*dataset.Table, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("opening records: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, err := dataset.ReadJSONL(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < table.Len() {
		table = table.Head(limit)
	}
	return table, nil
}
