package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidRequest indicates a load request is missing required fields.
var ErrInvalidRequest = errors.New("invalid dataset request")

// Fetcher is the remote side of a Loader. *Client implements it.
type Fetcher interface {
	Splits(ctx context.Context, dataset string) ([]SplitInfo, error)
	Rows(ctx context.Context, req RowsRequest) (*Page, error)
}

// Store is the cache side of a Loader. *Cache implements it.
type Store interface {
	Load(ctx context.Context, key Key, limit int) (*Table, bool, error)
	Store(ctx context.Context, t *Table) error
}

// Request selects a split to load.
type Request struct {
	Dataset string
	Subset  string // empty selects the first subset offering Split
	Split   string
	Limit   int // 0 loads the whole split
}

// Loader loads dataset splits, consulting the cache before the network.
type Loader struct {
	fetcher Fetcher
	store   Store
	logger  *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStore enables the cache. Without it every load hits the fetcher.
func WithStore(s Store) LoaderOption {
	return func(l *Loader) { l.store = s }
}

// WithLoaderLogger sets the logger for load progress.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader backed by fetcher.
func NewLoader(fetcher Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{fetcher: fetcher, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the requested split. Rows come back in source order.
// Cache failures are logged and fall through to the fetcher. An empty
// Subset is resolved against the fetcher before the cache is read.
func (l *Loader) Load(ctx context.Context, req Request) (*Table, error) {
	if strings.TrimSpace(req.Dataset) == "" || strings.TrimSpace(req.Split) == "" {
		return nil, fmt.Errorf("%w: dataset and split are required", ErrInvalidRequest)
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidRequest, req.Limit)
	}

	// Without an explicit subset the store is asked for the one the fetcher
	// would pick, so a cached run and a fresh run return the same rows.
	subset := req.Subset
	resolved := false
	if subset == "" {
		var err error
		if subset, err = l.resolveSubset(ctx, req); err != nil {
			return nil, err
		}
		resolved = true
	}

	if l.store != nil {
		key := Key{Dataset: req.Dataset, Subset: subset, Split: req.Split}
		table, ok, err := l.store.Load(ctx, key, req.Limit)
		switch {
		case err != nil:
			l.logger.Warn("cache read failed", zap.Error(err))
		case ok:
			l.logger.Debug("cache hit", zap.String("split", table.Name()), zap.Int("rows", table.Len()))
			return table, nil
		}
	}

	if !resolved {
		var err error
		if subset, err = l.resolveSubset(ctx, req); err != nil {
			return nil, err
		}
	}

	table, err := l.fetch(ctx, req, subset)
	if err != nil {
		return nil, err
	}

	if l.store != nil {
		if err := l.store.Store(ctx, table); err != nil {
			l.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return table, nil
}

// resolveSubset picks the subset holding req.Split.
func (l *Loader) resolveSubset(ctx context.Context, req Request) (string, error) {
	splits, err := l.fetcher.Splits(ctx, req.Dataset)
	if err != nil {
		return "", err
	}

	var available []string
	for _, s := range splits {
		if s.Split != req.Split {
			available = append(available, s.Subset+"/"+s.Split)
			continue
		}
		if req.Subset == "" || req.Subset == s.Subset {
			return s.Subset, nil
		}
		available = append(available, s.Subset+"/"+s.Split)
	}

	want := req.Split
	if req.Subset != "" {
		want = req.Subset + "/" + req.Split
	}
	return "", fmt.Errorf("%w: %s has no %s (available: %s)",
		ErrSplitNotFound, req.Dataset, want, strings.Join(available, ", "))
}

// fetch pages through the split until the limit or the end of the split.
func (l *Loader) fetch(ctx context.Context, req Request, subset string) (*Table, error) {
	table := &Table{Dataset: req.Dataset, Subset: subset, Split: req.Split}

	for offset := 0; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		length := PageSize
		if req.Limit > 0 {
			length = min(PageSize, req.Limit-offset)
		}

		page, err := l.fetcher.Rows(ctx, RowsRequest{
			Dataset: req.Dataset,
			Subset:  subset,
			Split:   req.Split,
			Offset:  offset,
			Length:  length,
		})
		if err != nil {
			return nil, err
		}

		if table.Columns == nil {
			table.Columns = page.Columns
		}
		table.Total = page.Total
		table.Rows = append(table.Rows, page.Rows...)
		offset += len(page.Rows)

		l.logger.Debug("fetched page",
			zap.String("split", table.Name()),
			zap.Int("offset", page.Offset),
			zap.Int("rows", len(page.Rows)),
			zap.Int("total", page.Total),
		)

		if len(page.Rows) == 0 || offset >= page.Total {
			break
		}
		if req.Limit > 0 && offset >= req.Limit {
			break
		}
	}

	l.logger.Info("loaded split",
		zap.String("split", table.Name()),
		zap.Int("rows", table.Len()),
		zap.Int("total", table.Total),
	)
	return table, nil
}
