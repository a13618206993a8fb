package main

import (
	"context"
	"fmt"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-textprobe"
	"github.com/alnah/go-textprobe/internal/config"
	"github.com/alnah/go-textprobe/internal/dataset"
	"github.com/alnah/go-textprobe/internal/disaggregate"
	"github.com/alnah/go-textprobe/internal/fileutil"
	"github.com/alnah/go-textprobe/internal/preview"
)

// mergeTagFlags applies explicitly set flags over cfg (CLI wins).
func mergeTagFlags(fs *flag.FlagSet, f *tagFlags, cfg *config.Config) {
	if fs.Changed("dataset") {
		cfg.Tag.Dataset = f.source.dataset
	}
	if fs.Changed("subset") {
		cfg.Tag.Subset = f.source.subset
	}
	if fs.Changed("split") {
		cfg.Tag.Split = f.source.split
	}
	if fs.Changed("limit") {
		cfg.Tag.Limit = f.source.limit
	}
	if fs.Changed("column") {
		cfg.Tag.Column = f.column
	}
	if fs.Changed("taxonomy") {
		cfg.Tag.Taxonomy = f.taxonomy
	}
	if fs.Changed("head") {
		cfg.Tag.Head = f.head
	}
	if fs.Changed("width") {
		cfg.Tag.CellWidth = f.width
	}
	if fs.Changed("endpoint") {
		cfg.Tag.Endpoint = f.network.endpoint
	}
	if fs.Changed("timeout") {
		cfg.Tag.Timeout = f.network.timeout
	}
	if fs.Changed("no-cache") {
		cfg.Cache.Disabled = f.network.noCache
	}
	if fs.Changed("cache-dir") {
		cfg.Cache.Dir = f.network.cacheDir
	}
}

// buildRegistry returns the built-in taxonomies plus those from config.
func buildRegistry(cfg *config.Config) (*disaggregate.Registry, error) {
	registry := disaggregate.NewRegistry()
	for _, tc := range cfg.Taxonomies {
		tax := disaggregate.Taxonomy{Name: tc.Name}
		for _, c := range tc.Categories {
			tax.Categories = append(tax.Categories, disaggregate.Category{Label: c.Label, Words: c.Words})
		}
		if err := registry.Register(tax); err != nil {
			return nil, fmt.Errorf("registering taxonomy: %w", err)
		}
	}
	return registry, nil
}

// newDatasetClient builds the datasets-server client from config.
func newDatasetClient(cfg *config.Config, envCfg *envConfig, logger *zap.Logger) (*dataset.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return dataset.NewClient(
		dataset.WithEndpoint(cfg.Tag.Endpoint),
		dataset.WithTimeout(timeout),
		dataset.WithRetries(cfg.Tag.Retries),
		dataset.WithToken(envCfg.Token),
		dataset.WithClientLogger(logger),
	), nil
}

// openCache opens the dataset cache in the configured directory.
func openCache(cfg *config.Config, env *Environment) (*dataset.Cache, string, error) {
	dir, err := resolveCacheDir(cfg, env)
	if err != nil {
		return nil, "", err
	}
	if err := fileutil.EnsureWritableDir(dir); err != nil {
		return nil, dir, err
	}
	cache, err := dataset.OpenCache(filepath.Join(dir, dataset.CacheFileName))
	return cache, dir, err
}

// runTag loads a dataset split, tags it with a taxonomy, and prints the head
// of the tagged table on stdout.
func runTag(ctx context.Context, args []string, env *Environment) error {
	flags, fs, positional, err := parseTagFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: tag takes no arguments, got %q", ErrUsage, positional)
	}

	logger := newLogger(env.Stderr, flags.common)
	defer func() { _ = logger.Sync() }()
	warnUnknownEnvVars(env.Environ(), logger)

	cfg, envCfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	mergeTagFlags(fs, flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	var loader textprobe.TableLoader
	if flags.source.from == "" {
		client, err := newDatasetClient(cfg, envCfg, logger)
		if err != nil {
			return err
		}

		var loaderOpts []dataset.LoaderOption
		loaderOpts = append(loaderOpts, dataset.WithLoaderLogger(logger))
		if !cfg.Cache.Disabled {
			cache, dir, err := openCache(cfg, env)
			if err != nil {
				logger.Warn("dataset cache unavailable, continuing without it",
					zap.String("dir", dir), zap.Error(err))
			} else {
				defer func() { _ = cache.Close() }()
				loaderOpts = append(loaderOpts, dataset.WithStore(cache))
			}
		}
		loader = dataset.NewLoader(client, loaderOpts...)
	}

	tagger := textprobe.NewTagger(loader, registry, textprobe.WithTaggerLogger(logger))
	table, err := tagger.Run(ctx, textprobe.TagRequest{
		Dataset:  cfg.Tag.Dataset,
		Subset:   cfg.Tag.Subset,
		Split:    cfg.Tag.Split,
		Column:   cfg.Tag.Column,
		Taxonomy: cfg.Tag.Taxonomy,
		Limit:    cfg.Tag.Limit,
		From:     flags.source.from,
	})
	if err != nil {
		return err
	}

	return preview.Render(env.Stdout, preview.Head(table, cfg.Tag.Head), table.Len(), preview.Options{
		CellWidth: cfg.Tag.CellWidth,
	})
}
