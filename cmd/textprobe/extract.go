package main

import (
	"context"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-textprobe"
	"github.com/alnah/go-textprobe/internal/config"
)

// loadConfig resolves configuration: defaults, then the config file named by
// --config, then environment variables. Flags are merged by each command.
func loadConfig(f commonFlags, env *Environment) (*config.Config, *envConfig, error) {
	cfg := config.DefaultConfig()
	if f.config != "" {
		loaded, err := config.LoadConfig(f.config)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	envCfg := loadEnvConfig(env.Getenv)
	applyEnvConfig(envCfg, cfg)
	return cfg, envCfg, nil
}

// mergeExtractFlags applies explicitly set flags over cfg (CLI wins).
func mergeExtractFlags(fs *flag.FlagSet, f *extractFlags, cfg *config.Config) {
	if fs.Changed("workers") {
		cfg.Extract.Workers = f.workers
	}
	if fs.Changed("filter") {
		cfg.Extract.Filter = f.filter
	}
	if fs.Changed("highlight") {
		cfg.Extract.Highlight = f.highlight
	}
	if fs.Changed("markdown-only") {
		cfg.Extract.MarkdownOnly = f.markdownOnly
	}
	if fs.Changed("recursive") {
		cfg.Extract.Recursive = f.recursive
	}
}

// runExtract counts the text fragments of a markdown directory and prints
// the count on stdout.
func runExtract(ctx context.Context, args []string, env *Environment) error {
	flags, fs, positional, err := parseExtractFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: extract takes at most one directory, got %d", ErrUsage, len(positional))
	}

	logger := newLogger(env.Stderr, flags.common)
	defer func() { _ = logger.Sync() }()
	warnUnknownEnvVars(env.Environ(), logger)

	cfg, _, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	mergeExtractFlags(fs, flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(positional) == 1 {
		cfg.Extract.Dir = positional[0]
	}

	filter, err := textprobe.ParseFilter(cfg.Extract.Filter)
	if err != nil {
		return err
	}

	opts := []textprobe.ExtractorOption{
		textprobe.WithFilter(filter),
		textprobe.WithWorkers(cfg.Extract.Workers),
		textprobe.WithLogger(logger),
	}
	if cfg.Extract.Highlight {
		opts = append(opts, textprobe.WithHighlighting(""))
	}
	if cfg.Extract.MarkdownOnly {
		opts = append(opts, textprobe.WithMarkdownOnly())
	}
	if cfg.Extract.Recursive {
		opts = append(opts, textprobe.WithRecursive())
	}
	ext := textprobe.NewExtractor(opts...)

	start := env.Now()
	result, err := ext.ExtractDir(ctx, cfg.Extract.Dir)
	if err != nil {
		return err
	}

	logger.Info("extracted",
		zap.String("dir", cfg.Extract.Dir),
		zap.Int("files", len(result.Documents)),
		zap.Int("fragments", result.Count()),
		zap.String("filter", filter.String()),
		zap.Int("workers", ext.Workers()),
		zap.Duration("elapsed", env.Now().Sub(start).Round(time.Millisecond)),
	)

	if _, err := fmt.Fprintln(env.Stdout, result.Count()); err != nil {
		return fmt.Errorf("writing count: %w", err)
	}
	return nil
}
