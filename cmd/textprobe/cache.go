package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-textprobe/internal/dataset"
)

// runCache handles "cache clear" and "cache list".
func runCache(ctx context.Context, args []string, env *Environment) error {
	if len(args) != 1 {
		printCacheUsage(env.Stderr)
		return fmt.Errorf("%w: cache needs exactly one subcommand", ErrUsage)
	}

	cfg, _, err := loadConfig(commonFlags{}, env)
	if err != nil {
		return err
	}
	dir, err := resolveCacheDir(cfg, env)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, dataset.CacheFileName)

	switch args[0] {
	case "clear":
		return clearCache(ctx, path, env)
	case "list":
		return listCache(ctx, path, env)
	default:
		printCacheUsage(env.Stderr)
		return fmt.Errorf("%w: unknown cache subcommand %q", ErrUsage, args[0])
	}
}

// clearCache empties the cache database. A missing cache is already clear.
func clearCache(ctx context.Context, path string, env *Environment) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(env.Stdout, "cache is empty")
		return nil
	}

	cache, err := dataset.OpenCache(path)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if err := cache.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "cleared %s\n", path)
	return nil
}

// listCache prints one line per cached split.
func listCache(ctx context.Context, path string, env *Environment) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(env.Stdout, "cache is empty")
		return nil
	}

	cache, err := dataset.OpenCache(path)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	entries, err := cache.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(env.Stdout, "cache is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(env.Stdout, "%s/%s/%s\t%d/%d rows\n", e.Dataset, e.Subset, e.Split, e.Stored, e.Total)
	}
	return nil
}
