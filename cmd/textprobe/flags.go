package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines: unknown flags, bad arity.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// extractFlags holds all flags for the extract command.
type extractFlags struct {
	common       commonFlags
	workers      int
	filter       string
	highlight    bool
	markdownOnly bool
	recursive    bool
}

// sourceFlags selects where tag reads records from.
type sourceFlags struct {
	dataset string
	subset  string
	split   string
	limit   int
	from    string
}

// networkFlags controls the datasets-server client and its cache.
type networkFlags struct {
	endpoint string
	timeout  string
	noCache  bool
	cacheDir string
}

// tagFlags holds all flags for the tag command.
type tagFlags struct {
	common   commonFlags
	source   sourceFlags
	network  networkFlags
	column   string
	taxonomy string
	head     int
	width    int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addSourceFlags adds record source flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.dataset, "dataset", "", "dataset name on the hub (default: imdb)")
	fs.StringVar(&f.subset, "subset", "", "dataset subset (default: first with the split)")
	fs.StringVar(&f.split, "split", "", "dataset split (default: train)")
	fs.IntVar(&f.limit, "limit", 0, "rows to load (0 = whole split)")
	fs.StringVar(&f.from, "from", "", "read records from a JSON Lines file")
}

// addNetworkFlags adds client and cache flags to a FlagSet.
func addNetworkFlags(fs *flag.FlagSet, f *networkFlags) {
	fs.StringVar(&f.endpoint, "endpoint", "", "datasets-server base URL")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-request timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noCache, "no-cache", false, "bypass the local dataset cache")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "dataset cache directory")
}

// newExtractFlagSet registers the extract flags on a new FlagSet.
func newExtractFlagSet(f *extractFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.filter, "filter", "", "fragment filter: newline, blank")
	fs.BoolVar(&f.highlight, "highlight", false, "split code blocks into highlighted tokens")
	fs.BoolVar(&f.markdownOnly, "markdown-only", false, "skip files without .md/.markdown extension")
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "descend into subdirectories")
	addCommonFlags(fs, &f.common)
	return fs
}

// newTagFlagSet registers the tag flags on a new FlagSet.
func newTagFlagSet(f *tagFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("tag", flag.ContinueOnError)
	addSourceFlags(fs, &f.source)
	fs.StringVar(&f.column, "column", "", "text column to tag (default: text)")
	fs.StringVar(&f.taxonomy, "taxonomy", "", "taxonomy name (default: pronouns)")
	fs.IntVar(&f.head, "head", 0, "rows to preview (default: 5)")
	fs.IntVar(&f.width, "width", 0, "max cell width in the preview (default: 48)")
	addNetworkFlags(fs, &f.network)
	addCommonFlags(fs, &f.common)
	return fs
}

// parseExtractFlags parses extract command flags and returns positional args.
func parseExtractFlags(args []string, usage io.Writer) (*extractFlags, *flag.FlagSet, []string, error) {
	f := &extractFlags{}
	fs := newExtractFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printExtractUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, wrapParseError(err)
	}
	return f, fs, fs.Args(), nil
}

// parseTagFlags parses tag command flags and returns positional args.
func parseTagFlags(args []string, usage io.Writer) (*tagFlags, *flag.FlagSet, []string, error) {
	f := &tagFlags{}
	fs := newTagFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printTagUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, wrapParseError(err)
	}
	return f, fs, fs.Args(), nil
}

// wrapParseError keeps flag.ErrHelp recognizable and classifies the rest as usage errors.
func wrapParseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
