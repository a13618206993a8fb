package main

import (
	"errors"
	"os"

	"github.com/alnah/go-textprobe"
	"github.com/alnah/go-textprobe/internal/config"
	"github.com/alnah/go-textprobe/internal/dataset"
	"github.com/alnah/go-textprobe/internal/disaggregate"
	"github.com/alnah/go-textprobe/internal/fileutil"
	"github.com/alnah/go-textprobe/internal/hints"
)

// Exit codes for the textprobe CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, unreadable input, cache failure
	ExitNetwork = 4 // Datasets-server errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Network errors (exit 4)
	if errors.Is(err, dataset.ErrRequest) ||
		errors.Is(err, dataset.ErrDatasetNotFound) ||
		errors.Is(err, dataset.ErrSplitNotFound) ||
		errors.Is(err, dataset.ErrUnauthorized) {
		return ExitNetwork
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrNotRegularFile) ||
		errors.Is(err, fileutil.ErrInvalidUTF8) ||
		errors.Is(err, fileutil.ErrDirNotWritable) ||
		errors.Is(err, textprobe.ErrNotDirectory) ||
		errors.Is(err, dataset.ErrDecode) ||
		errors.Is(err, dataset.ErrCache) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, textprobe.ErrUnknownFilter) ||
		errors.Is(err, textprobe.ErrNoSource) ||
		errors.Is(err, dataset.ErrInvalidRequest) ||
		errors.Is(err, disaggregate.ErrUnknownTaxonomy) ||
		errors.Is(err, disaggregate.ErrInvalidTaxonomy) ||
		errors.Is(err, disaggregate.ErrColumnNotFound) ||
		errors.Is(err, disaggregate.ErrColumnType) ||
		errors.Is(err, disaggregate.ErrColumnExists) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error, env *Environment) string {
	switch {
	case errors.Is(err, dataset.ErrUnauthorized):
		return hints.ForUnauthorized(env.Getenv(envToken) != "")
	case errors.Is(err, dataset.ErrRequest):
		return hints.ForRequest()
	case errors.Is(err, dataset.ErrSplitNotFound):
		return hints.ForSplitNotFound()
	case errors.Is(err, fileutil.ErrNotRegularFile):
		return hints.ForNotRegularFile()
	case errors.Is(err, fileutil.ErrInvalidUTF8):
		return hints.ForInvalidUTF8()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, dataset.ErrCache), errors.Is(err, fileutil.ErrDirNotWritable):
		return hints.ForCache()
	}
	return ""
}
