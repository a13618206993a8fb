package textprobe

import (
	"errors"

	"github.com/alnah/go-textprobe/internal/dataset"
	"github.com/alnah/go-textprobe/internal/disaggregate"
	"github.com/alnah/go-textprobe/internal/fileutil"
	"github.com/alnah/go-textprobe/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrNotDirectory = errors.New("not a directory")
	ErrNoSource     = errors.New("no dataset source configured")

	// Extraction errors.
	ErrNotRegularFile = fileutil.ErrNotRegularFile
	ErrDecode         = fileutil.ErrInvalidUTF8
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrHTMLParse      = pipeline.ErrHTMLParse
	ErrUnknownFilter  = pipeline.ErrUnknownFilter

	// Dataset errors.
	ErrDatasetNotFound = dataset.ErrDatasetNotFound
	ErrSplitNotFound   = dataset.ErrSplitNotFound
	ErrUnauthorized    = dataset.ErrUnauthorized
	ErrRequest         = dataset.ErrRequest

	// Tagging errors.
	ErrUnknownTaxonomy = disaggregate.ErrUnknownTaxonomy
	ErrColumnNotFound  = disaggregate.ErrColumnNotFound
	ErrColumnType      = disaggregate.ErrColumnType
	ErrColumnExists    = disaggregate.ErrColumnExists
	ErrInvalidTaxonomy = disaggregate.ErrInvalidTaxonomy
)
