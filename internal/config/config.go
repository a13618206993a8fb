package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-textprobe/internal/fileutil"
	"github.com/alnah/go-textprobe/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Defaults mirror the behavior of the original exploratory scripts.
const (
	DefaultExtractDir = "./md"
	DefaultFilter     = "newline"
	DefaultDataset    = "imdb"
	DefaultSplit      = "train"
	DefaultColumn     = "text"
	DefaultTaxonomy   = "pronouns"
	DefaultHead       = 5
	DefaultEndpoint   = "https://datasets-server.huggingface.co"
	DefaultTimeout    = "30s"
	DefaultRetries    = 2
	DefaultCellWidth  = 48
)

// Bounds for numeric fields.
const (
	MaxWorkers   = 32
	MaxHead      = 1000
	MaxRetries   = 10
	MinCellWidth = 8
	MaxCellWidth = 500
)

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxURLLength      = 2048 // Browser limit
	MaxDatasetLength  = 200  // "owner/name" identifiers on the hub
	MaxSplitLength    = 100
	MaxColumnLength   = 200
	MaxTaxonomyLength = 100
	MaxLabelLength    = 100
	MaxWordLength     = 100
)

// Config holds all configuration for both pipelines.
type Config struct {
	Extract    ExtractConfig    `yaml:"extract"`
	Tag        TagConfig        `yaml:"tag"`
	Cache      CacheConfig      `yaml:"cache"`
	Taxonomies []TaxonomyConfig `yaml:"taxonomies"`
}

// ExtractConfig defines the markdown text extraction options.
type ExtractConfig struct {
	Dir          string `yaml:"dir"`          // Directory to scan (default "./md")
	Workers      int    `yaml:"workers"`      // 0 = auto
	Filter       string `yaml:"filter"`       // "newline" or "blank"
	Highlight    bool   `yaml:"highlight"`    // Split code blocks into highlighted tokens
	MarkdownOnly bool   `yaml:"markdownOnly"` // Skip entries without .md/.markdown
	Recursive    bool   `yaml:"recursive"`    // Descend into subdirectories
}

// TagConfig defines the dataset tagging options.
type TagConfig struct {
	Dataset   string `yaml:"dataset"`
	Subset    string `yaml:"subset"` // Empty = first subset that has the split
	Split     string `yaml:"split"`
	Column    string `yaml:"column"`
	Taxonomy  string `yaml:"taxonomy"`
	Limit     int    `yaml:"limit"` // 0 = whole split
	Head      int    `yaml:"head"`
	Endpoint  string `yaml:"endpoint"`
	Timeout   string `yaml:"timeout"` // Go duration, e.g. "30s"
	Retries   int    `yaml:"retries"`
	CellWidth int    `yaml:"cellWidth"`
}

// CacheConfig defines the dataset cache options.
type CacheConfig struct {
	Dir      string `yaml:"dir"` // Empty = user cache dir
	Disabled bool   `yaml:"disabled"`
}

// TaxonomyConfig declares a custom tagging taxonomy.
type TaxonomyConfig struct {
	Name       string           `yaml:"name"`
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig is one boolean output column of a taxonomy.
type CategoryConfig struct {
	Label string   `yaml:"label"`
	Words []string `yaml:"words"`
}

// TimeoutDuration parses Tag.Timeout. An empty value yields DefaultTimeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	raw := c.Tag.Timeout
	if raw == "" {
		raw = DefaultTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: tag.timeout %q: %v", ErrInvalidValue, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: tag.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateTag(); err != nil {
		return err
	}
	if err := validateFieldLength("cache.dir", c.Cache.Dir, MaxPathLength); err != nil {
		return err
	}
	return c.validateTaxonomies()
}

func (c *Config) validateExtract() error {
	if err := validateFieldLength("extract.dir", c.Extract.Dir, MaxPathLength); err != nil {
		return err
	}
	if c.Extract.Workers < 0 || c.Extract.Workers > MaxWorkers {
		return fmt.Errorf("%w: extract.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Extract.Workers)
	}
	switch strings.ToLower(c.Extract.Filter) {
	case "", "newline", "blank":
		// valid
	default:
		return fmt.Errorf("%w: extract.filter %q (must be newline or blank)", ErrInvalidValue, c.Extract.Filter)
	}
	return nil
}

func (c *Config) validateTag() error {
	if err := validateFieldLength("tag.dataset", c.Tag.Dataset, MaxDatasetLength); err != nil {
		return err
	}
	if err := validateFieldLength("tag.subset", c.Tag.Subset, MaxDatasetLength); err != nil {
		return err
	}
	if err := validateFieldLength("tag.split", c.Tag.Split, MaxSplitLength); err != nil {
		return err
	}
	if err := validateFieldLength("tag.column", c.Tag.Column, MaxColumnLength); err != nil {
		return err
	}
	if err := validateFieldLength("tag.taxonomy", c.Tag.Taxonomy, MaxTaxonomyLength); err != nil {
		return err
	}
	if err := validateFieldLength("tag.endpoint", c.Tag.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if c.Tag.Endpoint != "" && !fileutil.IsURL(c.Tag.Endpoint) {
		return fmt.Errorf("%w: tag.endpoint must be an http(s) URL, got %q", ErrInvalidValue, c.Tag.Endpoint)
	}
	if c.Tag.Limit < 0 {
		return fmt.Errorf("%w: tag.limit must be >= 0, got %d", ErrInvalidValue, c.Tag.Limit)
	}
	if c.Tag.Head < 0 || c.Tag.Head > MaxHead {
		return fmt.Errorf("%w: tag.head must be between 0 and %d, got %d", ErrInvalidValue, MaxHead, c.Tag.Head)
	}
	if c.Tag.Retries < 0 || c.Tag.Retries > MaxRetries {
		return fmt.Errorf("%w: tag.retries must be between 0 and %d, got %d", ErrInvalidValue, MaxRetries, c.Tag.Retries)
	}
	if c.Tag.CellWidth != 0 && (c.Tag.CellWidth < MinCellWidth || c.Tag.CellWidth > MaxCellWidth) {
		return fmt.Errorf("%w: tag.cellWidth must be between %d and %d, got %d", ErrInvalidValue, MinCellWidth, MaxCellWidth, c.Tag.CellWidth)
	}
	if c.Tag.Timeout != "" {
		if _, err := c.TimeoutDuration(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateTaxonomies() error {
	seen := make(map[string]bool, len(c.Taxonomies))
	for i, tx := range c.Taxonomies {
		field := fmt.Sprintf("taxonomies[%d]", i)
		if strings.TrimSpace(tx.Name) == "" {
			return fmt.Errorf("%w: %s.name is required", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field+".name", tx.Name, MaxTaxonomyLength); err != nil {
			return err
		}
		key := strings.ToLower(tx.Name)
		if seen[key] {
			return fmt.Errorf("%w: %s.name %q is declared twice", ErrInvalidValue, field, tx.Name)
		}
		seen[key] = true

		if len(tx.Categories) == 0 {
			return fmt.Errorf("%w: %s.categories must not be empty", ErrInvalidValue, field)
		}
		labels := make(map[string]bool, len(tx.Categories))
		for j, cat := range tx.Categories {
			catField := fmt.Sprintf("%s.categories[%d]", field, j)
			if strings.TrimSpace(cat.Label) == "" {
				return fmt.Errorf("%w: %s.label is required", ErrInvalidValue, catField)
			}
			if err := validateFieldLength(catField+".label", cat.Label, MaxLabelLength); err != nil {
				return err
			}
			if labels[cat.Label] {
				return fmt.Errorf("%w: %s.label %q is declared twice", ErrInvalidValue, catField, cat.Label)
			}
			labels[cat.Label] = true
			if len(cat.Words) == 0 {
				return fmt.Errorf("%w: %s.words must not be empty", ErrInvalidValue, catField)
			}
			for k, w := range cat.Words {
				if strings.TrimSpace(w) == "" {
					return fmt.Errorf("%w: %s.words[%d] is empty", ErrInvalidValue, catField, k)
				}
				if err := validateFieldLength(fmt.Sprintf("%s.words[%d]", catField, k), w, MaxWordLength); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration the scripts ran with:
// "./md" for extraction, imdb/train/text/pronouns for tagging.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Dir:    DefaultExtractDir,
			Filter: DefaultFilter,
		},
		Tag: TagConfig{
			Dataset:   DefaultDataset,
			Split:     DefaultSplit,
			Column:    DefaultColumn,
			Taxonomy:  DefaultTaxonomy,
			Head:      DefaultHead,
			Endpoint:  DefaultEndpoint,
			Timeout:   DefaultTimeout,
			Retries:   DefaultRetries,
			CellWidth: DefaultCellWidth,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/textprobe/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "textprobe", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
