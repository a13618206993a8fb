// Package yamlutil decodes configuration YAML with strict field checking and
// a size cap. It is the only importer of the YAML library.
package yamlutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps configuration input at 1MB.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// UnmarshalStrict decodes data into v and rejects keys v does not declare,
// so a misspelled option fails loudly instead of being ignored.
func UnmarshalStrict(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeFileStrict reads path through a MaxInputSize+1 limit and decodes it
// with UnmarshalStrict. Open errors are returned as is, so a missing file
// still matches os.ErrNotExist.
func DecodeFileStrict(path string, v any) error {
	f, err := os.Open(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, int64(MaxInputSize)+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading %s: %w", path, err)
	}
	return UnmarshalStrict(data, v)
}
