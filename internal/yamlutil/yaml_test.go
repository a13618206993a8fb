package yamlutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-textprobe/internal/yamlutil"
)

type category struct {
	Label string   `yaml:"label"`
	Words []string `yaml:"words"`
}

type taxonomyFile struct {
	Name       string     `yaml:"name"`
	Categories []category `yaml:"categories"`
}

const sentiment = `name: sentiment
categories:
  - label: positive
    words: [good, great]
  - label: negative
    words: [bad]
`

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        []byte
		dest        any
		wantErr     error
		wantMessage string
	}{
		{name: "known fields", data: []byte(sentiment), dest: &taxonomyFile{}},
		{name: "unknown field", data: []byte("name: x\nlables: []\n"), dest: &taxonomyFile{}, wantMessage: "yamlutil:"},
		{name: "syntax error", data: []byte("name: [unclosed"), dest: &taxonomyFile{}, wantMessage: "yamlutil:"},
		{name: "nil data", data: nil, dest: &taxonomyFile{}, wantErr: yamlutil.ErrNilData},
		{name: "empty data", data: []byte{}, dest: &taxonomyFile{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: x"), dest: nil, wantErr: yamlutil.ErrNilDestination},
		{
			name:    "oversized",
			data:    []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize)),
			dest:    &taxonomyFile{},
			wantErr: yamlutil.ErrInputTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantMessage != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantMessage) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantMessage)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUnmarshalStrict_Values(t *testing.T) {
	t.Parallel()

	var tax taxonomyFile
	if err := yamlutil.UnmarshalStrict([]byte(sentiment), &tax); err != nil {
		t.Fatal(err)
	}
	if tax.Name != "sentiment" || len(tax.Categories) != 2 {
		t.Fatalf("decoded %+v", tax)
	}
	if got := strings.Join(tax.Categories[0].Words, ","); got != "good,great" {
		t.Errorf("positive words = %q, want good,great", got)
	}
}

func TestDecodeFileStrict(t *testing.T) {
	t.Parallel()

	t.Run("decodes file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "taxonomy.yaml")
		if err := os.WriteFile(path, []byte(sentiment), 0o600); err != nil {
			t.Fatal(err)
		}

		var tax taxonomyFile
		if err := yamlutil.DecodeFileStrict(path, &tax); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tax.Categories[1].Label != "negative" {
			t.Errorf("categories = %+v", tax.Categories)
		}
	})

	t.Run("missing file is os.ErrNotExist", func(t *testing.T) {
		t.Parallel()

		var tax taxonomyFile
		err := yamlutil.DecodeFileStrict(filepath.Join(t.TempDir(), "nope.yaml"), &tax)
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("oversized file is rejected without full read", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "big.yaml")
		big := "name: " + strings.Repeat("x", yamlutil.MaxInputSize+10)
		if err := os.WriteFile(path, []byte(big), 0o600); err != nil {
			t.Fatal(err)
		}

		var tax taxonomyFile
		if err := yamlutil.DecodeFileStrict(path, &tax); !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Fatalf("error = %v, want ErrInputTooLarge", err)
		}
	})
}
