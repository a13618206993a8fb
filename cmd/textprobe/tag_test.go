package main

// Notes:
// - runTag: we test against an httptest datasets-server, so the client,
//   loader, SQLite cache, tagger, and preview are exercised together.
// - The cache directory comes from TEXTPROBE_CACHE_DIR pointing into a temp
//   dir; a second run must be served without new /rows calls.
// - --from exercises the JSON Lines source without any server.
// - Exact table borders are not asserted; lipgloss owns those.

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alnah/go-textprobe"
	"github.com/alnah/go-textprobe/internal/config"
	"github.com/alnah/go-textprobe/internal/dataset"
	"github.com/alnah/go-textprobe/internal/disaggregate"
)

var reviews = []string{
	"She said the film was wonderful.",
	"He hated it and told his friends.",
	"They loved their evening at the cinema.",
	"A plain review without pronouns.",
	"Her brother and him walked out.",
	"Nobody cared.",
	"Theirs was the best seat.",
}

// fakeHub serves the reviews as imdb/plain_text/train.
func fakeHub(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var rowsCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/splits", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dataset") != "imdb" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"The dataset does not exist."}`))
			return
		}
		_, _ = w.Write([]byte(`{"splits":[{"dataset":"imdb","config":"plain_text","split":"train"}]}`))
	})
	mux.HandleFunc("/rows", func(w http.ResponseWriter, r *http.Request) {
		rowsCalls.Add(1)
		q := r.URL.Query()
		offset, _ := strconv.Atoi(q.Get("offset"))
		length, _ := strconv.Atoi(q.Get("length"))

		var b strings.Builder
		b.WriteString(`{"features":[` +
			`{"feature_idx":0,"name":"text","type":{"dtype":"string","_type":"Value"}},` +
			`{"feature_idx":1,"name":"label","type":{"names":["neg","pos"],"_type":"ClassLabel"}}` +
			`],"rows":[`)
		for i := offset; i < offset+length && i < len(reviews); i++ {
			if i > offset {
				b.WriteString(",")
			}
			b.WriteString(`{"row_idx":` + strconv.Itoa(i) + `,"row":{"text":` + strconv.Quote(reviews[i]) +
				`,"label":` + strconv.Itoa(i%2) + `},"truncated_cells":[]}`)
		}
		b.WriteString(`],"num_rows_total":` + strconv.Itoa(len(reviews)) + `,"num_rows_per_page":100,"partial":false}`)
		_, _ = w.Write([]byte(b.String()))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &rowsCalls
}

// hubEnv points the CLI at srv with an isolated cache directory.
func hubEnv(t *testing.T, srv *httptest.Server, cacheDir string) *testEnv {
	t.Helper()
	return newTestEnv(t, map[string]string{
		envEndpoint: srv.URL,
		envCacheDir: cacheDir,
	})
}

// ---------------------------------------------------------------------------
// TestRunTag - Dataset tagging through the CLI
// ---------------------------------------------------------------------------

func TestRunTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantInStdout []string
		wantNot      []string
	}{
		{
			name: "default head shows five rows and shape footer",
			args: nil,
			wantInStdout: []string{
				"text", "label", "she/her", "he/him", "they/them",
				"She said the film",
				"[7 rows x 5 columns]",
			},
			wantNot: []string{"Nobody cared"},
		},
		{
			name:         "head covers whole table without footer",
			args:         []string{"--head", "10"},
			wantInStdout: []string{"Nobody cared", "Theirs was the best seat."},
			wantNot:      []string{"rows x"},
		},
		{
			name:         "limit bounds the table",
			args:         []string{"--limit", "2", "--head", "5"},
			wantInStdout: []string{"He hated it"},
			wantNot:      []string{"They loved", "rows x"},
		},
		{
			name:         "width truncates long cells",
			args:         []string{"--width", "10"},
			wantInStdout: []string{"..."},
			wantNot:      []string{"She said the film was wonderful."},
		},
		{
			name:         "class labels show names",
			args:         nil,
			wantInStdout: []string{"0 (neg)", "1 (pos)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := fakeHub(t)
			te := hubEnv(t, srv, t.TempDir())

			if err := runTag(context.Background(), tt.args, te.Environment); err != nil {
				t.Fatalf("runTag() error = %v\nstderr: %s", err, te.stderr.String())
			}

			out := te.stdout.String()
			for _, want := range tt.wantInStdout {
				if !strings.Contains(out, want) {
					t.Errorf("stdout should contain %q, got:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.wantNot {
				if strings.Contains(out, unwanted) {
					t.Errorf("stdout should not contain %q, got:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestRunTag_TagValues(t *testing.T) {
	t.Parallel()

	srv, _ := fakeHub(t)
	te := hubEnv(t, srv, t.TempDir())

	if err := runTag(context.Background(), []string{"--limit", "1", "--head", "1"}, te.Environment); err != nil {
		t.Fatalf("runTag() error = %v", err)
	}

	// Row 0 mentions "She" only.
	var dataLine string
	for _, line := range strings.Split(te.stdout.String(), "\n") {
		if strings.Contains(line, "She said") {
			dataLine = line
		}
	}
	if dataLine == "" {
		t.Fatalf("row 0 not found in:\n%s", te.stdout.String())
	}
	if strings.Count(dataLine, "True") != 1 || strings.Count(dataLine, "False") != 2 {
		t.Errorf("row 0 should tag she/her only, got %q", dataLine)
	}
}

func TestRunTag_Cache(t *testing.T) {
	t.Parallel()

	srv, calls := fakeHub(t)
	cacheDir := t.TempDir()

	first := hubEnv(t, srv, cacheDir)
	if err := runTag(context.Background(), nil, first.Environment); err != nil {
		t.Fatalf("first runTag() error = %v", err)
	}
	afterFirst := calls.Load()
	if afterFirst == 0 {
		t.Fatal("first run should fetch rows")
	}
	if _, err := os.Stat(filepath.Join(cacheDir, dataset.CacheFileName)); err != nil {
		t.Fatalf("cache file not created: %v", err)
	}

	second := hubEnv(t, srv, cacheDir)
	if err := runTag(context.Background(), nil, second.Environment); err != nil {
		t.Fatalf("second runTag() error = %v", err)
	}
	if got := calls.Load(); got != afterFirst {
		t.Errorf("second run fetched rows: %d calls, want %d", got, afterFirst)
	}
	if first.stdout.String() != second.stdout.String() {
		t.Errorf("cached preview differs:\n%s\nvs\n%s", first.stdout.String(), second.stdout.String())
	}

	third := hubEnv(t, srv, cacheDir)
	if err := runTag(context.Background(), []string{"--no-cache"}, third.Environment); err != nil {
		t.Fatalf("--no-cache runTag() error = %v", err)
	}
	if got := calls.Load(); got == afterFirst {
		t.Error("--no-cache should fetch rows again")
	}
}

func TestRunTag_FromJSONL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := `{"text":"she went home","id":1}` + "\n" +
		`{"text":"they stayed","id":2}` + "\n" +
		`{"text":null,"id":3}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// No endpoint configured: --from must not touch the network.
	te := newTestEnv(t, map[string]string{envEndpoint: "http://127.0.0.1:1"})
	if err := runTag(context.Background(), []string{"--from", path}, te.Environment); err != nil {
		t.Fatalf("runTag() error = %v", err)
	}

	out := te.stdout.String()
	for _, want := range []string{"she went home", "they stayed", "None", "she/her"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunTag_CustomTaxonomy(t *testing.T) {
	t.Parallel()

	srv, _ := fakeHub(t)
	cfgPath := filepath.Join(t.TempDir(), "probe.yaml")
	content := `tag:
  taxonomy: sentiment
taxonomies:
  - name: sentiment
    categories:
      - label: positive
        words: [wonderful, loved, best]
      - label: negative
        words: [hated]
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	te := hubEnv(t, srv, t.TempDir())
	if err := runTag(context.Background(), []string{"-c", cfgPath}, te.Environment); err != nil {
		t.Fatalf("runTag() error = %v", err)
	}
	out := te.stdout.String()
	if !strings.Contains(out, "positive") || !strings.Contains(out, "negative") {
		t.Errorf("stdout should contain custom columns, got:\n%s", out)
	}
	if strings.Contains(out, "she/her") {
		t.Errorf("pronoun columns should not appear, got:\n%s", out)
	}
}

func TestRunTag_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{
			name:     "unknown dataset",
			args:     []string{"--dataset", "nope"},
			wantErr:  dataset.ErrDatasetNotFound,
			wantCode: ExitNetwork,
		},
		{
			name:     "unknown split",
			args:     []string{"--split", "validation"},
			wantErr:  dataset.ErrSplitNotFound,
			wantCode: ExitNetwork,
		},
		{
			name:     "unknown taxonomy",
			args:     []string{"--taxonomy", "colors"},
			wantErr:  disaggregate.ErrUnknownTaxonomy,
			wantCode: ExitUsage,
		},
		{
			name:     "missing column",
			args:     []string{"--column", "body"},
			wantErr:  disaggregate.ErrColumnNotFound,
			wantCode: ExitUsage,
		},
		{
			name:     "non-text column",
			args:     []string{"--column", "label"},
			wantErr:  disaggregate.ErrColumnType,
			wantCode: ExitUsage,
		},
		{
			name:     "positional argument",
			args:     []string{"imdb"},
			wantErr:  ErrUsage,
			wantCode: ExitUsage,
		},
		{
			name:     "missing jsonl file",
			args:     []string{"--from", "/nonexistent/records.jsonl"},
			wantErr:  os.ErrNotExist,
			wantCode: ExitIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := fakeHub(t)
			te := hubEnv(t, srv, t.TempDir())

			err := runTag(context.Background(), tt.args, te.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if code := exitCodeFor(err); code != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildRegistry - Config taxonomies
// ---------------------------------------------------------------------------

func TestBuildRegistry_InvalidTaxonomy(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, nil)
	cfg, _, err := loadConfig(commonFlags{}, te.Environment)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Taxonomies = append(cfg.Taxonomies, config.TaxonomyConfig{Name: "empty"})

	_, err = buildRegistry(cfg)
	if !errors.Is(err, textprobe.ErrInvalidTaxonomy) {
		t.Errorf("error = %v, want ErrInvalidTaxonomy", err)
	}
}
