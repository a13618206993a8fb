package main

import (
	"bytes"
	"os"
	"testing"
	"time"
)

// testEnv wires an Environment to in-memory buffers and a fake process
// environment. UserCacheDir points into a per-test temp directory.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
}

func newTestEnv(t *testing.T, vars map[string]string) *testEnv {
	t.Helper()

	if vars == nil {
		vars = map[string]string{}
	}
	cacheBase := t.TempDir()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars:   vars,
	}
	te.Environment = &Environment{
		Now:    time.Now,
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		UserCacheDir: func() (string, error) { return cacheBase, nil },
	}
	return te
}

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()

	t.Run("Now returns real time", func(t *testing.T) {
		before := time.Now()
		got := env.Now()
		after := time.Now()

		if got.Before(before) || got.After(after) {
			t.Errorf("Now() = %v, should be between %v and %v", got, before, after)
		}
	})

	t.Run("Stdout is os.Stdout", func(t *testing.T) {
		if env.Stdout != os.Stdout {
			t.Error("Stdout should be os.Stdout")
		}
	})

	t.Run("Stderr is os.Stderr", func(t *testing.T) {
		if env.Stderr != os.Stderr {
			t.Error("Stderr should be os.Stderr")
		}
	})

	t.Run("process hooks are set", func(t *testing.T) {
		if env.Getenv == nil || env.Environ == nil || env.UserCacheDir == nil {
			t.Error("Getenv, Environ, and UserCacheDir should be set")
		}
	})
}
