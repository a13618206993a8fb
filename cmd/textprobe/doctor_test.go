package main

// Notes:
// - Tests go through runDoctorCmd() with a fake hub, so reachability is
//   deterministic. Container detection reads /.dockerenv and cannot be
//   pinned; we only assert fields that do not depend on the host.
// - Environment variables come from the injected Getenv, so tests run in
//   parallel.

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON output format and structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	srv, _ := fakeHub(t)
	te := hubEnv(t, srv, t.TempDir())

	code := runDoctorCmd(context.Background(), []string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\noutput: %s", err, te.stdout.String())
	}
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if !result.Network.Checked || !result.Network.Reachable {
		t.Errorf("network = %+v, want checked and reachable", result.Network)
	}
	if result.Network.Splits != 1 {
		t.Errorf("splits = %d, want 1", result.Network.Splits)
	}
	if !result.Cache.Writable {
		t.Errorf("cache = %+v, want writable", result.Cache)
	}
	if result.System.Workers < 1 {
		t.Errorf("workers = %d, want >= 1", result.System.Workers)
	}
}

func TestRunDoctorCmd_Unreachable(t *testing.T) {
	t.Parallel()

	srv, _ := fakeHub(t)
	te := newTestEnv(t, map[string]string{
		envEndpoint: srv.URL,
		envCacheDir: t.TempDir(),
	})

	code := runDoctorCmd(context.Background(), []string{"--json", "-c", writeDoctorConfig(t, "missing")}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if code != ExitGeneral || result.Status != "errors" {
		t.Errorf("code = %d status = %q, want %d errors", code, result.Status, ExitGeneral)
	}
	if result.Network.Reachable {
		t.Error("unknown dataset should not be reachable")
	}
}

func TestRunDoctorCmd_Offline(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, map[string]string{
		envEndpoint: "http://127.0.0.1:1",
		envCacheDir: t.TempDir(),
		envToken:    "hf_x",
	})

	code := runDoctorCmd(context.Background(), []string{"--offline"}, te.Environment)
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d\n%s", code, ExitSuccess, te.stdout.String())
	}

	out := te.stdout.String()
	for _, want := range []string{"textprobe doctor", "skipped (--offline)", "HF_TOKEN set", "Status: Ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_CIWithoutToken(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, map[string]string{
		"CI":        "true",
		envCacheDir: t.TempDir(),
	})

	code := runDoctorCmd(context.Background(), []string{"--offline", "--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if code != ExitSuccess {
		t.Errorf("warnings should not fail: code = %d", code)
	}
	if !result.Env.CI {
		t.Error("CI should be detected")
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "HF_TOKEN") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want HF_TOKEN warning", result.Warnings)
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, nil)
	if code := runDoctorCmd(context.Background(), []string{"--nope"}, te.Environment); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

// writeDoctorConfig writes a config selecting dataset and returns its path.
func writeDoctorConfig(t *testing.T, dataset string) string {
	t.Helper()

	dir := writeMarkdownDir(t, map[string]string{
		"doctor.yaml": "tag:\n  dataset: " + dataset + "\n  retries: 0\n",
	})
	return dir + "/doctor.yaml"
}

// ---------------------------------------------------------------------------
// TestIsContainer - Container signals
// ---------------------------------------------------------------------------

func TestIsContainer_EnvSignals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantHint string
	}{
		{"explicit override", map[string]string{"TEXTPROBE_CONTAINER": "1"}, "TEXTPROBE_CONTAINER=1"},
		{"kubernetes", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, "KUBERNETES_SERVICE_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, hint := isContainer(getenvFrom(tt.vars))
			if !got {
				t.Fatal("isContainer() = false, want true")
			}
			// /.dockerenv takes precedence over KUBERNETES_SERVICE_HOST on
			// Docker hosts, so only the explicit override is pinned.
			if tt.name == "explicit override" && hint != tt.wantHint {
				t.Errorf("hint = %q, want %q", hint, tt.wantHint)
			}
		})
	}
}
