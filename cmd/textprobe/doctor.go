package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-textprobe"
	"github.com/alnah/go-textprobe/internal/config"
	"github.com/alnah/go-textprobe/internal/fileutil"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Network  networkInfo `json:"network"`
	Cache    cacheInfo   `json:"cache"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// networkInfo holds datasets-server reachability results.
type networkInfo struct {
	Endpoint  string `json:"endpoint"`
	Checked   bool   `json:"checked"`
	Reachable bool   `json:"reachable"`
	Dataset   string `json:"dataset"`
	Splits    int    `json:"splits,omitempty"`
	Token     bool   `json:"token"`
}

// cacheInfo holds dataset cache checks.
type cacheInfo struct {
	Dir      string `json:"dir"`
	Disabled bool   `json:"disabled"`
	Writable bool   `json:"writable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds runtime sizing.
type systemInfo struct {
	GOMAXPROCS int `json:"gomaxprocs"`
	Workers    int `json:"workers"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	config  string
	json    bool
	offline bool
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f := &doctorFlags{}
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.BoolVar(&f.offline, "offline", false, "skip the endpoint reachability check")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", wrapParseError(err))
		return ExitUsage
	}

	cfg, envCfg, err := loadConfig(commonFlags{config: f.config}, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, cfg, envCfg, env, !f.offline)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, envCfg *envConfig, env *Environment, online bool) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		System: systemInfo{
			GOMAXPROCS: runtime.GOMAXPROCS(0),
			Workers:    textprobe.ResolveWorkers(cfg.Extract.Workers),
		},
	}

	checkCache(result, cfg, env)
	if online {
		checkNetwork(ctx, result, cfg, envCfg)
	} else {
		result.Network.Endpoint = cfg.Tag.Endpoint
		result.Network.Dataset = cfg.Tag.Dataset
		result.Network.Token = envCfg.Token != ""
	}
	checkEnvironment(result, env.Getenv)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkCache verifies the dataset cache directory can be created and written.
func checkCache(result *doctorResult, cfg *config.Config, env *Environment) {
	result.Cache.Disabled = cfg.Cache.Disabled
	dir, err := resolveCacheDir(cfg, env)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No user cache directory: %v. Set TEXTPROBE_CACHE_DIR", err))
		return
	}
	result.Cache.Dir = dir
	if cfg.Cache.Disabled {
		return
	}
	if err := fileutil.EnsureWritableDir(dir); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Cache directory not writable: %s. Datasets will be fetched on every run", dir))
		return
	}
	result.Cache.Writable = true
}

// checkNetwork asks the datasets-server for the configured dataset's splits.
func checkNetwork(ctx context.Context, result *doctorResult, cfg *config.Config, envCfg *envConfig) {
	result.Network.Endpoint = cfg.Tag.Endpoint
	result.Network.Dataset = cfg.Tag.Dataset
	result.Network.Token = envCfg.Token != ""
	result.Network.Checked = true

	client, err := newDatasetClient(cfg, envCfg, zap.NewNop())
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	splits, err := client.Splits(ctx, cfg.Tag.Dataset)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Cannot list splits of %s: %v", cfg.Tag.Dataset, err))
		return
	}
	result.Network.Reachable = true
	result.Network.Splits = len(splits)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.CI && !result.Network.Token {
		result.Warnings = append(result.Warnings,
			"CI detected but HF_TOKEN not set. Anonymous requests are rate limited")
	}
}

// isContainer reports whether we run in a container and which signal said so.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv(envContainer) == "1" {
		return true, envContainer + "=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "textprobe doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Datasets server")
	fmt.Fprintf(w, "  [OK] Endpoint: %s\n", r.Network.Endpoint)
	switch {
	case !r.Network.Checked:
		fmt.Fprintln(w, "  [OK] Reachability: skipped (--offline)")
	case r.Network.Reachable:
		fmt.Fprintf(w, "  [OK] Dataset %s: %d splits\n", r.Network.Dataset, r.Network.Splits)
	default:
		fmt.Fprintf(w, "  [ERROR] Dataset %s: unreachable\n", r.Network.Dataset)
	}
	if r.Network.Token {
		fmt.Fprintln(w, "  [OK] Token: HF_TOKEN set")
	} else {
		fmt.Fprintln(w, "  [OK] Token: anonymous")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Cache")
	switch {
	case r.Cache.Disabled:
		fmt.Fprintln(w, "  [OK] Disabled")
	case r.Cache.Writable:
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Cache.Dir)
	default:
		fmt.Fprintf(w, "  [WARN] Directory: %s (not writable)\n", r.Cache.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d, extract workers: %d\n", r.System.GOMAXPROCS, r.System.Workers)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
