package main

import (
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-textprobe/internal/config"
)

// Environment variable names.
const (
	envCacheDir = "TEXTPROBE_CACHE_DIR"
	envEndpoint = "TEXTPROBE_ENDPOINT"
	envTimeout  = "TEXTPROBE_TIMEOUT"
	envToken    = "HF_TOKEN"

	envContainer = "TEXTPROBE_CONTAINER" // read by doctor only
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	CacheDir string        // TEXTPROBE_CACHE_DIR: dataset cache directory
	Endpoint string        // TEXTPROBE_ENDPOINT: datasets-server base URL
	Timeout  time.Duration // TEXTPROBE_TIMEOUT: per-request timeout
	Token    string        // HF_TOKEN: bearer token for gated datasets
}

// knownEnvVars lists valid TEXTPROBE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envCacheDir:  true,
	envEndpoint:  true,
	envTimeout:   true,
	envContainer: true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		CacheDir: getenv(envCacheDir),
		Endpoint: getenv(envEndpoint),
		Token:    getenv(envToken),
	}

	if timeout := getenv(envTimeout); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized TEXTPROBE_* variables.
// Helps catch typos like TEXTPROBE_CACHEDIR.
func warnUnknownEnvVars(environ []string, logger *zap.Logger) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "TEXTPROBE_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", zap.String("name", name))
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are merged afterwards.
// This ensures: CLI flags > env vars > config file > defaults
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.CacheDir != "" {
		cfg.Cache.Dir = env.CacheDir
	}
	if env.Endpoint != "" {
		cfg.Tag.Endpoint = env.Endpoint
	}
	if env.Timeout > 0 {
		cfg.Tag.Timeout = env.Timeout.String()
	}
}

// resolveCacheDir returns the cache directory: the configured one, or
// "textprobe" inside the user cache directory.
func resolveCacheDir(cfg *config.Config, env *Environment) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	base, err := env.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "textprobe"), nil
}
