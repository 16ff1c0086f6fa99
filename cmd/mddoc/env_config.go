package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-mddoc/internal/config"
)

// envPrefix is the prefix of every recognized environment variable.
const envPrefix = "MDDOC_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MDDOC_CONFIG: config file name or path
	Style      string // MDDOC_STYLE: preview style name or path
	LogLevel   string // MDDOC_LOG_LEVEL: debug, info, warn, error
	Workers    int    // MDDOC_WORKERS: parallel workers
}

// knownEnvVars lists valid MDDOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDDOC_CONFIG":    true,
	"MDDOC_STYLE":     true,
	"MDDOC_LOG_LEVEL": true,
	"MDDOC_WORKERS":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid worker counts are ignored.
func loadEnvConfig(env *Environment) *envConfig {
	cfg := &envConfig{
		ConfigPath: env.getenv("MDDOC_CONFIG"),
		Style:      env.getenv("MDDOC_STYLE"),
		LogLevel:   env.getenv("MDDOC_LOG_LEVEL"),
	}

	if workers := env.getenv("MDDOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes warnings for unrecognized MDDOC_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values over the loaded config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.HTML.Style = env.Style
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Workers > 0 {
		cfg.Batch.Workers = env.Workers
	}
}
