package main

// Notes:
// - newSession: we test the precedence flags > env > config > defaults
//   with a real config file, and log level resolution.
// - mergeFlags: we test that only flags given on the command line apply.
// - validateWorkers, display, colorEnabled: we test bounds and fallbacks.
// - read: we test stdin and the wrapped read error.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-mddoc/internal/config"
)

// ---------------------------------------------------------------------------
// TestNewSession_Precedence - Flags over env over config
// ---------------------------------------------------------------------------

func TestNewSession_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "mddoc.yaml", `format:
  bulletMarker: "+"
html:
  style: plain
  rewritePaths: false
batch:
  workers: 2
log:
  level: warn
`)

	t.Run("config file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("", dir)
		s, _ := newTestSession(t, env, "fmt", "-c", cfgPath)

		if s.cfg.Format.BulletMarker != "+" {
			t.Errorf("BulletMarker = %q, want +", s.cfg.Format.BulletMarker)
		}
		if s.cfg.HTML.RewritePaths {
			t.Error("RewritePaths = true, want false from config")
		}
		if s.workers != 2 {
			t.Errorf("workers = %d, want 2", s.workers)
		}
		if s.log.GetLevel() != log.WarnLevel {
			t.Errorf("log level = %v, want warn", s.log.GetLevel())
		}
	})

	t.Run("env over config", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("", dir).withEnv(map[string]string{
			"MDDOC_CONFIG":  cfgPath,
			"MDDOC_WORKERS": "3",
			"MDDOC_STYLE":   "default",
		})
		s, _ := newTestSession(t, env, "fmt")

		if s.workers != 3 {
			t.Errorf("workers = %d, want 3", s.workers)
		}
		if s.cfg.HTML.Style != "default" {
			t.Errorf("HTML.Style = %q, want default", s.cfg.HTML.Style)
		}
		if s.cfg.Format.BulletMarker != "+" {
			t.Errorf("BulletMarker = %q, want + from config", s.cfg.Format.BulletMarker)
		}
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("", dir).withEnv(map[string]string{"MDDOC_WORKERS": "3"})
		s, _ := newTestSession(t, env, "html", "-c", cfgPath, "-j", "5", "--bullet", "*", "--no-rewrite=false")

		if s.workers != 5 {
			t.Errorf("workers = %d, want 5", s.workers)
		}
		if s.cfg.Format.BulletMarker != "*" {
			t.Errorf("BulletMarker = %q, want *", s.cfg.Format.BulletMarker)
		}
		if !s.cfg.HTML.RewritePaths {
			t.Error("RewritePaths = false, want true from --no-rewrite=false")
		}
	})

	t.Run("quiet and verbose override config level", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("", dir)
		s, _ := newTestSession(t, env, "fmt", "-c", cfgPath, "-v")
		if s.log.GetLevel() != log.DebugLevel {
			t.Errorf("log level = %v, want debug", s.log.GetLevel())
		}
		s, _ = newTestSession(t, env, "fmt", "-c", cfgPath, "-q")
		if s.log.GetLevel() != log.ErrorLevel {
			t.Errorf("log level = %v, want error", s.log.GetLevel())
		}
	})

	t.Run("invalid env log level", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("", dir).withEnv(map[string]string{"MDDOC_LOG_LEVEL": "chatty"})
		flags, _, err := parseFlags("fmt", nil, env.stderr)
		if err != nil {
			t.Fatal(err)
		}
		_, err = newSession("fmt", flags, env.Environment)
		if !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags - Only changed flags apply
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		flags, _, err := parseFlags("html", nil, &strings.Builder{})
		if err != nil {
			t.Fatal(err)
		}
		cfg := config.DefaultConfig()
		cfg.Format.BulletMarker = "+"
		cfg.HTML.Style = "custom.css"
		mergeFlags(flags, cfg)

		if cfg.Format.BulletMarker != "+" || cfg.HTML.Style != "custom.css" || !cfg.HTML.RewritePaths {
			t.Errorf("config changed by unset flags: %+v", cfg)
		}
	})

	t.Run("set flags override", func(t *testing.T) {
		t.Parallel()

		args := []string{
			"--bullet", "*", "--strip-reserved", "-j", "7",
			"--style", "plain", "--assets", "/assets", "--highlight", "monokai", "--no-rewrite",
		}
		flags, _, err := parseFlags("html", args, &strings.Builder{})
		if err != nil {
			t.Fatal(err)
		}
		cfg := config.DefaultConfig()
		mergeFlags(flags, cfg)

		want := config.DefaultConfig()
		want.Format.BulletMarker = "*"
		want.Format.StripReserved = true
		want.Batch.Workers = 7
		want.HTML.Style = "plain"
		want.HTML.Assets = "/assets"
		want.HTML.HighlightStyle = "monokai"
		want.HTML.RewritePaths = false
		if *cfg != *want {
			t.Errorf("mergeFlags() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("nil set func", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeFlags(&cliFlags{format: formatFlags{bullet: "*"}}, cfg)
		if cfg.Format.BulletMarker != "-" {
			t.Errorf("BulletMarker = %q, want default", cfg.Format.BulletMarker)
		}
	})
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker flag bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"negative", -1, true},
		{"zero is auto", 0, false},
		{"one", 1, false},
		{"max", config.MaxWorkers, false},
		{"above max", config.MaxWorkers + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateWorkers(tt.n)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWorkerCount) {
					t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSession_Display - Message paths
// ---------------------------------------------------------------------------

func TestSession_Display(t *testing.T) {
	t.Parallel()

	wd := filepath.FromSlash("/work/project")
	s := &session{wd: wd}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"stdin", "", stdinName},
		{"below working directory", filepath.Join(wd, "docs", "a.md"), filepath.Join("docs", "a.md")},
		{"outside working directory", filepath.FromSlash("/other/a.md"), filepath.FromSlash("/other/a.md")},
		{"relative kept", "a.md", "a.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := s.display(tt.path); got != tt.want {
				t.Errorf("display(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSession_Read - Input reading
// ---------------------------------------------------------------------------

func TestSession_Read(t *testing.T) {
	t.Parallel()

	env := newTestEnv("from stdin", t.TempDir())
	s := &session{env: env.Environment}

	got, err := s.read(FileToProcess{})
	if err != nil || got != "from stdin" {
		t.Errorf("read(stdin) = %q, %v; want from stdin", got, err)
	}

	_, err = s.read(FileToProcess{InputPath: filepath.Join(t.TempDir(), "missing.md")})
	if !errors.Is(err, ErrReadMarkdown) {
		t.Errorf("error = %v, want ErrReadMarkdown", err)
	}
}

// ---------------------------------------------------------------------------
// TestColorEnabled - Color decisions
// ---------------------------------------------------------------------------

func TestColorEnabled(t *testing.T) {
	t.Parallel()

	env := newTestEnv("", "")
	if colorEnabled(env.Environment, false) {
		t.Error("colors enabled for a non-terminal writer")
	}
	if colorEnabled(env.Environment, true) {
		t.Error("colors enabled despite --no-color")
	}
	env.withEnv(map[string]string{"NO_COLOR": "1"})
	if colorEnabled(env.Environment, false) {
		t.Error("colors enabled despite NO_COLOR")
	}
}
