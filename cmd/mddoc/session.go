package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	mddoc "github.com/alnah/go-mddoc"
	"github.com/alnah/go-mddoc/internal/config"
	"github.com/alnah/go-mddoc/internal/logger"
)

// stdinName is how standard input is shown in messages.
const stdinName = "<stdin>"

// session holds what one command invocation shares across files.
type session struct {
	name    string
	flags   *cliFlags
	env     *Environment
	cfg     *config.Config
	codec   *mddoc.Codec
	log     *logger.Logger
	colors  palette
	workers int
	wd      string
}

// newSession loads configuration, merges env and flags over it, and builds
// the codec. Precedence: CLI flags > env vars > config file > defaults.
func newSession(name string, flags *cliFlags, env *Environment) (*session, error) {
	if err := validateWorkers(flags.common.workers); err != nil {
		return nil, err
	}

	envCfg := loadEnvConfig(env)
	cfgPath := flags.common.config
	if cfgPath == "" {
		cfgPath = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if cfgPath != "" {
		loaded, err := config.LoadConfig(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := resolveLogLevel(flags.common, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}

	s := &session{
		name:    name,
		flags:   flags,
		env:     env,
		cfg:     cfg,
		log:     logger.New(env.Stderr, level),
		colors:  newPalette(colorEnabled(env, flags.common.noColor)),
		workers: resolvePoolSize(cfg.Batch.Workers),
	}
	if env.Getwd != nil {
		s.wd, _ = env.Getwd()
	}
	s.log.ConfigLoaded(cfgPath, s.workers)

	s.codec, err = mddoc.NewCodec(codecOptions(cfg, name == "html")...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// config returns the effective configuration, or nil before it is known.
func (s *session) config() *config.Config {
	if s == nil {
		return nil
	}
	return s.cfg
}

// mergeFlags merges CLI flags into config. Only flags given on the command
// line override config values.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	set := flags.set
	if set == nil {
		set = func(string) bool { return false }
	}

	if set("bullet") {
		cfg.Format.BulletMarker = flags.format.bullet
	}
	if set("strip-reserved") {
		cfg.Format.StripReserved = flags.format.stripReserved
	}
	if set("workers") {
		cfg.Batch.Workers = flags.common.workers
	}
	if set("style") {
		cfg.HTML.Style = flags.html.style
	}
	if set("assets") {
		cfg.HTML.Assets = flags.html.assets
	}
	if set("highlight") {
		cfg.HTML.HighlightStyle = flags.html.highlight
	}
	if set("no-rewrite") {
		cfg.HTML.RewritePaths = !flags.html.noRewrite
	}
}

// codecOptions maps config to codec options. Preview options are only
// resolved for commands that render HTML.
func codecOptions(cfg *config.Config, preview bool) []mddoc.Option {
	var opts []mddoc.Option
	if cfg.Format.BulletMarker != "" {
		opts = append(opts, mddoc.WithBulletMarker(cfg.Format.BulletMarker))
	}
	opts = append(opts, mddoc.WithStripReserved(cfg.Format.StripReserved))
	if cfg.Format.MaxInputSize > 0 {
		opts = append(opts, mddoc.WithMaxInputSize(cfg.Format.MaxInputSize))
	}
	if !preview {
		return opts
	}
	if cfg.HTML.Assets != "" {
		opts = append(opts, mddoc.WithAssetPath(cfg.HTML.Assets))
	}
	if cfg.HTML.Style != "" {
		opts = append(opts, mddoc.WithStyle(cfg.HTML.Style))
	}
	if cfg.HTML.HighlightStyle != "" {
		opts = append(opts, mddoc.WithHighlightStyle(cfg.HTML.HighlightStyle))
	}
	return opts
}

// resolveLogLevel picks the log level: --quiet and --verbose win over config.
func resolveLogLevel(flags commonFlags, cfg *config.Config) (log.Level, error) {
	switch {
	case flags.quiet:
		return log.ErrorLevel, nil
	case flags.verbose:
		return log.DebugLevel, nil
	}
	return logger.ParseLevel(cfg.Log.Level)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// inputs resolves positional paths to files. Without paths, standard input
// is used unless it is a terminal.
func (s *session) inputs(paths []string) ([]FileToProcess, error) {
	if len(paths) == 0 {
		if isTerminal(s.env.Stdin) {
			return nil, ErrNoInput
		}
		return []FileToProcess{{}}, nil
	}

	files, err := discoverFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, strings.Join(paths, ", "))
	}
	return files, nil
}

// read returns the content of f, from standard input when f has no path.
func (s *session) read(f FileToProcess) (string, error) {
	var data []byte
	var err error
	if f.isStdin() {
		data, err = io.ReadAll(s.env.Stdin)
	} else {
		data, err = os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// display returns path relative to the working directory when it is below
// it, for shorter messages.
func (s *session) display(path string) string {
	if path == "" {
		return stdinName
	}
	if s.wd == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(s.wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorEnabled decides whether reports are styled: only on a terminal,
// and never when NO_COLOR is set or --no-color is given.
func colorEnabled(env *Environment, noColor bool) bool {
	if noColor || env.getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(env.Stdout)
}
