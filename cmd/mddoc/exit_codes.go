package main

import (
	"errors"
	"os"
	"strings"

	mddoc "github.com/alnah/go-mddoc"
	"github.com/alnah/go-mddoc/internal/assets"
	"github.com/alnah/go-mddoc/internal/config"
	"github.com/alnah/go-mddoc/internal/hints"
)

// Exit codes for mddoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All files processed and stable
	ExitGeneral = 1 // Unstable files or unexpected errors
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, mddoc.ErrStyleNotFound) ||
		errors.Is(err, mddoc.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrStdinWrite) ||
		errors.Is(err, ErrOutputConflict) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, cfg *config.Config) string {
	switch {
	case errors.Is(err, mddoc.ErrReservedCharacter):
		return hints.ForReservedCharacter()
	case errors.Is(err, mddoc.ErrInputTooLarge):
		limit := mddoc.DefaultMaxInputSize
		if cfg != nil && cfg.Format.MaxInputSize > 0 {
			limit = cfg.Format.MaxInputSize
		}
		return hints.ForInputTooLarge(limit)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, mddoc.ErrStyleNotFound):
		return hints.ForStyleNotFound(styleNames(cfg))
	case errors.Is(err, ErrNoInput):
		return hints.ForNoInput()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// styleNames lists the preview styles cfg can name, those of its asset
// directory included.
func styleNames(cfg *config.Config) []string {
	dir := ""
	if cfg != nil {
		dir = cfg.HTML.Assets
	}
	stack, err := assets.Open(dir)
	if err != nil {
		return assets.StyleNames()
	}
	return stack.Names()
}

// triedPaths extracts the search list from a config-not-found message.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
