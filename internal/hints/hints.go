// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strconv"
	"strings"
)

// ForReservedCharacter returns hints for input holding the reserved
// U+E000-U+E003 code points.
func ForReservedCharacter() string {
	return format("use --strip-reserved or set format.stripReserved: true to drop them")
}

// ForInputTooLarge returns a hint about raising the size limit.
// A non-positive limit yields the generic hint.
func ForInputTooLarge(limit int) string {
	if limit <= 0 {
		return format("raise format.maxInputSize in the config file")
	}
	return format("limit is " + strconv.Itoa(limit) + " bytes; raise format.maxInputSize in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mddoc/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-mddoc) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mddoc") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return formatHints([]string{
		"available: " + strings.Join(available, ", "),
		"or pass a path to a .css file",
	})
}

// ForUnstable returns hints for files whose formatting does not settle.
func ForUnstable(path string) string {
	if path == "" {
		path = "<file>"
	}
	return format("compare 'mddoc fmt " + path + "' with its own output to see the drift")
}

// ForNoInput returns a hint for a command run without paths on a terminal.
func ForNoInput() string {
	return format("pass files or directories, or pipe markdown on stdin")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
