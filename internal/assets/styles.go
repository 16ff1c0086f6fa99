package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
)

// DefaultStyleName is the stylesheet a preview uses unless told otherwise.
const DefaultStyleName = "default"

var (
	// ErrStyleNotFound reports a style name no source provides.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidStyleName reports a name that is not a bare identifier.
	ErrInvalidStyleName = errors.New("invalid style name")

	// ErrInvalidDir reports a style directory that cannot be opened.
	ErrInvalidDir = errors.New("invalid style directory")
)

// Source loads preview stylesheets by name, without the .css extension.
type Source interface {
	Style(name string) (string, error)
}

//go:embed styles/*.css
var builtin embed.FS

// styleName accepts names like "default" or "github-dark".
var styleName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// checkName rejects names that could address anything but one file of a
// styles directory.
func checkName(name string) error {
	if !styleName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
	}
	return nil
}

// Builtin serves the stylesheets compiled into the binary.
type Builtin struct{}

// Style returns the built-in stylesheet called name.
func (Builtin) Style(name string) (string, error) {
	return readStyle(builtin, name)
}

// Names lists the built-in styles, sorted.
func (Builtin) Names() []string {
	return listStyles(builtin)
}

// StyleNames lists the built-in styles, sorted.
func StyleNames() []string {
	return Builtin{}.Names()
}

func readStyle(fsys fs.FS, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(fsys, "styles/"+name+".css")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("reading style %q: %w", name, err)
	}
	return string(data), nil
}

// listStyles returns the style names under styles/ in fsys. A missing
// directory lists nothing.
func listStyles(fsys fs.FS) []string {
	entries, err := fs.ReadDir(fsys, "styles")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".css")
		if ok && !e.IsDir() && checkName(name) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
