package assets

import (
	"fmt"
	"os"
)

// Dir serves the styles/{name}.css files of a directory on disk.
type Dir struct {
	path string
}

// OpenDir checks that path is a readable directory.
// Returns ErrInvalidDir otherwise.
func OpenDir(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidDir)
	}
	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}
	_ = root.Close()
	return &Dir{path: path}, nil
}

// Style reads styles/{name}.css. The directory is reopened on every call,
// so files added after OpenDir are seen.
func (d *Dir) Style(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	root, err := os.OpenRoot(d.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}
	defer func() { _ = root.Close() }()
	return readStyle(root.FS(), name)
}

// Names lists the styles of the directory, sorted.
func (d *Dir) Names() []string {
	root, err := os.OpenRoot(d.path)
	if err != nil {
		return nil
	}
	defer func() { _ = root.Close() }()
	return listStyles(root.FS())
}
