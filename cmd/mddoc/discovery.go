package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mddoc/internal/fileutil"
)

// FileToProcess represents a single input. An empty InputPath means
// standard input.
type FileToProcess struct {
	InputPath string
	// BaseDir is the directory argument the file was found under, or ""
	// for files named directly.
	BaseDir string
}

func (f FileToProcess) isStdin() bool {
	return f.InputPath == ""
}

// discoverFiles expands paths into markdown files. Directories are walked
// recursively, skipping hidden directories. Files named directly must have
// a markdown extension. Each file is listed once.
func discoverFiles(paths []string) ([]FileToProcess, error) {
	var files []FileToProcess
	seen := make(map[string]bool)
	add := func(path, base string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, FileToProcess{InputPath: path, BaseDir: base})
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(p); err != nil {
				return nil, err
			}
			add(p, "")
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if fileutil.IsMarkdown(path) {
				add(path, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// resolveOutputPath determines the HTML output path for a markdown file.
// An output ending in .html is used as is; any other output is a directory
// mirroring the layout under baseInputDir.
func resolveOutputPath(inputPath, output, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if strings.HasSuffix(output, ".html") {
		return output
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(output, relDir, base+".html")
		}
	}

	return filepath.Join(output, base+".html")
}
