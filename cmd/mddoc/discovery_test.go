package main

// Notes:
// - discoverFiles: we test single files, recursive walks, hidden directory
//   skipping, deduplication and the error paths.
// - resolveOutputPath: we test sibling, explicit file and mirrored layouts.
// - validateMarkdownExtension: we test accepted and rejected extensions.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolveOutputPath - HTML output placement
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputPath    string
		output       string
		baseInputDir string
		want         string
	}{
		{
			name:      "no output - HTML next to source",
			inputPath: "/docs/file.md",
			want:      "/docs/file.html",
		},
		{
			name:      "output is HTML file",
			inputPath: "/docs/file.md",
			output:    "/out/result.html",
			want:      "/out/result.html",
		},
		{
			name:      "output is directory - single file",
			inputPath: "/docs/file.md",
			output:    "/out/",
			want:      "/out/file.html",
		},
		{
			name:         "output is directory - mirror structure",
			inputPath:    "/docs/a/b/file.md",
			output:       "/out",
			baseInputDir: "/docs",
			want:         "/out/a/b/file.html",
		},
		{
			name:      "markdown extension",
			inputPath: "/docs/file.markdown",
			want:      "/docs/file.html",
		},
		{
			name:         "unrelated base falls back to flat output",
			inputPath:    "relative/file.md",
			output:       "/out",
			baseInputDir: "/absolute/base",
			want:         "/out/file.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.inputPath, tt.output, tt.baseInputDir)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateMarkdownExtension - Direct file arguments
// ---------------------------------------------------------------------------

func TestValidateMarkdownExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"doc.md", false},
		{"doc.markdown", false},
		{"DOC.MD", false},
		{"doc.txt", true},
		{"doc", true},
		{"doc.md.bak", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			err := validateMarkdownExtension(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExtension) {
					t.Errorf("error = %v, want ErrInvalidExtension", err)
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
// TestDiscoverFiles - Input expansion
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for path, content := range map[string]string{
		"doc1.md":             "# Doc 1",
		"doc2.markdown":       "# Doc 2",
		"subdir/doc3.md":      "# Doc 3",
		"subdir/deep/doc4.md": "# Doc 4",
		".hidden/doc5.md":     "# Doc 5",
		"ignored.txt":         "ignored",
	} {
		writeFile(t, tempDir, path, content)
	}

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(tempDir, "doc1.md")
		got, err := discoverFiles([]string{path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].InputPath != path || got[0].BaseDir != "" {
			t.Errorf("discoverFiles() = %+v, want one file %q without base", got, path)
		}
	})

	t.Run("directory recursive skips hidden", func(t *testing.T) {
		t.Parallel()

		got, err := discoverFiles([]string{tempDir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 4 {
			t.Errorf("got %d files, want 4: %+v", len(got), got)
		}
		for _, f := range got {
			if f.BaseDir != tempDir {
				t.Errorf("BaseDir = %q, want %q", f.BaseDir, tempDir)
			}
			if filepath.Base(f.InputPath) == "doc5.md" {
				t.Error("file under hidden directory included")
			}
		}
	})

	t.Run("duplicates listed once", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(tempDir, "subdir", "doc3.md")
		got, err := discoverFiles([]string{path, filepath.Join(tempDir, "subdir"), path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d files, want 2: %+v", len(got), got)
		}
	})

	t.Run("invalid extension returns error", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles([]string{filepath.Join(tempDir, "ignored.txt")})
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("nonexistent path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles([]string{filepath.Join(tempDir, "missing.md")})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}
