package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mddoc "github.com/alnah/go-mddoc"
	"github.com/alnah/go-mddoc/internal/fileutil"
)

// stdinBase names the HTML file written for standard input under an
// output directory.
const stdinBase = "stdin.md"

// runHTML renders an HTML preview per file. Files are written next to
// their input unless --output names a file or directory. Standard input
// without --output is rendered to stdout.
func runHTML(ctx context.Context, s *session, files []FileToProcess) error {
	output := s.flags.html.output
	if len(files) > 1 && strings.HasSuffix(output, ".html") {
		return fmt.Errorf("%w: --output %q with %d inputs", ErrOutputConflict, output, len(files))
	}

	started := s.env.Now()
	results := processBatch(ctx, s.workers, files, func(ctx context.Context, f FileToProcess) FileResult {
		return s.renderFile(ctx, f, output)
	})

	quiet := s.flags.common.quiet
	p := s.colors
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if r.OutputPath == "" {
			_, _ = fmt.Fprint(s.env.Stdout, r.Output)
			continue
		}
		s.log.FileRendered(s.display(r.InputPath), s.display(r.OutputPath))
		if !quiet {
			fmt.Fprintf(s.env.Stdout, "%s %s\n", p.label(p.ok, "created"), s.display(r.OutputPath))
		}
	}

	_, err := s.finish(results, started)
	return err
}

// renderFile renders one input and writes it unless it goes to stdout.
func (s *session) renderFile(ctx context.Context, f FileToProcess, output string) (result FileResult) {
	start := s.env.Now()
	result.InputPath = f.InputPath
	defer func() { result.Duration = s.env.Now().Sub(start) }()

	src, err := s.read(f)
	if err != nil {
		result.Err = err
		return result
	}

	title := s.flags.html.title
	if title == "" {
		title, err = s.pageTitle(src, f.InputPath)
		if err != nil {
			result.Err = err
			return result
		}
	}

	page, err := s.codec.RenderHTML(ctx, src, mddoc.HTMLOptions{
		Title:     title,
		SourceDir: s.sourceDir(f),
	})
	if err != nil {
		result.Err = err
		return result
	}

	if f.isStdin() && output == "" {
		result.Output = page
		return result
	}

	inputPath := f.InputPath
	if f.isStdin() {
		inputPath = stdinBase
	}
	outPath := resolveOutputPath(inputPath, output, f.BaseDir)
	if err := os.MkdirAll(filepath.Dir(outPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}
	if err := fileutil.WriteFileAtomic(outPath, []byte(page), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}
	result.OutputPath = outPath
	return result
}

// pageTitle is the text of the first heading, or the file name without its
// extension when the document has no heading.
func (s *session) pageTitle(src, path string) (string, error) {
	doc, err := s.codec.Parse(src)
	if err != nil {
		return "", err
	}
	for _, n := range doc.Content {
		if n.Type == mddoc.NodeHeading {
			if t := strings.TrimSpace(mddoc.TextContent(n)); t != "" {
				return t, nil
			}
		}
	}
	if path == "" {
		return stdinName, nil
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), nil
}

// sourceDir is the directory relative paths resolve against, or "" when
// rewriting is disabled.
func (s *session) sourceDir(f FileToProcess) string {
	if !s.cfg.HTML.RewritePaths {
		return ""
	}
	if f.isStdin() {
		return s.wd
	}
	return filepath.Dir(f.InputPath)
}
