package main

import (
	"context"
	"fmt"
	"io"
	"os"

	mddoc "github.com/alnah/go-mddoc"
	"github.com/alnah/go-mddoc/internal/fileutil"
)

// Output permissions.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// formatMarkdown parses src and serializes it back. Non-empty output ends
// with a newline.
func formatMarkdown(codec *mddoc.Codec, src string) (string, error) {
	doc, err := codec.Parse(src)
	if err != nil {
		return "", err
	}
	out, err := codec.Serialize(doc)
	if err != nil {
		return "", err
	}
	if out != "" {
		out += "\n"
	}
	return out, nil
}

// runFmt normalizes files. By default the result goes to stdout; -w
// rewrites changed files in place and -l lists them.
func runFmt(ctx context.Context, s *session, files []FileToProcess) error {
	opts := s.flags.fmt
	for _, f := range files {
		if opts.write && f.isStdin() {
			return ErrStdinWrite
		}
	}

	started := s.env.Now()
	results := processBatch(ctx, s.workers, files, func(_ context.Context, f FileToProcess) FileResult {
		return s.formatFile(f, opts.write)
	})

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if opts.list && r.Changed {
			fmt.Fprintln(s.env.Stdout, s.display(r.InputPath))
		}
		if opts.write {
			if r.Changed {
				s.log.FileFormatted(s.display(r.InputPath), true)
			} else {
				s.log.FileUnchanged(s.display(r.InputPath))
			}
		}
		if !opts.list && !opts.write {
			_, _ = io.WriteString(s.env.Stdout, r.Output)
		}
	}

	_, err := s.finish(results, started)
	return err
}

// formatFile formats one input and, when write is set, replaces the file
// if its content changed.
func (s *session) formatFile(f FileToProcess, write bool) (result FileResult) {
	start := s.env.Now()
	result.InputPath = f.InputPath
	defer func() { result.Duration = s.env.Now().Sub(start) }()

	src, err := s.read(f)
	if err != nil {
		result.Err = err
		return result
	}
	out, err := formatMarkdown(s.codec, src)
	if err != nil {
		result.Err = err
		return result
	}
	result.Output = out
	result.Changed = out != src

	if write && result.Changed {
		if err := rewriteFile(f.InputPath, out); err != nil {
			result.Err = err
			return result
		}
		result.OutputPath = f.InputPath
	}
	return result
}

// rewriteFile atomically replaces path, keeping its permissions.
func rewriteFile(path, content string) error {
	perm := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content), perm); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
