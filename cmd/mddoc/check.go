package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-mddoc/internal/hints"
)

// runCheck formats every file twice and reports files whose second pass
// differs from the first. Nothing is written.
func runCheck(ctx context.Context, s *session, files []FileToProcess) error {
	started := s.env.Now()
	results := processBatch(ctx, s.workers, files, func(_ context.Context, f FileToProcess) FileResult {
		return s.checkFile(f)
	})

	quiet := s.flags.common.quiet
	w := s.env.Stdout
	p := s.colors
	for _, r := range results {
		switch {
		case r.Err != nil:
			if !quiet {
				fmt.Fprintf(w, "%s %s\n", p.label(p.fail, "failed"), s.display(r.InputPath))
			}
		case r.Unstable:
			fmt.Fprintf(w, "%s %s\n", p.label(p.warn, "unstable"), s.display(r.InputPath))
			if !quiet {
				hint := strings.TrimPrefix(hints.ForUnstable(s.display(r.InputPath)), "\n")
				fmt.Fprintln(w, p.render(p.dim, hint))
			}
		case !quiet:
			fmt.Fprintf(w, "%s %s\n", p.label(p.ok, "ok"), s.display(r.InputPath))
		}
	}

	summary, err := s.finish(results, started)
	if len(results) > 1 && !quiet {
		printSummary(w, p, summary)
	}
	if err != nil {
		return err
	}
	if summary.Unstable > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrUnstable, summary.Unstable, len(results))
	}
	return nil
}

// checkFile runs two formatting passes over one input.
func (s *session) checkFile(f FileToProcess) (result FileResult) {
	start := s.env.Now()
	result.InputPath = f.InputPath
	defer func() { result.Duration = s.env.Now().Sub(start) }()

	src, err := s.read(f)
	if err != nil {
		result.Err = err
		return result
	}
	first, err := formatMarkdown(s.codec, src)
	if err != nil {
		result.Err = err
		return result
	}
	second, err := formatMarkdown(s.codec, first)
	if err != nil {
		result.Err = err
		return result
	}

	result.Output = first
	result.Changed = first != src
	result.Unstable = first != second
	if result.Unstable {
		s.log.FileUnstable(s.display(f.InputPath), len(first), len(second))
	}
	return result
}
