package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Report colors.
const (
	colorGreen  = "#A9DC76"
	colorOrange = "#FC9867"
	colorRed    = "#FF6188"
	colorDim    = "#727072"
)

// palette styles report labels. A disabled palette renders plain text.
type palette struct {
	enabled bool
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
}

func newPalette(enabled bool) palette {
	return palette{
		enabled: enabled,
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorOrange)).Bold(true),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)).Bold(true),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim)),
	}
}

func (p palette) render(style lipgloss.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Render(s)
}

// label pads a status word so paths line up.
func (p palette) label(style lipgloss.Style, word string) string {
	return p.render(style, fmt.Sprintf("%-8s", word))
}

// printSummary writes the batch tally. Zero counts are omitted except ok.
func printSummary(w io.Writer, p palette, s ResultSummary) {
	parts := []string{p.render(p.ok, fmt.Sprintf("%d ok", s.Succeeded))}
	if s.Unstable > 0 {
		parts = append(parts, p.render(p.warn, fmt.Sprintf("%d unstable", s.Unstable)))
	}
	if s.Failed > 0 {
		parts = append(parts, p.render(p.fail, fmt.Sprintf("%d failed", s.Failed)))
	}
	fmt.Fprintf(w, "\n%s\n", strings.Join(parts, ", "))
}

// finish logs per-file failures and the batch summary, and returns the
// command error for the tally.
func (s *session) finish(results []FileResult, started time.Time) (ResultSummary, error) {
	for _, r := range results {
		if r.Err != nil {
			s.log.FileFailed(s.display(r.InputPath), r.Err)
		}
	}

	summary := countResults(results)
	if len(results) > 1 {
		s.log.BatchSummary(s.name, len(results), summary.Changed, summary.Failed, s.env.Now().Sub(started))
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d file(s) failed: %w", summary.Failed, len(results), summary.FirstErr)
	}
	return summary, nil
}
