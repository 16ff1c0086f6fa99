package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

// fenceLine matches a code fence opener, optionally inside blockquotes or
// list items. Group 1 is the container prefix, group 2 the fence run.
var fenceLine = regexp.MustCompile("^((?:[ \t]*(?:>|(?:[-+*]|[0-9]{1,9}[.)])[ \t]+))*)[ \t]*(`{3,}|~{3,})")

// span is a half-open byte range.
type span struct {
	start, end int
}

// protectedSpans returns the byte ranges of content that preprocessing must
// leave untouched: fenced code blocks, fence lines included, and inline code
// spans outside of them. The result is sorted and non-overlapping.
//
// A fence opened on a list item line ends with its item: a non-blank line
// indented less than the item's content closes it.
func protectedSpans(content string) []span {
	var spans []span
	var fence string
	fenceStart := 0
	fenceIndent := 0
	proseStart := 0
	offset := 0

	for offset <= len(content) {
		end := strings.IndexByte(content[offset:], '\n')
		lineEnd := len(content)
		if end >= 0 {
			lineEnd = offset + end
		}
		line := content[offset:lineEnd]
		next := lineEnd + 1

		if fence != "" && fenceIndent > 0 && strings.TrimSpace(line) != "" && column(line, leadingSpace(line)) < fenceIndent {
			spans = append(spans, span{fenceStart, offset})
			fence = ""
			proseStart = offset
		}

		m := fenceLine.FindStringSubmatchIndex(line)
		switch {
		case fence == "" && m != nil && isFenceOpener(line, m):
			spans = append(spans, codeSpans(content, proseStart, offset)...)
			fence = line[m[4]:m[5]]
			fenceStart = offset
			fenceIndent = itemIndent(line, m)
		case fence != "" && m != nil && closesFence(fence, line, m):
			spans = append(spans, span{fenceStart, min(next, len(content))})
			fence = ""
			proseStart = min(next, len(content))
		}

		if end < 0 {
			break
		}
		offset = next
	}

	if fence != "" {
		spans = append(spans, span{fenceStart, len(content)})
	} else {
		spans = append(spans, codeSpans(content, proseStart, len(content))...)
	}
	return spans
}

// isFenceOpener rejects backtick fences whose info string has a backtick,
// which CommonMark reads as inline code instead.
func isFenceOpener(line string, m []int) bool {
	if line[m[4]] != '`' {
		return true
	}
	return !strings.Contains(line[m[5]:], "`")
}

// closesFence reports whether the fence line m closes open. A closer never
// starts a list item.
func closesFence(open, line string, m []int) bool {
	run := line[m[4]:m[5]]
	if run[0] != open[0] || len(run) < len(open) || hasListMarker(line[m[2]:m[3]]) {
		return false
	}
	return strings.TrimSpace(line[m[5]:]) == ""
}

// itemIndent returns the content column of the list item a fence opens on,
// or 0 when the fence is not on a list item line or sits in a blockquote.
func itemIndent(line string, m []int) int {
	prefix := line[m[2]:m[3]]
	if !hasListMarker(prefix) || strings.Contains(prefix, ">") {
		return 0
	}
	return column(line, m[4])
}

func hasListMarker(prefix string) bool {
	return strings.TrimLeft(prefix, " \t>") != ""
}

func leadingSpace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// column returns the visual column of byte i in line, with tab stops of 4.
func column(line string, i int) int {
	col := 0
	for _, c := range []byte(line[:i]) {
		if c == '\t' {
			col += 4 - col%4
			continue
		}
		col++
	}
	return col
}

// codeSpans finds inline code spans in content[from:to]. A backtick run
// opens a span when a later run of the same length closes it.
func codeSpans(content string, from, to int) []span {
	var spans []span
	i := from
	for i < to {
		if content[i] != '`' {
			if content[i] == '\\' && i+1 < to {
				i += 2
				continue
			}
			i++
			continue
		}
		runEnd := i
		for runEnd < to && content[runEnd] == '`' {
			runEnd++
		}
		n := runEnd - i
		closeAt := findRun(content, runEnd, to, n)
		if closeAt < 0 {
			i = runEnd
			continue
		}
		spans = append(spans, span{i, closeAt + n})
		i = closeAt + n
	}
	return spans
}

// findRun returns the start of the first backtick run of exactly n in
// content[from:to], or -1.
func findRun(content string, from, to, n int) int {
	i := from
	for i < to {
		if content[i] != '`' {
			i++
			continue
		}
		j := i
		for j < to && content[j] == '`' {
			j++
		}
		if j-i == n {
			return i
		}
		i = j
	}
	return -1
}

// inSpans reports whether pos lies inside one of the sorted spans.
func inSpans(spans []span, pos int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].end > pos })
	return i < len(spans) && spans[i].start <= pos
}

// replaceOutside rewrites every match of re whose start is not protected.
// The replace callback returns the new text and whether to apply it.
func replaceOutside(content string, re *regexp.Regexp, replace func(match []int) (string, bool)) string {
	matches := re.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}
	spans := protectedSpans(content)

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		if inSpans(spans, m[0]) {
			continue
		}
		repl, ok := replace(m)
		if !ok {
			continue
		}
		sb.WriteString(content[last:m[0]])
		sb.WriteString(repl)
		last = m[1]
	}
	sb.WriteString(content[last:])
	return sb.String()
}
