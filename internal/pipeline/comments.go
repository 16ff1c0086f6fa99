package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

// Comment wrapper syntax. Parsing tolerates extra whitespace inside the
// HTML comments; formatting always emits the canonical form.
var (
	commentOpenPattern  = regexp.MustCompile(`<!--\s*COMMENT:\s*"((?:[^"\\]|\\[\s\S])*)"\s*-->`)
	commentClosePattern = regexp.MustCompile(`<!--\s*/COMMENT\s*-->`)
)

// CommentClose is the canonical closing wrapper.
const CommentClose = "<!-- /COMMENT -->"

// CommentOpen returns the canonical opening wrapper for a comment text.
func CommentOpen(text string) string {
	return `<!-- COMMENT: "` + EscapeComment(text) + `" -->`
}

// EscapeComment encodes backslash, double quote, newline, carriage return
// and tab as backslash escapes.
func EscapeComment(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// UnescapeComment reverses EscapeComment. Unknown escapes and a trailing
// lone backslash are kept literally.
func UnescapeComment(text string) string {
	if !strings.Contains(text, `\`) {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			sb.WriteByte(c)
			continue
		}
		switch text[i+1] {
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(text[i+1])
		}
		i++
	}
	return sb.String()
}

// commentTag is an opening or closing wrapper found in the source.
type commentTag struct {
	start, end int
	open       bool
	text       string
}

// extractComments replaces every balanced comment wrapper pair with
// START/END sentinels and returns the id to text table. Pairs nest like
// parentheses; unpaired wrappers stay as literal text.
func extractComments(content string) (string, map[int]string) {
	if !strings.Contains(content, "<!--") {
		return content, nil
	}
	spans := protectedSpans(content)

	var tags []commentTag
	for _, m := range commentOpenPattern.FindAllStringSubmatchIndex(content, -1) {
		if inSpans(spans, m[0]) {
			continue
		}
		tags = append(tags, commentTag{
			start: m[0],
			end:   m[1],
			open:  true,
			text:  UnescapeComment(content[m[2]:m[3]]),
		})
	}
	if len(tags) == 0 {
		return content, nil
	}
	for _, m := range commentClosePattern.FindAllStringIndex(content, -1) {
		if inSpans(spans, m[0]) {
			continue
		}
		tags = append(tags, commentTag{start: m[0], end: m[1]})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].start < tags[j].start })

	// Pair tags with a stack and assign ids in opening order.
	replacements := make(map[int]string, len(tags))
	comments := make(map[int]string)
	var stack []int
	nextID := 1
	ids := make(map[int]int, len(tags))
	for i, tag := range tags {
		if tag.open {
			ids[i] = nextID
			nextID++
			stack = append(stack, i)
			continue
		}
		if len(stack) == 0 {
			continue
		}
		opener := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := ids[opener]
		comments[id] = tags[opener].text
		replacements[opener] = StartMarker(id)
		replacements[i] = EndMarker(id)
	}
	if len(comments) == 0 {
		return content, nil
	}

	var sb strings.Builder
	sb.Grow(len(content))
	last := 0
	for i, tag := range tags {
		repl, ok := replacements[i]
		if !ok {
			continue
		}
		sb.WriteString(content[last:tag.start])
		sb.WriteString(repl)
		last = tag.end
	}
	sb.WriteString(content[last:])
	return sb.String(), comments
}
