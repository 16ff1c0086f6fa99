package mddoc

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

var (
	charRefPattern      = regexp.MustCompile(`^&(?:#[xX][0-9a-fA-F]{1,6}|#[0-9]{1,7}|[a-zA-Z][a-zA-Z0-9]{0,31});`)
	backtickRunPattern  = regexp.MustCompile("`+")
	tildeRunPattern     = regexp.MustCompile("~+")
	atxOpenerLookalike  = regexp.MustCompile(`^#{1,6}`)
	atxCloserLookalike  = regexp.MustCompile(`#+$`)
	orderedOpenerLike   = regexp.MustCompile(`^([0-9]{1,9})([.)])`)
	thematicBreakLike   = regexp.MustCompile(`^(?:-[ \t]*){3,}$`)
	setextUnderlineLike = regexp.MustCompile(`^(?:=+|-+)[ \t]*$`)
	delimiterRowLike    = regexp.MustCompile(`^\|?[ \t]*:?-+:?[ \t]*(?:\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
	autolinkScheme      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]{1,31}:[^\s<>]*$`)
)

// escapeText backslash-escapes the characters that could start inline
// markup. Underscores inside words and ampersands that cannot start a
// character reference are kept.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "[]*_`\\~&<\u00A0") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i, r := range s {
		switch r {
		case '[', ']', '*', '`', '\\', '~':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '_':
			if isWord(utf8.DecodeLastRuneInString(s[:i])) && isWord(utf8.DecodeRuneInString(s[i+1:])) {
				sb.WriteByte('_')
			} else {
				sb.WriteString(`\_`)
			}
		case '&':
			if charRefPattern.MatchString(s[i:]) {
				sb.WriteString(`\&`)
			} else {
				sb.WriteByte('&')
			}
		case '<':
			if next, l := utf8.DecodeRuneInString(s[i+1:]); l > 0 && !unicode.IsSpace(next) {
				sb.WriteString(`\<`)
			} else {
				sb.WriteByte('<')
			}
		case '\u00A0':
			sb.WriteString("&nbsp;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeStartOfLine escapes text written at the start of a line so it cannot
// open a block. first is set on the first line of a paragraph, last when the
// text runs to the end of the line.
func escapeStartOfLine(s string, first, last bool) string {
	if s == "" {
		return s
	}
	s = escapeLeadingSpaceTab(s)
	switch s[0] {
	case '-', '+':
		tail := s[1:]
		if startsWithSpaceOrTab(tail) || (tail == "" && first && last) {
			return `\` + s
		}
	case '>':
		return `\` + s
	case '#':
		if hashes := atxOpenerLookalike.FindString(s); hashes != "" {
			tail := s[len(hashes):]
			if startsWithSpaceOrTab(tail) || (tail == "" && last) {
				return `\` + s
			}
		}
	case '|', ':':
		if !first && last && delimiterRowLike.MatchString(s) {
			return `\` + s
		}
	}
	if m := orderedOpenerLike.FindStringSubmatch(s); m != nil {
		tail := s[len(m[0]):]
		if startsWithSpaceOrTab(tail) || (tail == "" && last) {
			return m[1] + `\` + m[2] + tail
		}
	}
	if !last {
		return s
	}
	switch {
	case thematicBreakLike.MatchString(s):
		return `\` + s
	case !first && setextUnderlineLike.MatchString(s):
		return `\` + s
	case !first && s[0] == '-' && delimiterRowLike.MatchString(s):
		return `\` + s
	}
	return s
}

// escapeHeadingEnd keeps a trailing run of # from reading as a closing
// sequence.
func escapeHeadingEnd(s string, whole bool) string {
	hashes := atxCloserLookalike.FindString(s)
	if hashes == "" {
		return s
	}
	head := s[:len(s)-len(hashes)]
	if endsWithSpaceOrTab(head) || (head == "" && whole) {
		return head + `\` + hashes
	}
	return s
}

func escapeLeadingSpaceTab(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case ' ':
		return "&#32;" + s[1:]
	case '\t':
		return "&Tab;" + s[1:]
	}
	return s
}

func escapeTrailingSpaceTab(s string) string {
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case ' ':
		return s[:len(s)-1] + "&#32;"
	case '\t':
		return s[:len(s)-1] + "&Tab;"
	}
	return s
}

func escapeNewLines(s string) string { return strings.ReplaceAll(s, "\n", "&NewLine;") }

// entity writes r as a numeric character reference.
func entity(r rune) string { return "&#" + strconv.Itoa(int(r)) + ";" }

func startsWithSpaceOrTab(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\t')
}

func endsWithSpaceOrTab(s string) bool {
	return s != "" && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t')
}

// isWord takes the result of utf8.Decode* and reports whether the rune is a
// word character for emphasis flanking.
func isWord(r rune, l int) bool {
	return l > 0 && !unicode.IsSpace(r) && !util.IsPunctRune(r)
}

// isSpaceOrPunct reports whether a delimiter next to r is flanked as if by
// punctuation. Spaces count since they get escaped into entities.
func isSpaceOrPunct(r rune, l int) bool {
	return l > 0 && (unicode.IsSpace(r) || util.IsPunctRune(r))
}

const forbiddenInRawLinkDest = "\x00\x01\x02\x03\x04\x05\x06\x07\x08\x09\x0a\x0b\x0c\x0d\x0e\x0f" +
	"\x10\x11\x12\x13\x14\x15\x16\x17\x18\x19\x1a\x1b\x1c\x1d\x1e\x1f "

// formatLinkTail formats the (dest "title") part of a link or image.
func formatLinkTail(dest string, title string, hasTitle bool) string {
	var sb strings.Builder
	sb.WriteByte('(')
	switch {
	case strings.ContainsAny(dest, forbiddenInRawLinkDest) || !balancedParens(dest):
		sb.WriteString("<" + escapeNewLines(escapeAmpersandBackslash(dest, "<>")) + ">")
	case dest == "" && hasTitle:
		sb.WriteString("<>")
	default:
		escaped := escapeAmpersandBackslash(dest, "")
		if strings.HasPrefix(escaped, "<") {
			escaped = `\` + escaped
		}
		sb.WriteString(escaped)
	}
	if hasTitle {
		sb.WriteByte(' ')
		sb.WriteString(escapeNewLines(wrapAndEscapeLinkTitle(title)))
	}
	sb.WriteByte(')')
	return sb.String()
}

func balancedParens(s string) bool {
	balance := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			balance++
		case ')':
			if balance == 0 {
				return false
			}
			balance--
		}
	}
	return balance == 0
}

// wrapAndEscapeLinkTitle picks the title quotes that need the fewest
// escapes.
func wrapAndEscapeLinkTitle(title string) string {
	doubleQuotes := strings.Count(title, `"`)
	if doubleQuotes == 0 {
		return `"` + escapeAmpersandBackslash(title, "") + `"`
	}
	singleQuotes := strings.Count(title, "'")
	if singleQuotes == 0 {
		return "'" + escapeAmpersandBackslash(title, "") + "'"
	}
	parens := strings.Count(title, "(") + strings.Count(title, ")")
	if parens == 0 {
		return "(" + escapeAmpersandBackslash(title, "") + ")"
	}
	switch {
	case doubleQuotes <= singleQuotes && doubleQuotes <= parens:
		return `"` + escapeAmpersandBackslash(title, `"`) + `"`
	case singleQuotes <= parens:
		return "'" + escapeAmpersandBackslash(title, `'`) + "'"
	default:
		return "(" + escapeAmpersandBackslash(title, "()") + ")"
	}
}

// escapeAmpersandBackslash backslash-escapes backslashes, ampersands that
// start a character reference, and bytes in set.
func escapeAmpersandBackslash(s, set string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || strings.IndexByte(set, s[i]) >= 0 || charRefPattern.MatchString(s[i:]) {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// escapeAutolink escapes what an autolink cannot hold. Autolinks support
// character references but not backslash escapes.
func escapeAutolink(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c <= 0x20:
			sb.WriteString(entity(rune(c)))
		case c == '&' && charRefPattern.MatchString(s[i:]):
			sb.WriteString("&amp;")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// codeSpan wraps text in a backtick run one longer than the longest run
// inside it, padding with spaces when the text holds backticks or would lose
// its edge spaces.
func codeSpan(text string) string {
	longest := 0
	for _, run := range backtickRunPattern.FindAllString(text, -1) {
		longest = max(longest, len(run))
	}
	delim := strings.Repeat("`", longest+1)
	pad := longest > 0 ||
		(strings.HasPrefix(text, " ") && strings.HasSuffix(text, " ") && strings.Trim(text, " ") != "")
	if pad {
		return delim + " " + text + " " + delim
	}
	return delim + text + delim
}

// codeFences returns the fences of a code block: backticks at least three
// long and longer than any run in the body, tildes when the info string
// holds a backtick.
func codeFences(info, body string) (string, string) {
	fenceChar, pattern := "`", backtickRunPattern
	if strings.Contains(info, "`") {
		fenceChar, pattern = "~", tildeRunPattern
	}
	l := 3
	for _, run := range pattern.FindAllString(body, -1) {
		l = max(l, len(run)+1)
	}
	fence := strings.Repeat(fenceChar, l)
	if fenceChar == "~" && strings.HasPrefix(info, "~") {
		return fence + " " + escapeFenceInfo(info), fence
	}
	return fence + escapeFenceInfo(info), fence
}

func escapeFenceInfo(s string) string {
	if !strings.ContainsAny(s, "\\\n&") {
		return s
	}
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(" ")
		case r == '&' && charRefPattern.MatchString(s[i:]):
			sb.WriteString(`\&`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeCell formats table cell text: one line, pipes escaped, edge spaces
// kept as entities.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(escapeText(s), "|", `\|`)
	return escapeTrailingSpaceTab(escapeLeadingSpaceTab(s))
}
