package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Image layout defaults. Images carrying only defaults are written as plain
// markdown.
const (
	DefaultAlign = "inline"
	DefaultWidth = 100
)

// The <img> scraper is deliberately narrow: one tag, flat attributes.
var (
	imgTagPattern  = regexp.MustCompile(`(?i)<img\b((?:[^>"']|"[^"]*"|'[^']*')*)/?>`)
	imgAttrPattern = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)
	widthPattern   = regexp.MustCompile(`^\s*(\d+)\s*%?\s*$`)
)

// ImageAttrs holds the layout attributes markdown image syntax cannot carry.
type ImageAttrs struct {
	Align string
	Width int
}

// IsDefault reports whether the attributes match plain markdown rendering.
func (a ImageAttrs) IsDefault() bool {
	return a.Align == DefaultAlign && a.Width == DefaultWidth
}

// NormalizeAlign maps an align value to left, center, right or inline.
func NormalizeAlign(v string) string {
	switch a := strings.ToLower(strings.TrimSpace(v)); a {
	case "left", "center", "right":
		return a
	default:
		return DefaultAlign
	}
}

// ParseWidth reads "50" or "50%" and clamps the result to 1..100.
// Unparsable values yield the default width.
func ParseWidth(v string) int {
	m := widthPattern.FindStringSubmatch(v)
	if m == nil {
		return DefaultWidth
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultWidth
	}
	return ClampWidth(n)
}

// ClampWidth limits a width percentage to 1..100.
func ClampWidth(n int) int {
	return max(1, min(100, n))
}

// parseImgAttrs returns the lower-cased attributes of an <img> tag body.
func parseImgAttrs(body string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range imgAttrPattern.FindAllStringSubmatch(body, -1) {
		name := strings.ToLower(m[1])
		if _, seen := attrs[name]; seen {
			continue
		}
		val := m[2] + m[3] + m[4]
		attrs[name] = html.UnescapeString(val)
	}
	return attrs
}

// extractImages rewrites <img> tags as markdown images and returns the
// layout attributes of the non-default ones, keyed by src. Tags without a
// src are left untouched.
func extractImages(content string) (string, map[string]ImageAttrs) {
	if !strings.Contains(strings.ToLower(content), "<img") {
		return content, nil
	}
	images := make(map[string]ImageAttrs)
	out := replaceOutside(content, imgTagPattern, func(m []int) (string, bool) {
		attrs := parseImgAttrs(content[m[2]:m[3]])
		src := attrs["src"]
		if src == "" {
			return "", false
		}

		align := attrs["align"]
		if align == "" {
			align = attrs["data-align"]
		}
		width := attrs["width"]
		if width == "" {
			width = attrs["data-width"]
		}
		layout := ImageAttrs{Align: NormalizeAlign(align), Width: DefaultWidth}
		if width != "" {
			layout.Width = ParseWidth(width)
		}
		if !layout.IsDefault() {
			images[src] = layout
		}

		title, hasTitle := attrs["title"]
		return MarkdownImage(attrs["alt"], src, title, hasTitle), true
	})
	if len(images) == 0 {
		images = nil
	}
	return out, images
}

// MarkdownImage formats ![alt](src "title"). The title is omitted unless
// hasTitle is set.
func MarkdownImage(alt, src, title string, hasTitle bool) string {
	var sb strings.Builder
	sb.WriteString("![")
	sb.WriteString(escapePunct(alt))
	sb.WriteString("](")
	sb.WriteString(LinkDestination(src))
	if hasTitle {
		sb.WriteString(` "`)
		sb.WriteString(escapePunct(title))
		sb.WriteByte('"')
	}
	sb.WriteByte(')')
	return sb.String()
}

// LinkDestination formats a link or image destination, switching to the
// angle bracket form when the plain form cannot hold it.
func LinkDestination(dest string) string {
	if dest == "" || strings.ContainsAny(dest, " \t\n<>") || !balancedParens(dest) {
		r := strings.NewReplacer(`\`, `\\`, "<", `\<`, ">", `\>`, "\n", " ")
		return "<" + r.Replace(dest) + ">"
	}
	r := strings.NewReplacer(`\`, `\\`, "&", `\&`)
	return r.Replace(dest)
}

func balancedParens(s string) bool {
	depth := 0
	for _, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// escapePunct backslash-escapes ASCII punctuation so the text reads back
// literally as link text or title.
func escapePunct(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0 {
			sb.WriteByte('\\')
		}
		if c == '\n' {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
