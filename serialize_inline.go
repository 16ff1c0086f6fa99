package mddoc

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-mddoc/internal/pipeline"
	"golang.org/x/net/html"
)

type pieceKind int

const (
	pieceText pieceKind = iota
	pieceOpen
	pieceClose
	pieceAtom
	pieceNewline
	pieceBreak
)

// piece is a unit of inline output. Text pieces hold raw text, escaped once
// their neighbours are known; the others are written as is.
type piece struct {
	kind pieceKind
	text string
}

// inlineWriter lays out the inline content of one block.
type inlineWriter struct {
	nodes   []*Node
	pieces  []piece
	active  []Mark
	heading bool
}

func (s *serializerState) inline(nodes []*Node, heading bool) string {
	w := &inlineWriter{nodes: mergeText(nodes), heading: heading}
	for i := range w.nodes {
		w.node(i)
	}
	w.closeFrom(0)
	return w.render()
}

func (w *inlineWriter) emit(kind pieceKind, text string) {
	w.pieces = append(w.pieces, piece{kind: kind, text: text})
}

func (w *inlineWriter) node(i int) {
	n := w.nodes[i]
	target := removeMark(n.Marks, MarkCode)
	if w.sync(i, target) {
		return
	}

	switch n.Type {
	case NodeText:
		if _, code := n.MarkOf(MarkCode); code {
			w.emit(pieceAtom, codeSpan(strings.ReplaceAll(n.Text, "\n", " ")))
			return
		}
		for j, line := range strings.Split(n.Text, "\n") {
			if j > 0 {
				w.emit(pieceNewline, "")
			}
			if line != "" {
				w.emit(pieceText, line)
			}
		}
	case NodeHardBreak:
		if i+1 < len(w.nodes) && w.nodes[i+1].Type != NodeHardBreak {
			w.emit(pieceBreak, "")
		}
	case NodeImage:
		w.emit(pieceAtom, image(n))
	default:
		if text := TextContent(n); text != "" {
			w.emit(pieceText, text)
		}
	}
}

// sync closes the active marks the node does not carry and opens the ones
// it adds. A comment is always the outermost mark, so opening one closes
// everything. New marks open in the order of how long they last. It reports
// whether the node was written as an autolink.
func (w *inlineWriter) sync(i int, target []Mark) bool {
	keep := 0
	for keep < len(w.active) && slices.ContainsFunc(target, w.active[keep].Eq) {
		keep++
	}
	if c, ok := markOf(target, MarkComment); ok && keep > 0 && !w.active[0].Eq(c) {
		keep = 0
	}
	w.closeFrom(keep)

	var opening []Mark
	for _, m := range target {
		if !slices.ContainsFunc(w.active, m.Eq) {
			opening = append(opening, m)
		}
	}
	slices.SortStableFunc(opening, func(a, b Mark) int {
		if a.Type == MarkComment || b.Type == MarkComment {
			return markRank[a.Type] - markRank[b.Type]
		}
		return w.persistence(i, b) - w.persistence(i, a)
	})

	for j, m := range opening {
		if m.Type == MarkLink && j == len(opening)-1 && w.autolink(i, m) {
			return true
		}
		w.open(m)
	}
	return false
}

// persistence counts the siblings from i on that carry m.
func (w *inlineWriter) persistence(i int, m Mark) int {
	n := 0
	for ; i < len(w.nodes) && w.nodes[i].HasMark(m); i++ {
		n++
	}
	return n
}

// autolink writes node i as <href> when the link covers exactly that
// text: no title, a scheme, no inner marks, no neighbour in the same link.
func (w *inlineWriter) autolink(i int, link Mark) bool {
	n := w.nodes[i]
	href, _ := stringAttr(link.Attrs, "href")
	if title, ok := stringAttr(link.Attrs, "title"); ok && title != "" {
		return false
	}
	if n.Type != NodeText || n.Text != href || !autolinkScheme.MatchString(href) {
		return false
	}
	if _, code := n.MarkOf(MarkCode); code {
		return false
	}
	if i > 0 && w.nodes[i-1].HasMark(link) || i+1 < len(w.nodes) && w.nodes[i+1].HasMark(link) {
		return false
	}
	w.emit(pieceAtom, "<"+escapeAutolink(href)+">")
	return true
}

func (w *inlineWriter) open(m Mark) {
	switch m.Type {
	case MarkComment:
		text, _ := stringAttr(m.Attrs, "text")
		w.emit(pieceAtom, pipeline.CommentOpen(text))
	case MarkLink:
		w.emit(pieceAtom, "[")
	case MarkEm:
		w.emit(pieceOpen, "*")
	case MarkStrong:
		w.emit(pieceOpen, "**")
	case MarkStrike:
		w.emit(pieceOpen, "~~")
	}
	w.active = append(w.active, m)
}

// closeFrom closes the active marks from index keep on, innermost first.
func (w *inlineWriter) closeFrom(keep int) {
	for j := len(w.active) - 1; j >= keep; j-- {
		m := w.active[j]
		switch m.Type {
		case MarkComment:
			w.emit(pieceAtom, pipeline.CommentClose)
		case MarkLink:
			href, _ := stringAttr(m.Attrs, "href")
			title, hasTitle := stringAttr(m.Attrs, "title")
			w.emit(pieceAtom, "]"+formatLinkTail(href, title, hasTitle))
		case MarkEm:
			w.emit(pieceClose, "*")
		case MarkStrong:
			w.emit(pieceClose, "**")
		case MarkStrike:
			w.emit(pieceClose, "~~")
		}
	}
	w.active = w.active[:keep]
}

func markOf(marks []Mark, typ MarkType) (Mark, bool) {
	for _, m := range marks {
		if m.Type == typ {
			return m, true
		}
	}
	return Mark{}, false
}

// image writes markdown image syntax, or an <img> tag when the layout
// differs from the defaults.
func image(n *Node) string {
	src, _ := n.AttrString("src")
	if rel, ok := n.AttrString("relativeSrc"); ok && rel != "" {
		src = rel
	}
	alt, hasAlt := n.AttrString("alt")
	title, hasTitle := n.AttrString("title")
	align, _ := n.AttrString("align")
	align = pipeline.NormalizeAlign(align)
	width := pipeline.ClampWidth(n.AttrInt("width", DefaultWidth))

	if align == DefaultAlign && width == DefaultWidth {
		return "![" + escapeNewLines(escapeText(alt)) + "]" + formatLinkTail(src, title, hasTitle)
	}

	var sb strings.Builder
	sb.WriteString(`<img src="` + html.EscapeString(src) + `"`)
	if hasAlt {
		sb.WriteString(` alt="` + html.EscapeString(alt) + `"`)
	}
	if hasTitle {
		sb.WriteString(` title="` + html.EscapeString(title) + `"`)
	}
	if align != DefaultAlign {
		sb.WriteString(` align="` + align + `"`)
	}
	if width != DefaultWidth {
		sb.WriteString(` width="` + strconv.Itoa(width) + `%"`)
	}
	sb.WriteString(">")
	return sb.String()
}

func (w *inlineWriter) render() string {
	var sb strings.Builder
	for i, p := range w.pieces {
		switch p.kind {
		case pieceText:
			sb.WriteString(w.text(i))
		case pieceNewline:
			if w.heading || w.lineEdge(i) {
				sb.WriteString("&NewLine;")
			} else {
				sb.WriteString("\n")
			}
		case pieceBreak:
			// Trailing spaces on an otherwise empty line do not break.
			switch {
			case w.heading:
			case i == 0 || isLineBreak(w.pieces[i-1].kind):
				sb.WriteString("\\\n")
			default:
				sb.WriteString("  \n")
			}
		default:
			sb.WriteString(p.text)
		}
	}
	return sb.String()
}

// lineEdge reports whether a newline at i would leave an empty line or
// separate a delimiter from its content.
func (w *inlineWriter) lineEdge(i int) bool {
	if i == 0 || i == len(w.pieces)-1 {
		return true
	}
	prev, next := w.pieces[i-1].kind, w.pieces[i+1].kind
	return prev == pieceNewline || prev == pieceBreak || prev == pieceOpen || next == pieceClose
}

func (w *inlineWriter) at(i int) piece {
	if i < 0 || i >= len(w.pieces) {
		return piece{kind: -1}
	}
	return w.pieces[i]
}

// text escapes the text piece at i. Spaces and word characters next to
// delimiters are written as character references where a delimiter would
// otherwise fail to open or close.
func (w *inlineWriter) text(i int) string {
	s := w.pieces[i].text
	prev, next := w.at(i-1), w.at(i+1)

	var lead, trail string
	switch {
	case prev.kind == pieceOpen:
		if r, l := utf8.DecodeRuneInString(s); l > 0 && unicode.IsSpace(r) {
			lead, s = entity(r), s[l:]
		}
	case prev.kind == pieceClose && w.endsWithPunct(i-1):
		if r, l := utf8.DecodeRuneInString(s); isWord(r, l) {
			lead, s = entity(r), s[l:]
		}
	}
	switch {
	case s == "":
	case next.kind == pieceClose:
		if r, l := utf8.DecodeLastRuneInString(s); l > 0 && unicode.IsSpace(r) {
			s, trail = s[:len(s)-l], entity(r)
		}
	case next.kind == pieceOpen && w.startsWithPunct(i+1):
		if r, l := utf8.DecodeLastRuneInString(s); isWord(r, l) {
			s, trail = s[:len(s)-l], entity(r)
		}
	case next.kind == pieceAtom && strings.HasPrefix(next.text, "[") && strings.HasSuffix(s, "!"):
		s, trail = s[:len(s)-1], `\!`
	}

	body := escapeText(s)
	startOfLine := lead == "" && (i == 0 || !w.heading && isLineBreak(prev.kind))
	endOfLine := trail == "" && (i == len(w.pieces)-1 || !w.heading && isLineBreak(next.kind))
	if endOfLine {
		body = escapeTrailingSpaceTab(body)
		if w.heading {
			body = escapeHeadingEnd(body, i == 0)
		}
	}
	if startOfLine {
		if w.heading {
			body = escapeLeadingSpaceTab(body)
		} else {
			body = escapeStartOfLine(body, w.firstLine(i), endOfLine)
		}
	}
	return lead + body + trail
}

func isLineBreak(k pieceKind) bool {
	return k == pieceNewline || k == pieceBreak
}

// firstLine reports whether piece i sits on the first line of the block.
func (w *inlineWriter) firstLine(i int) bool {
	return !slices.ContainsFunc(w.pieces[:i], func(p piece) bool { return isLineBreak(p.kind) })
}

// endsWithPunct reports whether the output before the closing delimiter at
// i ends with punctuation, which keeps it from closing before a word.
// Delimiters of the same character form one run and are skipped.
func (w *inlineWriter) endsWithPunct(i int) bool {
	c := w.pieces[i].text[0]
	for i >= 0 && w.pieces[i].kind == pieceClose && w.pieces[i].text[0] == c {
		i--
	}
	p := w.at(i)
	if p.kind != pieceText {
		return true
	}
	return isSpaceOrPunct(utf8.DecodeLastRuneInString(p.text))
}

// startsWithPunct reports whether the output after the opening delimiter at
// i starts with punctuation, which keeps it from opening after a word.
func (w *inlineWriter) startsWithPunct(i int) bool {
	c := w.pieces[i].text[0]
	for i < len(w.pieces) && w.pieces[i].kind == pieceOpen && w.pieces[i].text[0] == c {
		i++
	}
	p := w.at(i)
	if p.kind != pieceText {
		return true
	}
	return isSpaceOrPunct(utf8.DecodeRuneInString(p.text))
}
