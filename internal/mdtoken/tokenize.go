package mdtoken

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Tokenizer turns markdown source into a flat token stream.
// It is safe for concurrent use.
type Tokenizer struct {
	md goldmark.Markdown
}

// New creates a Tokenizer for CommonMark plus GFM pipe tables and
// strikethrough. Autolink literals and task lists stay disabled: they are
// not part of the supported dialect and would not survive a round trip.
func New() *Tokenizer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
		),
	)
	return &Tokenizer{md: md}
}

// Tokenize parses src and returns its token stream.
func (t *Tokenizer) Tokenize(src string) []Token {
	source := []byte(src)
	root := t.md.Parser().Parse(text.NewReader(source))
	w := &walker{source: source, starts: lineStarts(source)}
	w.children(root, 0)
	return w.out
}

// walker accumulates tokens while visiting the goldmark AST.
type walker struct {
	source []byte
	starts []int
	out    []Token
}

func (w *walker) emit(tok Token) {
	w.out = append(w.out, tok)
}

func (w *walker) children(n ast.Node, level int) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.block(c, level)
	}
}

func (w *walker) block(n ast.Node, level int) {
	switch n := n.(type) {
	case *ast.Paragraph:
		w.leaf(TypeParagraphOpen, TypeParagraphClose, "p", n, level, false)
	case *ast.TextBlock:
		w.leaf(TypeParagraphOpen, TypeParagraphClose, "p", n, level, true)
	case *ast.Heading:
		w.leaf(TypeHeadingOpen, TypeHeadingClose, "h"+strconv.Itoa(n.Level), n, level, false)
	case *ast.ThematicBreak:
		w.emit(Token{Type: TypeHR, Tag: "hr", Level: level, Lines: w.span(n)})
	case *ast.CodeBlock:
		w.emit(Token{
			Type:    TypeCodeBlock,
			Tag:     "code",
			Level:   level,
			Lines:   w.span(n),
			Content: w.rawLines(n),
		})
	case *ast.FencedCodeBlock:
		var info string
		if n.Info != nil {
			info = strings.TrimSpace(Unescape(n.Info.Segment.Value(w.source)))
		}
		w.emit(Token{
			Type:    TypeFence,
			Tag:     "code",
			Level:   level,
			Lines:   w.span(n),
			Content: w.rawLines(n),
			Info:    info,
		})
	case *ast.HTMLBlock:
		w.emit(Token{
			Type:    TypeHTMLBlock,
			Level:   level,
			Lines:   w.span(n),
			Content: w.rawLines(n),
		})
	case *ast.Blockquote:
		w.container(TypeBlockquoteOpen, TypeBlockquoteClose, "blockquote", nil, n, level, false)
	case *ast.List:
		if n.IsOrdered() {
			attrs := map[string]string{"start": strconv.Itoa(n.Start)}
			w.container(TypeOrderedOpen, TypeOrderedClose, "ol", attrs, n, level, n.IsTight)
			return
		}
		w.container(TypeBulletListOpen, TypeBulletListClose, "ul", nil, n, level, n.IsTight)
	case *ast.ListItem:
		w.container(TypeListItemOpen, TypeListItemClose, "li", nil, n, level, false)
	case *east.Table:
		w.table(n, level)
	default:
		w.children(n, level)
	}
}

// leaf emits an open/inline/close triple for a block holding inline content.
func (w *walker) leaf(open, closing, tag string, n ast.Node, level int, hidden bool) {
	lines := w.span(n)
	w.emit(Token{Type: open, Tag: tag, Nesting: Open, Level: level, Lines: lines, Hidden: hidden})
	w.emit(Token{
		Type:     TypeInline,
		Level:    level + 1,
		Lines:    lines,
		Content:  strings.TrimSpace(w.rawLines(n)),
		Children: w.inlines(n, 0),
	})
	w.emit(Token{Type: closing, Tag: tag, Nesting: Close, Level: level, Hidden: hidden})
}

func (w *walker) container(open, closing, tag string, attrs map[string]string, n ast.Node, level int, hidden bool) {
	w.emit(Token{Type: open, Tag: tag, Nesting: Open, Level: level, Lines: w.span(n), Attrs: attrs, Hidden: hidden})
	w.children(n, level+1)
	w.emit(Token{Type: closing, Tag: tag, Nesting: Close, Level: level})
}

func (w *walker) table(n *east.Table, level int) {
	lines := w.span(n)
	if lines != nil {
		// the delimiter row always follows the header line
		lines.End = w.extendTable(max(lines.End, lines.Start+2))
	}
	w.emit(Token{Type: TypeTableOpen, Tag: "table", Nesting: Open, Level: level, Lines: lines})

	bodyOpen := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *east.TableHeader:
			w.emit(Token{Type: TypeTheadOpen, Tag: "thead", Nesting: Open, Level: level + 1})
			w.row(row, TypeTHOpen, TypeTHClose, "th", level+2)
			w.emit(Token{Type: TypeTheadClose, Tag: "thead", Nesting: Close, Level: level + 1})
		case *east.TableRow:
			if !bodyOpen {
				w.emit(Token{Type: TypeTbodyOpen, Tag: "tbody", Nesting: Open, Level: level + 1})
				bodyOpen = true
			}
			w.row(row, TypeTDOpen, TypeTDClose, "td", level+2)
		}
	}
	if bodyOpen {
		w.emit(Token{Type: TypeTbodyClose, Tag: "tbody", Nesting: Close, Level: level + 1})
	}

	w.emit(Token{Type: TypeTableClose, Tag: "table", Nesting: Close, Level: level})
}

func (w *walker) row(n ast.Node, open, closing, tag string, level int) {
	w.emit(Token{Type: TypeTROpen, Tag: "tr", Nesting: Open, Level: level, Lines: w.span(n)})
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cell, ok := c.(*east.TableCell)
		if !ok {
			continue
		}
		var attrs map[string]string
		if cell.Alignment != east.AlignNone {
			attrs = map[string]string{"align": cell.Alignment.String()}
		}
		w.emit(Token{Type: open, Tag: tag, Nesting: Open, Level: level + 1, Attrs: attrs})
		w.emit(Token{
			Type:     TypeInline,
			Level:    level + 2,
			Lines:    w.span(cell),
			Content:  w.rawLines(cell),
			Children: w.inlines(cell, 0),
		})
		w.emit(Token{Type: closing, Tag: tag, Nesting: Close, Level: level + 1})
	}
	w.emit(Token{Type: TypeTRClose, Tag: "tr", Nesting: Close, Level: level})
}

// extendTable moves a table's end line past trailing rows made only of
// pipes. Such rows parse into padded cells that carry no source segment.
func (w *walker) extendTable(end int) int {
	end = min(end, len(w.starts))
	for end < len(w.starts) {
		line := strings.TrimSpace(w.line(end))
		if line != "|" && line != "||" {
			break
		}
		end++
	}
	return end
}

func (w *walker) inlines(parent ast.Node, level int) []Token {
	var out []Token
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = w.inline(out, c, level)
	}
	return out
}

func (w *walker) inline(out []Token, n ast.Node, level int) []Token {
	switch n := n.(type) {
	case *ast.Text:
		value := n.Value(w.source)
		var content string
		if n.IsRaw() {
			content = string(value)
		} else {
			content = Unescape(value)
		}
		if content != "" {
			out = append(out, Token{Type: TypeText, Level: level, Content: content})
		}
		switch {
		case n.HardLineBreak():
			out = append(out, Token{Type: TypeHardbreak, Tag: "br", Level: level})
		case n.SoftLineBreak():
			out = append(out, Token{Type: TypeSoftbreak, Level: level})
		}
	case *ast.String:
		content := string(n.Value)
		if !n.IsRaw() && !n.IsCode() {
			content = Unescape(n.Value)
		}
		if content != "" {
			out = append(out, Token{Type: TypeText, Level: level, Content: content})
		}
	case *ast.CodeSpan:
		out = append(out, Token{Type: TypeCodeInline, Tag: "code", Level: level, Content: w.codeSpan(n)})
	case *ast.Emphasis:
		typ, tag := "em", "em"
		if n.Level >= 2 {
			typ, tag = "strong", "strong"
		}
		out = append(out, Token{Type: typ + "_open", Tag: tag, Nesting: Open, Level: level})
		out = append(out, w.inlines(n, level+1)...)
		out = append(out, Token{Type: typ + "_close", Tag: tag, Nesting: Close, Level: level})
	case *east.Strikethrough:
		out = append(out, Token{Type: TypeStrikeOpen, Tag: "s", Nesting: Open, Level: level})
		out = append(out, w.inlines(n, level+1)...)
		out = append(out, Token{Type: TypeStrikeClose, Tag: "s", Nesting: Close, Level: level})
	case *ast.Link:
		attrs := map[string]string{"href": Unescape(n.Destination)}
		if len(n.Title) > 0 {
			attrs["title"] = Unescape(n.Title)
		}
		out = append(out, Token{Type: TypeLinkOpen, Tag: "a", Nesting: Open, Level: level, Attrs: attrs})
		out = append(out, w.inlines(n, level+1)...)
		out = append(out, Token{Type: TypeLinkClose, Tag: "a", Nesting: Close, Level: level})
	case *ast.AutoLink:
		href := string(n.URL(w.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		attrs := map[string]string{"href": href}
		out = append(out, Token{Type: TypeLinkOpen, Tag: "a", Nesting: Open, Level: level, Attrs: attrs, Info: "auto"})
		out = append(out, Token{Type: TypeText, Level: level + 1, Content: string(n.Label(w.source))})
		out = append(out, Token{Type: TypeLinkClose, Tag: "a", Nesting: Close, Level: level, Info: "auto"})
	case *ast.Image:
		attrs := map[string]string{"src": Unescape(n.Destination)}
		if len(n.Title) > 0 {
			attrs["title"] = Unescape(n.Title)
		}
		children := w.inlines(n, 0)
		out = append(out, Token{
			Type:     TypeImage,
			Tag:      "img",
			Level:    level,
			Attrs:    attrs,
			Content:  plainText(children),
			Children: children,
		})
	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(w.source))
		}
		out = append(out, Token{Type: TypeHTMLInline, Level: level, Content: sb.String()})
	default:
		out = append(out, w.inlines(n, level)...)
	}
	return out
}

// codeSpan joins the raw segments of a code span. Line endings inside the
// span count as spaces.
func (w *walker) codeSpan(n *ast.CodeSpan) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(w.source))
		}
	}
	return strings.ReplaceAll(sb.String(), "\n", " ")
}

func (w *walker) rawLines(n ast.Node) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	return sb.String()
}

// span returns the line range covered by every segment under n, or nil when
// n and its descendants carry no segment.
func (w *walker) span(n ast.Node) *LineRange {
	var r *LineRange
	include := func(start, stop int) {
		first := w.lineOf(start)
		last := first
		if stop > start {
			last = w.lineOf(stop - 1)
		}
		if r == nil {
			r = &LineRange{Start: first, End: last + 1}
			return
		}
		r.Start = min(r.Start, first)
		r.End = max(r.End, last+1)
	}
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c.Type() == ast.TypeBlock {
			lines := c.Lines()
			for i := 0; lines != nil && i < lines.Len(); i++ {
				seg := lines.At(i)
				include(seg.Start, seg.Stop)
			}
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			include(t.Segment.Start, t.Segment.Stop)
		}
		return ast.WalkContinue, nil
	})
	return r
}

func (w *walker) lineOf(offset int) int {
	return sort.Search(len(w.starts), func(i int) bool { return w.starts[i] > offset }) - 1
}

func (w *walker) line(i int) string {
	start := w.starts[i]
	end := len(w.source)
	if i+1 < len(w.starts) {
		end = w.starts[i+1]
	}
	return string(w.source[start:end])
}

// lineStarts returns the byte offset of every line start in source.
func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func plainText(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		switch t.Type {
		case TypeText, TypeCodeInline:
			sb.WriteString(t.Content)
		case TypeSoftbreak, TypeHardbreak:
			sb.WriteByte('\n')
		case TypeImage:
			sb.WriteString(t.Content)
		}
	}
	return sb.String()
}
