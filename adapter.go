package mddoc

import (
	"strconv"
	"strings"

	"github.com/alnah/go-mddoc/internal/mdtoken"
)

// tokenSpec says what the adapter builds for a token type. Token types are
// looked up without their _open/_close suffix.
type tokenSpec struct {
	block NodeType
	node  NodeType
	mark  MarkType

	// noClose marks tokens that carry their content instead of an
	// open/close pair (fences, code blocks, inline code).
	noClose bool
	ignore  bool

	attrs func(tokens []mdtoken.Token, i int) map[string]any
}

var tokenSpecs = map[string]tokenSpec{
	"paragraph":    {block: NodeParagraph},
	"heading":      {block: NodeHeading, attrs: headingAttrs},
	"blockquote":   {block: NodeBlockquote},
	"bullet_list":  {block: NodeBulletList, attrs: bulletListAttrs},
	"ordered_list": {block: NodeOrderedList, attrs: orderedListAttrs},
	"list_item":    {block: NodeListItem},
	"code_block":   {block: NodeCodeBlock, noClose: true},
	"fence":        {block: NodeCodeBlock, noClose: true, attrs: fenceAttrs},
	"hr":           {node: NodeHorizontalRule},
	"image":        {node: NodeImage, attrs: imageAttrs},
	"hardbreak":    {node: NodeHardBreak},
	"em":           {mark: MarkEm},
	"strong":       {mark: MarkStrong},
	"s":            {mark: MarkStrike},
	"link":         {mark: MarkLink, attrs: linkAttrs},
	"code_inline":  {mark: MarkCode, noClose: true},
	"html_block":   {ignore: true},
	"html_inline":  {ignore: true},
}

func headingAttrs(tokens []mdtoken.Token, i int) map[string]any {
	level, err := strconv.Atoi(strings.TrimPrefix(tokens[i].Tag, "h"))
	if err != nil {
		level = 1
	}
	return map[string]any{"level": level}
}

func bulletListAttrs(tokens []mdtoken.Token, i int) map[string]any {
	return map[string]any{"tight": listIsTight(tokens, i)}
}

func orderedListAttrs(tokens []mdtoken.Token, i int) map[string]any {
	order := 1
	if start, ok := tokens[i].Attr("start"); ok {
		if n, err := strconv.Atoi(start); err == nil {
			order = n
		}
	}
	return map[string]any{"order": order, "tight": listIsTight(tokens, i)}
}

// listIsTight reads the tightness the tokenizer flags on list openers.
func listIsTight(tokens []mdtoken.Token, i int) bool {
	return tokens[i].Hidden
}

func fenceAttrs(tokens []mdtoken.Token, i int) map[string]any {
	return map[string]any{"language": tokens[i].Info}
}

func imageAttrs(tokens []mdtoken.Token, i int) map[string]any {
	tok := tokens[i]
	src, _ := tok.Attr("src")
	attrs := map[string]any{"src": src, "alt": nil, "title": nil}
	if tok.Content != "" {
		attrs["alt"] = tok.Content
	}
	if title, ok := tok.Attr("title"); ok && title != "" {
		attrs["title"] = title
	}
	return attrs
}

func linkAttrs(tokens []mdtoken.Token, i int) map[string]any {
	href, _ := tokens[i].Attr("href")
	title, _ := tokens[i].Attr("title")
	return LinkMark(href, title).Attrs
}

// frame is a node under construction.
type frame struct {
	typ     NodeType
	attrs   map[string]any
	content []*Node
}

// builder turns a token stream into nodes. Marks open while inline tokens
// are consumed apply to every inline node added.
type builder struct {
	stack []*frame
	marks []Mark
}

// adapt builds the block nodes of a token stream. Top-level table ranges
// with a known line span are skipped: the assembler splits them out of the
// source. Other tables, nested ones included, are extracted in place.
func adapt(tokens []mdtoken.Token) []*Node {
	b := &builder{stack: []*frame{{typ: NodeDoc}}}
	b.run(tokens)
	for len(b.stack) > 1 {
		b.close()
	}
	return b.stack[0].content
}

func (b *builder) run(tokens []mdtoken.Token) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type == mdtoken.TypeTableOpen {
			end := tableEnd(tokens, i)
			if tok.Level > 0 || tok.Lines == nil {
				if table := extractTable(tokens[i : end+1]); table != nil {
					b.add(table)
				}
			}
			i = end
			continue
		}
		b.token(tokens, i)
	}
}

func (b *builder) token(tokens []mdtoken.Token, i int) {
	tok := tokens[i]
	switch tok.Type {
	case mdtoken.TypeInline:
		b.run(tok.Children)
		return
	case mdtoken.TypeText:
		b.addText(tok.Content)
		return
	case mdtoken.TypeSoftbreak:
		b.addText("\n")
		return
	}

	name := strings.TrimSuffix(strings.TrimSuffix(tok.Type, "_open"), "_close")
	spec, ok := tokenSpecs[name]
	if !ok || spec.ignore {
		return
	}
	var attrs map[string]any
	if spec.attrs != nil && tok.Nesting != mdtoken.Close {
		attrs = spec.attrs(tokens, i)
	}

	switch {
	case spec.block != "" && spec.noClose:
		b.open(spec.block, attrs)
		b.addText(strings.TrimSuffix(tok.Content, "\n"))
		b.close()
	case spec.block != "" && tok.Nesting == mdtoken.Open:
		b.open(spec.block, attrs)
	case spec.block != "":
		b.close()
	case spec.node != "":
		n := NewNode(spec.node, attrs)
		if n.IsInline() {
			n.Marks = b.marks
		}
		b.add(n)
	case spec.mark != "" && spec.noClose:
		m := Mark{Type: spec.mark, Attrs: attrs}
		b.openMark(m)
		b.addText(tok.Content)
		b.closeMark(m.Type)
	case spec.mark != "" && tok.Nesting == mdtoken.Open:
		b.openMark(Mark{Type: spec.mark, Attrs: attrs})
	case spec.mark != "":
		b.closeMark(spec.mark)
	}
}

func (b *builder) top() *frame {
	return b.stack[len(b.stack)-1]
}

func (b *builder) open(typ NodeType, attrs map[string]any) {
	b.stack = append(b.stack, &frame{typ: typ, attrs: attrs})
}

func (b *builder) close() {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	b.marks = nil
	b.add(NewNode(f.typ, f.attrs, f.content...))
}

func (b *builder) add(n *Node) {
	f := b.top()
	f.content = append(f.content, n)
}

// addText appends text with the current marks, merging into the previous
// text node when the mark sets match.
func (b *builder) addText(text string) {
	if text == "" {
		return
	}
	f := b.top()
	if last := len(f.content) - 1; last >= 0 {
		prev := f.content[last]
		if prev.Type == NodeText && sameMarks(prev.Marks, b.marks) {
			f.content[last] = &Node{Type: NodeText, Text: prev.Text + text, Marks: prev.Marks}
			return
		}
	}
	f.content = append(f.content, &Node{Type: NodeText, Text: text, Marks: b.marks})
}

func (b *builder) openMark(m Mark) {
	b.marks = addMark(b.marks, m)
}

func (b *builder) closeMark(typ MarkType) {
	b.marks = removeMark(b.marks, typ)
}

// tableEnd returns the index of the table_close matching tokens[i].
func tableEnd(tokens []mdtoken.Token, i int) int {
	level := tokens[i].Level
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].Type == mdtoken.TypeTableClose && tokens[j].Level == level {
			return j
		}
	}
	return len(tokens) - 1
}
