package mddoc

import (
	"slices"
	"strings"

	"github.com/alnah/go-mddoc/internal/pipeline"
)

// postprocess restores what the preprocessor moved into side tables: image
// layout attributes and comment marks. The input tree is not modified.
func postprocess(doc *Node, comments map[int]string, images map[string]pipeline.ImageAttrs) *Node {
	if len(comments) == 0 && len(images) == 0 && !hasReserved(doc) {
		return doc
	}
	r := &resolver{
		comments: comments,
		images:   images,
		paired:   pairedComments(doc, comments),
	}
	return r.block(doc)
}

// resolver rebuilds a tree in document order. Open comments carry from one
// leaf to the next, so a span may cross marks and blocks.
type resolver struct {
	comments map[int]string
	images   map[string]pipeline.ImageAttrs
	paired   map[int]bool
	open     []int
}

func (r *resolver) block(n *Node) *Node {
	switch n.Type {
	case NodeCodeBlock, NodeTableHeader, NodeTableCell:
		return r.plain(n)
	}
	if len(n.Content) == 0 {
		return n
	}
	if n.Content[0].IsInline() {
		return n.withContent(mergeText(r.inline(n.Content)))
	}
	content := make([]*Node, len(n.Content))
	for i, c := range n.Content {
		content[i] = r.block(c)
	}
	return n.withContent(content)
}

// plain strips sentinels from a subtree that cannot carry comment marks,
// still tracking which comments open and close inside it.
func (r *resolver) plain(n *Node) *Node {
	if n.Type == NodeText {
		var sb strings.Builder
		r.scan(n.Text, func(s string) { sb.WriteString(s) })
		return &Node{Type: NodeText, Text: sb.String(), Marks: n.Marks}
	}
	if len(n.Content) == 0 {
		return n
	}
	content := make([]*Node, 0, len(n.Content))
	for _, c := range n.Content {
		c = r.plain(c)
		if c.Type == NodeText && c.Text == "" {
			continue
		}
		content = append(content, c)
	}
	return n.withContent(content)
}

func (r *resolver) inline(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		switch n.Type {
		case NodeText:
			r.scan(n.Text, func(s string) {
				out = append(out, &Node{Type: NodeText, Text: s, Marks: r.marks(n.Marks)})
			})
		case NodeImage:
			out = append(out, r.image(n))
		default:
			c := *n
			c.Marks = r.marks(n.Marks)
			out = append(out, &c)
		}
	}
	return out
}

// scan splits s at its sentinels and hands every non-empty segment to emit,
// updating the open comments in between. Only paired ids are honored; the
// other sentinels are dropped.
func (r *resolver) scan(s string, emit func(string)) {
	for {
		m, ok := pipeline.NextMarker(s)
		if !ok {
			break
		}
		if head := pipeline.StripReserved(s[:m.Pos]); head != "" {
			emit(head)
		}
		s = s[m.Pos+m.Len:]
		if !r.paired[m.ID] {
			continue
		}
		if m.End {
			if i := slices.Index(r.open, m.ID); i >= 0 {
				r.open = slices.Delete(r.open, i, i+1)
			}
			continue
		}
		r.open = append(r.open, m.ID)
	}
	if s = pipeline.StripReserved(s); s != "" {
		emit(s)
	}
}

// marks adds the innermost open comment to a mark set.
func (r *resolver) marks(marks []Mark) []Mark {
	if len(r.open) == 0 {
		return marks
	}
	id := r.open[len(r.open)-1]
	return addMark(marks, CommentMark(r.comments[id]))
}

func (r *resolver) image(n *Node) *Node {
	attrs := map[string]any{}
	for _, key := range []string{"alt", "title"} {
		if s, ok := n.AttrString(key); ok && pipeline.ContainsReserved(s) {
			attrs[key] = pipeline.StripReserved(pipeline.StripMarkers(s))
		}
	}
	src, _ := n.AttrString("src")
	if layout, ok := r.images[src]; ok {
		attrs["align"] = layout.Align
		attrs["width"] = layout.Width
	}
	img := n
	if len(attrs) > 0 {
		img = n.withAttrs(attrs)
	}
	if len(r.open) > 0 {
		if img == n {
			c := *n
			img = &c
		}
		img.Marks = r.marks(n.Marks)
	}
	return img
}

// pairedComments returns the ids whose start sentinel is followed by the
// matching end sentinel somewhere in the document.
func pairedComments(doc *Node, comments map[int]string) map[int]bool {
	started := make(map[int]bool)
	paired := make(map[int]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == NodeText {
			for _, m := range pipeline.Markers(n.Text) {
				if _, known := comments[m.ID]; !known {
					continue
				}
				if !m.End {
					started[m.ID] = true
				} else if started[m.ID] {
					paired[m.ID] = true
				}
			}
			return
		}
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(doc)
	return paired
}

func hasReserved(n *Node) bool {
	if pipeline.ContainsReserved(n.Text) {
		return true
	}
	if n.Type == NodeImage {
		for _, key := range []string{"alt", "title"} {
			if s, ok := n.AttrString(key); ok && pipeline.ContainsReserved(s) {
				return true
			}
		}
	}
	return slices.ContainsFunc(n.Content, hasReserved)
}

// mergeText joins adjacent text nodes with equal mark sets.
func mergeText(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if last := len(out) - 1; last >= 0 && n.Type == NodeText && out[last].Type == NodeText &&
			sameMarks(out[last].Marks, n.Marks) {
			out[last] = &Node{Type: NodeText, Text: out[last].Text + n.Text, Marks: n.Marks}
			continue
		}
		out = append(out, n)
	}
	return out
}
