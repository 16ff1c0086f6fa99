package pipeline

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FinishOptions carries the side tables of a Preprocess call into the HTML
// stage.
type FinishOptions struct {
	Comments map[int]string
	Images   map[string]ImageAttrs

	// SourceDir enables rewriting relative paths to file:// URLs.
	SourceDir string
}

// FinishHTML completes HTML rendered from preprocessed markdown:
//   - text between comment sentinels is wrapped in <mark class="comment">,
//     one element per text node so spans may cross element boundaries
//   - sentinels are stripped everywhere else, attribute values included
//   - images listed in the side table get align and width
//   - relative paths are rewritten when SourceDir is set
func FinishHTML(htmlContent string, opts FinishOptions) (string, error) {
	paths, err := newPathRewriter(opts.SourceDir)
	if err != nil {
		return "", err
	}
	if !ContainsReserved(htmlContent) && len(opts.Images) == 0 && paths == nil {
		return htmlContent, nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	f := &finisher{opts: opts, paths: paths}
	f.visit(doc)
	return renderHTML(doc, isFragment)
}

// finisher walks the tree in document order, tracking which comments are
// open at the current text position.
type finisher struct {
	opts  FinishOptions
	paths *pathRewriter
	open  []int
}

func (f *finisher) visit(n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		f.element(n)
	case html.TextNode:
		if ContainsReserved(n.Data) {
			f.text(n)
			return
		}
		if len(f.open) > 0 && n.Parent != nil && !isMark(n.Parent) && strings.TrimSpace(n.Data) != "" {
			n.Parent.InsertBefore(f.mark(n.Data), n)
			n.Parent.RemoveChild(n)
			return
		}
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		f.visit(c)
		c = next
	}
}

func (f *finisher) element(n *html.Node) {
	for i := range n.Attr {
		n.Attr[i].Val = StripReserved(StripMarkers(n.Attr[i].Val))
	}
	if n.DataAtom == atom.Img {
		f.layout(n)
	}
	f.paths.rewrite(n)
}

// layout applies side table attributes to an image, looked up by its
// original src.
func (f *finisher) layout(n *html.Node) {
	src := attr(n, "src")
	layout, ok := f.opts.Images[src]
	if !ok {
		// goldmark percent-encodes destinations
		if raw, err := url.PathUnescape(src); err == nil {
			layout, ok = f.opts.Images[raw]
		}
	}
	if !ok {
		return
	}
	if layout.Align != DefaultAlign {
		setAttr(n, "align", layout.Align)
		setAttr(n, "class", strings.TrimSpace(attr(n, "class")+" align-"+layout.Align))
	}
	if layout.Width != DefaultWidth {
		setAttr(n, "width", strconv.Itoa(layout.Width)+"%")
		setAttr(n, "style", "width:"+strconv.Itoa(layout.Width)+"%")
	}
}

// text replaces a text node holding sentinels with plain and marked text
// segments.
func (f *finisher) text(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		n.Data = StripReserved(StripMarkers(n.Data))
		return
	}

	data := n.Data
	emit := func(s string) {
		s = StripReserved(s)
		if s == "" {
			return
		}
		if len(f.open) > 0 && strings.TrimSpace(s) != "" {
			parent.InsertBefore(f.mark(s), n)
			return
		}
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: s}, n)
	}

	for {
		m, ok := NextMarker(data)
		if !ok {
			emit(data)
			break
		}
		emit(data[:m.Pos])
		data = data[m.Pos+m.Len:]
		if _, known := f.opts.Comments[m.ID]; !known {
			continue
		}
		if m.End {
			if i := slices.Index(f.open, m.ID); i >= 0 {
				f.open = slices.Delete(f.open, i, i+1)
			}
			continue
		}
		f.open = append(f.open, m.ID)
	}
	parent.RemoveChild(n)
}

// mark wraps text in a comment highlight for the innermost open comment.
func (f *finisher) mark(s string) *html.Node {
	id := f.open[len(f.open)-1]
	m := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Mark,
		Data:     "mark",
		Attr: []html.Attribute{
			{Key: "class", Val: "comment"},
			{Key: "data-comment", Val: f.opts.Comments[id]},
		},
	}
	m.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return m
}

func isMark(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Mark && attr(n, "class") == "comment"
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// parseHTML parses a full page or a body fragment. Fragment nodes are
// gathered under a document node.
func parseHTML(s string) (doc *html.Node, fragment bool, err error) {
	head := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err = html.Parse(strings.NewReader(s))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, true, err
	}
	doc = &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		doc.AppendChild(n)
	}
	return doc, true, nil
}

// renderHTML writes doc back out. A fragment renders its children only.
func renderHTML(doc *html.Node, fragment bool) (string, error) {
	nodes := []*html.Node{doc}
	if fragment {
		nodes = nodes[:0]
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			nodes = append(nodes, c)
		}
	}
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
