package mddoc

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// NodeType names a node kind of the document schema.
type NodeType string

// Node types.
const (
	NodeDoc            NodeType = "doc"
	NodeParagraph      NodeType = "paragraph"
	NodeHeading        NodeType = "heading"
	NodeBlockquote     NodeType = "blockquote"
	NodeBulletList     NodeType = "bullet_list"
	NodeOrderedList    NodeType = "ordered_list"
	NodeListItem       NodeType = "list_item"
	NodeCodeBlock      NodeType = "code_block"
	NodeHorizontalRule NodeType = "horizontal_rule"
	NodeHardBreak      NodeType = "hard_break"
	NodeImage          NodeType = "image"
	NodeText           NodeType = "text"
	NodeTable          NodeType = "table"
	NodeTableRow       NodeType = "table_row"
	NodeTableHeader    NodeType = "table_header"
	NodeTableCell      NodeType = "table_cell"
)

// MarkType names a mark kind of the document schema.
type MarkType string

// Mark types, in rank order.
const (
	MarkComment MarkType = "comment"
	MarkLink    MarkType = "link"
	MarkEm      MarkType = "em"
	MarkStrong  MarkType = "strong"
	MarkStrike  MarkType = "strike"
	MarkCode    MarkType = "code"
)

// markRank orders marks inside a mark set. Lower ranks wrap higher ones.
var markRank = map[MarkType]int{
	MarkComment: 0,
	MarkLink:    1,
	MarkEm:      2,
	MarkStrong:  3,
	MarkStrike:  4,
	MarkCode:    5,
}

// Mark is an attribute-bearing tag on a text run or inline leaf.
type Mark struct {
	Type  MarkType       `json:"type" yaml:"type"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Eq reports whether two marks have the same type and attributes.
func (m Mark) Eq(other Mark) bool {
	return m.Type == other.Type && attrsEqual(m.Attrs, other.Attrs)
}

// Node is one node of a document tree. Text is set on text nodes only.
type Node struct {
	Type    NodeType       `json:"type" yaml:"type"`
	Attrs   map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty" yaml:"content,omitempty"`
	Text    string         `json:"text,omitempty" yaml:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty" yaml:"marks,omitempty"`
}

// NewNode creates a node with the schema defaults of its type, overridden
// by attrs.
func NewNode(typ NodeType, attrs map[string]any, content ...*Node) *Node {
	return &Node{Type: typ, Attrs: withDefaults(typ, attrs), Content: content}
}

// NewText creates a text node carrying marks, sorted by rank.
func NewText(text string, marks ...Mark) *Node {
	return &Node{Type: NodeText, Text: text, Marks: sortMarks(slices.Clone(marks))}
}

// Doc creates a doc node.
func Doc(content ...*Node) *Node { return NewNode(NodeDoc, nil, content...) }

// Paragraph creates a paragraph node.
func Paragraph(content ...*Node) *Node { return NewNode(NodeParagraph, nil, content...) }

// Heading creates a heading node of the given level.
func Heading(level int, content ...*Node) *Node {
	return NewNode(NodeHeading, map[string]any{"level": level}, content...)
}

// LinkMark creates a link mark. An empty title is stored as nil.
func LinkMark(href, title string) Mark {
	attrs := map[string]any{"href": href, "title": nil}
	if title != "" {
		attrs["title"] = title
	}
	return Mark{Type: MarkLink, Attrs: attrs}
}

// CommentMark creates a comment mark holding the comment text.
func CommentMark(text string) Mark {
	return Mark{Type: MarkComment, Attrs: map[string]any{"text": text}}
}

// IsBlock reports whether the node is a block node.
func (n *Node) IsBlock() bool {
	spec, ok := nodeSpecs[n.Type]
	return ok && !spec.inline
}

// IsInline reports whether the node is an inline node.
func (n *Node) IsInline() bool {
	spec, ok := nodeSpecs[n.Type]
	return ok && spec.inline
}

// HasMark reports whether the node carries a mark equal to m.
func (n *Node) HasMark(m Mark) bool {
	return slices.ContainsFunc(n.Marks, m.Eq)
}

// MarkOf returns the node's mark of the given type.
func (n *Node) MarkOf(typ MarkType) (Mark, bool) {
	for _, m := range n.Marks {
		if m.Type == typ {
			return m, true
		}
	}
	return Mark{}, false
}

// Equal reports whether two trees have the same structure, text, marks and
// attributes. Integer attributes compare by value whatever their Go type.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Type != other.Type || n.Text != other.Text || !attrsEqual(n.Attrs, other.Attrs) {
		return false
	}
	if !slices.EqualFunc(n.Marks, other.Marks, Mark.Eq) {
		return false
	}
	return slices.EqualFunc(n.Content, other.Content, (*Node).Equal)
}

// Clone returns a deep copy of the tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Type: n.Type, Text: n.Text, Attrs: maps.Clone(n.Attrs)}
	for _, m := range n.Marks {
		c.Marks = append(c.Marks, Mark{Type: m.Type, Attrs: maps.Clone(m.Attrs)})
	}
	for _, child := range n.Content {
		c.Content = append(c.Content, child.Clone())
	}
	return c
}

// withAttrs returns a shallow copy of n with attributes overridden.
func (n *Node) withAttrs(attrs map[string]any) *Node {
	c := *n
	c.Attrs = maps.Clone(n.Attrs)
	if c.Attrs == nil {
		c.Attrs = make(map[string]any, len(attrs))
	}
	maps.Copy(c.Attrs, attrs)
	return &c
}

// withContent returns a shallow copy of n with new children.
func (n *Node) withContent(content []*Node) *Node {
	c := *n
	c.Content = content
	return &c
}

// TextContent returns the concatenated text of every text node under n.
func TextContent(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Type == NodeText {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Content {
		sb.WriteString(TextContent(c))
	}
	return sb.String()
}

// AttrString returns a string attribute. Missing and nil values report
// false.
func (n *Node) AttrString(key string) (string, bool) {
	return stringAttr(n.Attrs, key)
}

// AttrInt returns an integer attribute, accepting the numeric types a JSON
// or YAML decoder produces.
func (n *Node) AttrInt(key string, def int) int {
	return intAttr(n.Attrs, key, def)
}

// AttrBool returns a boolean attribute.
func (n *Node) AttrBool(key string) bool {
	b, _ := n.Attrs[key].(bool)
	return b
}

func stringAttr(attrs map[string]any, key string) (string, bool) {
	s, ok := attrs[key].(string)
	return s, ok
}

func intAttr(attrs map[string]any, key string, def int) int {
	switch v := attrs[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// attrsEqual compares attribute maps, treating a missing key as nil and
// numbers by value.
func attrsEqual(a, b map[string]any) bool {
	for k, va := range a {
		if !valueEqual(va, b[k]) {
			return false
		}
	}
	for k, vb := range b {
		if _, ok := a[k]; !ok && vb != nil {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// sortMarks orders marks by rank.
func sortMarks(marks []Mark) []Mark {
	slices.SortStableFunc(marks, func(a, b Mark) int {
		return markRank[a.Type] - markRank[b.Type]
	})
	return marks
}

// addMark returns the set with m added. A mark of the same type is
// replaced, so an inner comment takes over from an outer one.
func addMark(set []Mark, m Mark) []Mark {
	out := make([]Mark, 0, len(set)+1)
	for _, existing := range set {
		if existing.Type != m.Type {
			out = append(out, existing)
		}
	}
	return sortMarks(append(out, m))
}

// removeMark returns the set without marks of the given type.
func removeMark(set []Mark, typ MarkType) []Mark {
	out := make([]Mark, 0, len(set))
	for _, m := range set {
		if m.Type != typ {
			out = append(out, m)
		}
	}
	return out
}

func sameMarks(a, b []Mark) bool {
	return slices.EqualFunc(a, b, Mark.Eq)
}
