package mddoc

import (
	"fmt"
	"maps"
	"strings"
)

// Image layout defaults.
const (
	DefaultAlign = "inline"
	DefaultWidth = 100
)

// contentKind constrains the children of a node type.
type contentKind int

const (
	contentNone contentKind = iota
	contentBlocks
	contentInline
	contentText
	contentListItems
	contentRows
	contentCells
	contentCellBody
)

type nodeSpec struct {
	inline  bool
	content contentKind
	attrs   map[string]any
}

var nodeSpecs = map[NodeType]nodeSpec{
	NodeDoc:            {content: contentBlocks},
	NodeParagraph:      {content: contentInline},
	NodeHeading:        {content: contentInline, attrs: map[string]any{"level": 1}},
	NodeBlockquote:     {content: contentBlocks},
	NodeBulletList:     {content: contentListItems, attrs: map[string]any{"tight": false}},
	NodeOrderedList:    {content: contentListItems, attrs: map[string]any{"order": 1, "tight": false}},
	NodeListItem:       {content: contentBlocks},
	NodeCodeBlock:      {content: contentText, attrs: map[string]any{"language": ""}},
	NodeHorizontalRule: {},
	NodeTable:          {content: contentRows},
	NodeTableRow:       {content: contentCells},
	NodeTableHeader:    {content: contentCellBody},
	NodeTableCell:      {content: contentCellBody},
	NodeText:           {inline: true},
	NodeHardBreak:      {inline: true},
	NodeImage: {inline: true, attrs: map[string]any{
		"src":         "",
		"alt":         nil,
		"title":       nil,
		"align":       DefaultAlign,
		"width":       DefaultWidth,
		"relativeSrc": nil,
	}},
}

var markAttrs = map[MarkType][]string{
	MarkComment: {"text"},
	MarkLink:    {"href", "title"},
	MarkEm:      nil,
	MarkStrong:  nil,
	MarkStrike:  nil,
	MarkCode:    nil,
}

// withDefaults merges attrs over the schema defaults of typ.
func withDefaults(typ NodeType, attrs map[string]any) map[string]any {
	defaults := nodeSpecs[typ].attrs
	if len(defaults) == 0 && len(attrs) == 0 {
		return nil
	}
	out := maps.Clone(defaults)
	if out == nil {
		out = make(map[string]any, len(attrs))
	}
	maps.Copy(out, attrs)
	return out
}

// Schema checks document trees against the node and mark catalogue.
type Schema struct{}

// NewSchema returns the document schema.
func NewSchema() *Schema {
	return &Schema{}
}

// Validate checks the structural invariants of a document:
//   - the root is a doc with at least one block child
//   - inline nodes appear only inside paragraphs and headings
//   - tables hold rows, rows hold cells, cells hold exactly one paragraph
//   - text nodes are non-empty and carry known marks
//
// Errors wrap ErrInvalidDocument and name the offending path.
func (s *Schema) Validate(doc *Node) error {
	if doc == nil {
		return ErrNilDocument
	}
	if doc.Type != NodeDoc {
		return fmt.Errorf("%w: root is %q, want %q", ErrInvalidDocument, doc.Type, NodeDoc)
	}
	if len(doc.Content) == 0 {
		return fmt.Errorf("%w: doc has no children", ErrInvalidDocument)
	}
	return s.check(doc, "doc")
}

func (s *Schema) check(n *Node, path string) error {
	if n == nil {
		return fmt.Errorf("%w: %s: nil node", ErrInvalidDocument, path)
	}
	spec, ok := nodeSpecs[n.Type]
	if !ok {
		return fmt.Errorf("%w: %s: unknown node type %q", ErrInvalidDocument, path, n.Type)
	}
	if n.Type == NodeText {
		return s.checkText(n, path)
	}
	if n.Type == NodeHeading {
		if level := n.AttrInt("level", 1); level < 1 || level > 6 {
			return fmt.Errorf("%w: %s: heading level %d", ErrInvalidDocument, path, level)
		}
	}
	if len(n.Marks) > 0 && !spec.inline {
		return fmt.Errorf("%w: %s: block node carries marks", ErrInvalidDocument, path)
	}

	if spec.content == contentCellBody && (len(n.Content) != 1 || n.Content[0] == nil || n.Content[0].Type != NodeParagraph) {
		return fmt.Errorf("%w: %s: cell must hold exactly one paragraph", ErrInvalidDocument, path)
	}
	if spec.content == contentListItems && len(n.Content) == 0 {
		return fmt.Errorf("%w: %s: empty list", ErrInvalidDocument, path)
	}

	for i, c := range n.Content {
		childPath := fmt.Sprintf("%s/%d", path, i)
		if c == nil {
			return fmt.Errorf("%w: %s: nil node", ErrInvalidDocument, childPath)
		}
		if !allows(spec.content, c) {
			return fmt.Errorf("%w: %s: %s not allowed in %s", ErrInvalidDocument, childPath, c.Type, n.Type)
		}
		if err := s.check(c, childPath+":"+string(c.Type)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) checkText(n *Node, path string) error {
	if n.Text == "" {
		return fmt.Errorf("%w: %s: empty text node", ErrInvalidDocument, path)
	}
	if len(n.Content) > 0 {
		return fmt.Errorf("%w: %s: text node with children", ErrInvalidDocument, path)
	}
	seen := make(map[MarkType]bool, len(n.Marks))
	for _, m := range n.Marks {
		if _, ok := markAttrs[m.Type]; !ok {
			return fmt.Errorf("%w: %s: unknown mark %q", ErrInvalidDocument, path, m.Type)
		}
		if seen[m.Type] {
			return fmt.Errorf("%w: %s: duplicate %s mark", ErrInvalidDocument, path, m.Type)
		}
		seen[m.Type] = true
	}
	if m, ok := n.MarkOf(MarkLink); ok {
		if _, ok := stringAttr(m.Attrs, "href"); !ok {
			return fmt.Errorf("%w: %s: link without href", ErrInvalidDocument, path)
		}
	}
	return nil
}

func allows(kind contentKind, c *Node) bool {
	switch kind {
	case contentBlocks:
		return c.IsBlock() && !isTablePart(c.Type) && c.Type != NodeListItem && c.Type != NodeDoc
	case contentInline:
		return c.IsInline()
	case contentText:
		return c.Type == NodeText
	case contentListItems:
		return c.Type == NodeListItem
	case contentRows:
		return c.Type == NodeTableRow
	case contentCells:
		return c.Type == NodeTableHeader || c.Type == NodeTableCell
	case contentCellBody:
		return c.Type == NodeParagraph
	}
	return false
}

func isTablePart(t NodeType) bool {
	return strings.HasPrefix(string(t), "table_")
}
