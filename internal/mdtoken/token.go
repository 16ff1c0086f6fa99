// Package mdtoken flattens goldmark's markdown AST into a linear token stream.
//
// The stream mirrors markdown-it's token model: block open/close pairs, one
// inline token per leaf block carrying its inline children, and self-closing
// tokens for leaves such as fences and rules. Each block token may carry the
// half-open source line range it was parsed from, which callers use to slice
// the source back into independent documents.
package mdtoken

// Nesting tells whether a token opens, closes, or is self-contained.
type Nesting int

const (
	Close Nesting = -1
	Self  Nesting = 0
	Open  Nesting = 1
)

// Token types emitted by Tokenize.
const (
	TypeParagraphOpen   = "paragraph_open"
	TypeParagraphClose  = "paragraph_close"
	TypeHeadingOpen     = "heading_open"
	TypeHeadingClose    = "heading_close"
	TypeBlockquoteOpen  = "blockquote_open"
	TypeBlockquoteClose = "blockquote_close"
	TypeBulletListOpen  = "bullet_list_open"
	TypeBulletListClose = "bullet_list_close"
	TypeOrderedOpen     = "ordered_list_open"
	TypeOrderedClose    = "ordered_list_close"
	TypeListItemOpen    = "list_item_open"
	TypeListItemClose   = "list_item_close"
	TypeCodeBlock       = "code_block"
	TypeFence           = "fence"
	TypeHR              = "hr"
	TypeHTMLBlock       = "html_block"
	TypeInline          = "inline"

	TypeTableOpen  = "table_open"
	TypeTableClose = "table_close"
	TypeTheadOpen  = "thead_open"
	TypeTheadClose = "thead_close"
	TypeTbodyOpen  = "tbody_open"
	TypeTbodyClose = "tbody_close"
	TypeTROpen     = "tr_open"
	TypeTRClose    = "tr_close"
	TypeTHOpen     = "th_open"
	TypeTHClose    = "th_close"
	TypeTDOpen     = "td_open"
	TypeTDClose    = "td_close"

	TypeText        = "text"
	TypeSoftbreak   = "softbreak"
	TypeHardbreak   = "hardbreak"
	TypeCodeInline  = "code_inline"
	TypeEmOpen      = "em_open"
	TypeEmClose     = "em_close"
	TypeStrongOpen  = "strong_open"
	TypeStrongClose = "strong_close"
	TypeStrikeOpen  = "s_open"
	TypeStrikeClose = "s_close"
	TypeLinkOpen    = "link_open"
	TypeLinkClose   = "link_close"
	TypeImage       = "image"
	TypeHTMLInline  = "html_inline"
)

// LineRange is a half-open range [Start, End) of zero-based source lines.
type LineRange struct {
	Start int
	End   int
}

// Token is one event of the flattened stream.
type Token struct {
	Type    string
	Tag     string
	Nesting Nesting
	Level   int

	// Lines is the source line span of a block token, nil when unknown.
	Lines *LineRange

	Content string
	Info    string
	Attrs   map[string]string

	// Hidden marks tight lists and the paragraphs of their items.
	Hidden bool

	// Children holds the inline tokens of an inline token.
	Children []Token
}

// Attr returns the named attribute and whether it is set.
func (t Token) Attr(name string) (string, bool) {
	v, ok := t.Attrs[name]
	return v, ok
}

// IsTable reports whether the token belongs to table structure.
func (t Token) IsTable() bool {
	switch t.Type {
	case TypeTableOpen, TypeTableClose, TypeTheadOpen, TypeTheadClose,
		TypeTbodyOpen, TypeTbodyClose, TypeTROpen, TypeTRClose,
		TypeTHOpen, TypeTHClose, TypeTDOpen, TypeTDClose:
		return true
	}
	return false
}
