package mddoc

import (
	"slices"
	"strings"

	"github.com/alnah/go-mddoc/internal/mdtoken"
)

// tableState is the position of the extractor inside a table range.
type tableState int

const (
	outsideRow tableState = iota
	inRow
	inCell
)

// tableAcc is the value folded over a table token range.
type tableAcc struct {
	state  tableState
	rows   []*Node
	cells  []*Node
	header bool
	text   string
}

// extractTable builds a table node from the tokens of one table range,
// table_open through table_close. Cells keep the literal text of their
// inline content only: marks, links and images inside cells are dropped.
// It returns nil when no row was closed.
func extractTable(tokens []mdtoken.Token) *Node {
	var acc tableAcc
	for _, tok := range tokens {
		acc = acc.step(tok)
	}
	if len(acc.rows) == 0 {
		return nil
	}
	return NewNode(NodeTable, nil, acc.rows...)
}

func (a tableAcc) step(tok mdtoken.Token) tableAcc {
	switch a.state {
	case outsideRow:
		if tok.Type == mdtoken.TypeTROpen {
			a.state, a.cells = inRow, nil
		}
	case inRow:
		switch tok.Type {
		case mdtoken.TypeTHOpen, mdtoken.TypeTDOpen:
			a.state, a.header, a.text = inCell, tok.Type == mdtoken.TypeTHOpen, ""
		case mdtoken.TypeTRClose:
			a.state = outsideRow
			if len(a.cells) > 0 {
				a.rows = append(slices.Clip(a.rows), NewNode(NodeTableRow, nil, a.cells...))
			}
		}
	case inCell:
		switch tok.Type {
		case mdtoken.TypeInline:
			a.text += cellText(tok.Children)
		case mdtoken.TypeTHClose, mdtoken.TypeTDClose:
			a.state = inRow
			a.cells = append(slices.Clip(a.cells), newCell(a.header, a.text))
		}
	}
	return a
}

// newCell wraps text in the paragraph every cell holds, empty when there
// is no text.
func newCell(header bool, text string) *Node {
	typ := NodeTableCell
	if header {
		typ = NodeTableHeader
	}
	para := Paragraph()
	if text != "" {
		para = Paragraph(NewText(text))
	}
	return NewNode(typ, nil, para)
}

// cellText concatenates the literal text tokens of a cell. Code spans,
// images and breaks contribute nothing.
func cellText(children []mdtoken.Token) string {
	var sb strings.Builder
	for _, tok := range children {
		if tok.Type == mdtoken.TypeText {
			sb.WriteString(tok.Content)
		}
	}
	return sb.String()
}
