package mddoc

import (
	"strings"

	"github.com/alnah/go-mddoc/internal/mdtoken"
)

// tableRange is a top-level table in a token stream.
type tableRange struct {
	start, end int
	lines      mdtoken.LineRange
}

// tableRanges returns the top-level tables of tokens that carry a line
// span, in source order.
func tableRanges(tokens []mdtoken.Token) []tableRange {
	var ranges []tableRange
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != mdtoken.TypeTableOpen || tok.Level != 0 || tok.Lines == nil {
			continue
		}
		end := tableEnd(tokens, i)
		ranges = append(ranges, tableRange{start: i, end: end, lines: *tok.Lines})
		i = end
	}
	return ranges
}

// assemble builds the blocks of a document. The source is cut at every
// top-level table: each non-blank gap is tokenized again and adapted on its
// own, each table goes through the extractor. The result never is empty.
func (c *Codec) assemble(source string, tokens []mdtoken.Token) []*Node {
	ranges := tableRanges(tokens)
	if len(ranges) == 0 {
		return nonEmpty(adapt(tokens))
	}

	lines := strings.Split(source, "\n")
	var blocks []*Node
	prev := 0
	for _, r := range ranges {
		blocks = append(blocks, c.gap(lines, prev, r.lines.Start)...)
		if table := extractTable(tokens[r.start : r.end+1]); table != nil {
			blocks = append(blocks, table)
		}
		prev = max(prev, r.lines.End)
	}
	blocks = append(blocks, c.gap(lines, prev, len(lines))...)
	return nonEmpty(blocks)
}

// gap adapts source lines [start, end).
func (c *Codec) gap(lines []string, start, end int) []*Node {
	start = min(start, len(lines))
	end = min(max(start, end), len(lines))
	text := strings.Join(lines[start:end], "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return adapt(c.tokenizer.Tokenize(text))
}

func nonEmpty(blocks []*Node) []*Node {
	if len(blocks) == 0 {
		return []*Node{Paragraph()}
	}
	return blocks
}
