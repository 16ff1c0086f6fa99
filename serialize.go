package mddoc

import (
	"strconv"
	"strings"

	"github.com/alnah/go-mddoc/internal/pipeline"
)

// serializerState renders a tree as markdown. Blocks are rendered to strings
// and containers prefix the lines of their children.
type serializerState struct {
	bullet string
}

func newSerializerState(bullet string) *serializerState {
	if bullet == "" {
		bullet = "-"
	}
	return &serializerState{bullet: bullet}
}

// serialize renders n, a doc or any single block, without a trailing
// newline. Sentinel code points never reach the output.
func (s *serializerState) serialize(n *Node) string {
	var out string
	if n.Type == NodeDoc {
		out = s.blocks(n.Content, false)
	} else {
		out = s.block(n, false)
	}
	return pipeline.StripReserved(out)
}

// blocks joins sibling blocks. Tight siblings share lines except where a
// missing blank line would merge them.
func (s *serializerState) blocks(nodes []*Node, tight bool) string {
	var sb strings.Builder
	var prev *Node
	alt := false
	for _, n := range nodes {
		// adjacent lists of one kind would merge: switch markers
		alt = prev != nil && prev.Type == n.Type && isList(n) && !alt
		out := s.block(n, alt)
		if out == "" {
			continue
		}
		if prev != nil {
			sb.WriteString(blockSeparator(n, tight))
		}
		sb.WriteString(out)
		prev = n
	}
	return sb.String()
}

func blockSeparator(next *Node, tight bool) string {
	if !tight {
		return "\n\n"
	}
	switch next.Type {
	case NodeParagraph, NodeHorizontalRule, NodeTable:
		return "\n\n"
	}
	return "\n"
}

func isList(n *Node) bool {
	return n.Type == NodeBulletList || n.Type == NodeOrderedList
}

func (s *serializerState) block(n *Node, alt bool) string {
	switch n.Type {
	case NodeParagraph:
		return s.inline(n.Content, false)
	case NodeHeading:
		return s.heading(n)
	case NodeBlockquote:
		return prefixLines(s.blocks(n.Content, false), "> ", "> ")
	case NodeBulletList, NodeOrderedList:
		return s.list(n, alt)
	case NodeListItem:
		return prefixLines(s.blocks(n.Content, false), s.bullet+" ", "  ")
	case NodeCodeBlock:
		return codeBlock(n)
	case NodeHorizontalRule:
		return "---"
	case NodeTable:
		return s.table(n)
	}
	if len(n.Content) > 0 && n.Content[0].IsInline() {
		return s.inline(n.Content, false)
	}
	return s.blocks(n.Content, false)
}

func (s *serializerState) heading(n *Node) string {
	level := max(1, min(6, n.AttrInt("level", 1)))
	hashes := strings.Repeat("#", level)
	text := s.inline(n.Content, true)
	if text == "" {
		return hashes
	}
	return hashes + " " + text
}

// codeBlock writes a fence around the raw text of a code block. The body
// always ends with a newline so a trailing newline in the text survives.
func codeBlock(n *Node) string {
	language, _ := n.AttrString("language")
	text := TextContent(n)
	open, closing := codeFences(language, text)
	if text == "" {
		return open + "\n" + closing
	}
	return open + "\n" + text + "\n" + closing
}

func (s *serializerState) list(n *Node, alt bool) string {
	tight := n.AttrBool("tight")
	var markers []string
	var indent string
	if n.Type == NodeOrderedList {
		markers, indent = orderedMarkers(n.AttrInt("order", 1), len(n.Content), alt)
	} else {
		bullet := s.bullet
		if alt {
			bullet = alternateBullet(bullet)
		}
		for range n.Content {
			markers = append(markers, bullet+" ")
		}
		indent = "  "
	}

	sep := "\n\n"
	if tight {
		sep = "\n"
	}
	var sb strings.Builder
	for i, item := range n.Content {
		body := s.blocks(item.Content, tight)
		if item.Type != NodeListItem {
			body = s.block(item, false)
		}
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(prefixLines(body, markers[i], indent))
	}
	return sb.String()
}

// orderedMarkers pads every "N." marker to the width of the largest number
// plus two, the indent of continuation lines. Markers stay left-aligned and
// the padding goes after the delimiter: "9.  a" above "10. b".
func orderedMarkers(start, count int, alt bool) ([]string, string) {
	delim := "."
	if alt {
		delim = ")"
	}
	width := len(strconv.Itoa(start + count - 1))
	markers := make([]string, count)
	for i := range markers {
		m := strconv.Itoa(start+i) + delim
		markers[i] = m + strings.Repeat(" ", max(1, width+2-len(m)))
	}
	return markers, strings.Repeat(" ", width+2)
}

func alternateBullet(bullet string) string {
	if bullet == "-" {
		return "*"
	}
	return "-"
}

// prefixLines prefixes the first line of text with first and the others
// with rest. Blank lines get the prefix without trailing spaces.
func prefixLines(text, first, rest string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		prefix := rest
		if i == 0 {
			prefix = first
		}
		if line == "" {
			prefix = strings.TrimRight(prefix, " ")
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
