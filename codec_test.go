package mddoc

// Notes:
// - Parse: we test the documented scenarios (headings, tables, image layout,
//   comment spans), the empty-input paragraph and the dropped raw HTML.
// - Input checks: we test the size limit, rejection of reserved code points
//   with their position, and stripping them instead.
// - Options: we test panics on programmer errors and the preview style
//   resolution errors of NewCodec.
// - Concurrency: we run Parse and Serialize on one Codec from many
//   goroutines; the race detector catches shared state.
// Tokenizer panics are not reproducible with the real tokenizer; a stub
// covers the recovery path.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-mddoc/internal/mdtoken"
)

func mustParse(t *testing.T, md string) *Node {
	t.Helper()
	doc, err := Parse(md)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", md, err)
	}
	return doc
}

func mustSerialize(t *testing.T, doc *Node) string {
	t.Helper()
	out, err := Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	return out
}

func strongMark() Mark { return Mark{Type: MarkStrong} }
func emMark() Mark     { return Mark{Type: MarkEm} }
func codeMark() Mark   { return Mark{Type: MarkCode} }
func strikeMark() Mark { return Mark{Type: MarkStrike} }

func imageNode(attrs map[string]any) *Node { return NewNode(NodeImage, attrs) }

func list(typ NodeType, attrs map[string]any, items ...string) *Node {
	nodes := make([]*Node, len(items))
	for i, item := range items {
		nodes[i] = NewNode(NodeListItem, nil, Paragraph(NewText(item)))
	}
	return NewNode(typ, attrs, nodes...)
}

func row(header bool, texts ...string) *Node {
	typ := NodeTableCell
	if header {
		typ = NodeTableHeader
	}
	cells := make([]*Node, len(texts))
	for i, text := range texts {
		para := Paragraph()
		if text != "" {
			para = Paragraph(NewText(text))
		}
		cells[i] = NewNode(typ, nil, para)
	}
	return NewNode(NodeTableRow, nil, cells...)
}

func assertTree(t *testing.T, got, want *Node) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("tree mismatch\ngot:  %s\nwant: %s", dump(got), dump(want))
	}
}

// dump renders a tree compactly for failure messages.
func dump(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(string(n.Type))
	if n.Type == NodeText {
		sb.WriteString("(" + n.Text)
		for _, m := range n.Marks {
			sb.WriteString(" +" + string(m.Type))
		}
		sb.WriteString(")")
		return sb.String()
	}
	if len(n.Attrs) > 0 {
		sb.WriteString("{")
		for i, k := range slices.Sorted(maps.Keys(n.Attrs)) {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, n.Attrs[k])
		}
		sb.WriteString("}")
	}
	if len(n.Content) > 0 {
		sb.WriteString("[")
		for i, c := range n.Content {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(dump(c))
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// TestParse_Scenarios - Documented parse results
// ---------------------------------------------------------------------------

func TestParse_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *Node
	}{
		{
			name:  "two headings",
			input: "# Heading 1\n\n## Heading 2",
			want:  Doc(Heading(1, NewText("Heading 1")), Heading(2, NewText("Heading 2"))),
		},
		{
			name:  "table with header and data row",
			input: "| A | B | C |\n| --- | --- | --- |\n| 1 | 2 | 3 |",
			want: Doc(NewNode(NodeTable, nil,
				row(true, "A", "B", "C"),
				row(false, "1", "2", "3"),
			)),
		},
		{
			name:  "img tag with layout",
			input: `<img src="image.png" align="center" />`,
			want:  Doc(Paragraph(imageNode(map[string]any{"src": "image.png", "align": "center", "width": 100}))),
		},
		{
			name:  "comment span",
			input: `<!-- COMMENT: "note" -->text<!-- /COMMENT -->`,
			want:  Doc(Paragraph(NewText("text", CommentMark("note")))),
		},
		{
			name:  "inline code",
			input: "Use `code` here",
			want:  Doc(Paragraph(NewText("Use "), NewText("code", codeMark()), NewText(" here"))),
		},
		{
			name:  "empty input",
			input: "",
			want:  Doc(Paragraph()),
		},
		{
			name:  "blank input",
			input: "  \n\n\t\n",
			want:  Doc(Paragraph()),
		},
		{
			name:  "raw HTML block dropped",
			input: "<div>\nhidden\n</div>\n\nkept",
			want:  Doc(Paragraph(NewText("kept"))),
		},
		{
			name:  "CRLF line endings",
			input: "# T\r\n\r\nbody\r\n",
			want:  Doc(Heading(1, NewText("T")), Paragraph(NewText("body"))),
		},
		{
			name:  "fenced code with language",
			input: "```go\nx := 1\n```",
			want:  Doc(NewNode(NodeCodeBlock, map[string]any{"language": "go"}, NewText("x := 1"))),
		},
		{
			name:  "ordered list start",
			input: "3. a\n4. b",
			want:  Doc(list(NodeOrderedList, map[string]any{"order": 3, "tight": true}, "a", "b")),
		},
		{
			name:  "loose bullet list",
			input: "- a\n\n- b",
			want:  Doc(list(NodeBulletList, map[string]any{"tight": false}, "a", "b")),
		},
		{
			name:  "link with title",
			input: `[site](https://example.com "Home")`,
			want:  Doc(Paragraph(NewText("site", LinkMark("https://example.com", "Home")))),
		},
		{
			name: "fence on a list item line ends with the item",
			input: "- step one:\n\n  ```go\n  x := 1\n  ```\n\n- ```sh\n  make\n  ```\n\n" +
				"<img src=\"a.png\" align=\"center\">\n\n" + `<!-- COMMENT: "n" -->t<!-- /COMMENT -->`,
			want: Doc(
				NewNode(NodeBulletList, map[string]any{"tight": false},
					NewNode(NodeListItem, nil,
						Paragraph(NewText("step one:")),
						NewNode(NodeCodeBlock, map[string]any{"language": "go"}, NewText("x := 1")),
					),
					NewNode(NodeListItem, nil,
						NewNode(NodeCodeBlock, map[string]any{"language": "sh"}, NewText("make")),
					),
				),
				Paragraph(imageNode(map[string]any{"src": "a.png", "align": "center", "width": 100})),
				Paragraph(NewText("t", CommentMark("n"))),
			),
		},
		{
			name:  "soft break kept as newline",
			input: "one\ntwo",
			want:  Doc(Paragraph(NewText("one\ntwo"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assertTree(t, mustParse(t, tt.input), tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse_ValidTrees - Every parse result passes the schema
// ---------------------------------------------------------------------------

func TestParse_ValidTrees(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"# T\n\npara *em* **strong** ~~s~~ `c`",
		"- a\n  - b\n\n> quote\n> - item",
		"| A |\n| - |\n|   |",
		"a\n\n| x | y |\n| - | - |\n| 1 | 2 |\n\nb\n\n| z |\n| - |",
		"> | q |\n> | - |\n> | 1 |",
		`<!-- COMMENT: "c" -->start of a long` + "\n\n" + `comment<!-- /COMMENT -->`,
		"![alt](a.png \"t\")\n\n<img src=\"b.png\" width=\"40%\">",
		"***\n\n    indented code\n",
	}

	schema := NewSchema()
	for _, input := range inputs {
		doc := mustParse(t, input)
		if err := schema.Validate(doc); err != nil {
			t.Errorf("Validate(Parse(%q)) = %v", input, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestCodec_InputChecks - Size limit and reserved code points
// ---------------------------------------------------------------------------

func TestCodec_InputChecks(t *testing.T) {
	t.Parallel()

	t.Run("reserved character rejected with position", func(t *testing.T) {
		t.Parallel()

		_, err := Parse("ab\ue002c")
		if !errors.Is(err, ErrReservedCharacter) {
			t.Fatalf("error = %v, want ErrReservedCharacter", err)
		}
		if !strings.Contains(err.Error(), "U+E002 at byte 2") {
			t.Errorf("error = %q, want code point and offset", err)
		}
	})

	t.Run("reserved character stripped", func(t *testing.T) {
		t.Parallel()

		c, err := NewCodec(WithStripReserved(true))
		if err != nil {
			t.Fatal(err)
		}
		doc, err := c.Parse("a\ue000b\ue003c")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertTree(t, doc, Doc(Paragraph(NewText("abc"))))
	})

	t.Run("input too large", func(t *testing.T) {
		t.Parallel()

		c, err := NewCodec(WithMaxInputSize(4))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Parse("hello"); !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("error = %v, want ErrInputTooLarge", err)
		}
		if _, err := c.Parse("hell"); err != nil {
			t.Errorf("input at the limit: unexpected error %v", err)
		}
	})

	t.Run("zero disables the limit", func(t *testing.T) {
		t.Parallel()

		c, err := NewCodec(WithMaxInputSize(0))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Parse(strings.Repeat("word ", 1000)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestCodec_Serialize - Codec level behavior
// ---------------------------------------------------------------------------

func TestCodec_Serialize(t *testing.T) {
	t.Parallel()

	t.Run("nil document", func(t *testing.T) {
		t.Parallel()

		if _, err := Serialize(nil); !errors.Is(err, ErrNilDocument) {
			t.Errorf("error = %v, want ErrNilDocument", err)
		}
	})

	t.Run("bullet marker option", func(t *testing.T) {
		t.Parallel()

		c, err := NewCodec(WithBulletMarker("*"))
		if err != nil {
			t.Fatal(err)
		}
		doc := Doc(list(NodeBulletList, map[string]any{"tight": true}, "a", "b"))
		got, err := c.Serialize(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "* a\n* b" {
			t.Errorf("Serialize() = %q, want %q", got, "* a\n* b")
		}
	})

	t.Run("panic reported as ErrSerialize", func(t *testing.T) {
		t.Parallel()

		_, err := Serialize(Doc(Paragraph(nil)))
		if !errors.Is(err, ErrSerialize) {
			t.Errorf("error = %v, want ErrSerialize", err)
		}
	})

	t.Run("sentinels never reach the output", func(t *testing.T) {
		t.Parallel()

		got := mustSerialize(t, Doc(Paragraph(NewText("a\ue0001\ue001b"))))
		if got != "a1b" {
			t.Errorf("Serialize() = %q, want %q", got, "a1b")
		}
	})
}

type panicTokenizer struct{}

func (panicTokenizer) Tokenize(string) []mdtoken.Token { panic("tokenizer fault") }

// ---------------------------------------------------------------------------
// TestCodec_TokenizerPanic - Recovery at the call boundary
// ---------------------------------------------------------------------------

func TestCodec_TokenizerPanic(t *testing.T) {
	t.Parallel()

	c, err := NewCodec()
	if err != nil {
		t.Fatal(err)
	}
	c.tokenizer = panicTokenizer{}

	doc, err := c.Parse("# boom")
	if !errors.Is(err, ErrTokenize) {
		t.Fatalf("error = %v, want ErrTokenize", err)
	}
	if doc != nil {
		t.Errorf("doc = %v, want nil", doc)
	}
	if !strings.Contains(err.Error(), "tokenizer fault") {
		t.Errorf("error = %q, want panic value", err)
	}
}

// ---------------------------------------------------------------------------
// TestOptions_Panics - Programmer errors
// ---------------------------------------------------------------------------

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"invalid bullet", func() { WithBulletMarker("x") }},
		{"empty bullet", func() { WithBulletMarker("") }},
		{"negative size", func() { WithMaxInputSize(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewCodec_Styles - Preview stylesheet resolution
// ---------------------------------------------------------------------------

func TestNewCodec_Styles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cssPath := filepath.Join(dir, "custom.css")
	if err := os.WriteFile(cssPath, []byte("body { color: teal; }"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
		wantCSS string
	}{
		{"default style", nil, nil, ""},
		{"plain style", []Option{WithStyle("plain")}, nil, ""},
		{"no style", []Option{WithStyle("")}, nil, ""},
		{"inline CSS", []Option{WithStyle("p { margin: 0; }")}, nil, "p { margin: 0; }"},
		{"CSS file", []Option{WithStyle(cssPath)}, nil, "color: teal"},
		{"missing CSS file", []Option{WithStyle(filepath.Join(dir, "nope.css"))}, ErrStyleNotFound, ""},
		{"unknown style name", []Option{WithStyle("nope")}, ErrStyleNotFound, ""},
		{"unknown highlight style", []Option{WithHighlightStyle("nope")}, ErrStyleNotFound, ""},
		{"invalid asset path", []Option{WithAssetPath(filepath.Join(dir, "missing"))}, ErrInvalidAssetPath, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewCodec(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantCSS != "" && !strings.Contains(c.styleCSS, tt.wantCSS) {
				t.Errorf("styleCSS = %q, want substring %q", c.styleCSS, tt.wantCSS)
			}
			if c.highlightCSS == "" {
				t.Error("highlightCSS is empty")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCodec_Concurrent - Shared codec across goroutines
// ---------------------------------------------------------------------------

func TestCodec_Concurrent(t *testing.T) {
	t.Parallel()

	input := "# Title\n\n" + `<!-- COMMENT: "c" -->text<!-- /COMMENT -->` +
		"\n\n| a | b |\n| - | - |\n| 1 | 2 |\n\n<img src=\"x.png\" width=\"30\">"
	want := mustSerialize(t, mustParse(t, input))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := Parse(input)
			if err != nil {
				errs <- err
				return
			}
			got, err := Serialize(doc)
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- errors.New("output differs between goroutines: " + got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
