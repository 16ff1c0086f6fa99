package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Notes:
// - extractComments is tested directly; Preprocess adds only line ending
//   normalization and image rewriting on top of it

// ---------------------------------------------------------------------------
// TestEscapeComment - Escape Round Trip
// ---------------------------------------------------------------------------

func TestEscapeComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		escaped string
	}{
		{"plain", "looks good", "looks good"},
		{"quote", `say "hi"`, `say \"hi\"`},
		{"backslash", `C:\tmp`, `C:\\tmp`},
		{"control characters", "a\nb\rc\td", `a\nb\rc\td`},
		{"unicode", "café ✓", "café ✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EscapeComment(tt.input)
			if got != tt.escaped {
				t.Errorf("EscapeComment(%q) = %q, want %q", tt.input, got, tt.escaped)
			}
			if back := UnescapeComment(got); back != tt.input {
				t.Errorf("UnescapeComment(%q) = %q, want %q", got, back, tt.input)
			}
		})
	}
}

func TestUnescapeComment_Literal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{`\x`, `\x`},
		{`end\`, `end\`},
		{`\\n`, `\n`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := UnescapeComment(tt.input); got != tt.want {
				t.Errorf("UnescapeComment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCommentOpen(t *testing.T) {
	t.Parallel()

	if got, want := CommentOpen(`a "b"`), `<!-- COMMENT: "a \"b\"" -->`; got != want {
		t.Errorf("CommentOpen() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestExtractComments - Wrapper Pairing
// ---------------------------------------------------------------------------

func TestExtractComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantText     string
		wantComments map[int]string
	}{
		{
			name:     "no comments",
			input:    "plain <!-- note --> text",
			wantText: "plain <!-- note --> text",
		},
		{
			name:         "single pair",
			input:        `See <!-- COMMENT: "check" -->this<!-- /COMMENT --> now`,
			wantText:     "See " + StartMarker(1) + "this" + EndMarker(1) + " now",
			wantComments: map[int]string{1: "check"},
		},
		{
			name:         "tolerant whitespace",
			input:        `<!--COMMENT:"x"-->a<!--/COMMENT-->`,
			wantText:     StartMarker(1) + "a" + EndMarker(1),
			wantComments: map[int]string{1: "x"},
		},
		{
			name:         "escaped text is unescaped",
			input:        `<!-- COMMENT: "line\none \"q\"" -->a<!-- /COMMENT -->`,
			wantText:     StartMarker(1) + "a" + EndMarker(1),
			wantComments: map[int]string{1: "line\none \"q\""},
		},
		{
			name:  "nested pairs",
			input: `<!-- COMMENT: "outer" -->a <!-- COMMENT: "inner" -->b<!-- /COMMENT --> c<!-- /COMMENT -->`,
			wantText: StartMarker(1) + "a " + StartMarker(2) + "b" + EndMarker(2) +
				" c" + EndMarker(1),
			wantComments: map[int]string{1: "outer", 2: "inner"},
		},
		{
			name:     "unpaired opener stays literal",
			input:    `<!-- COMMENT: "lonely" -->text`,
			wantText: `<!-- COMMENT: "lonely" -->text`,
		},
		{
			name:         "unpaired closer stays literal",
			input:        `<!-- /COMMENT --><!-- COMMENT: "a" -->b<!-- /COMMENT -->`,
			wantText:     "<!-- /COMMENT -->" + StartMarker(1) + "b" + EndMarker(1),
			wantComments: map[int]string{1: "a"},
		},
		{
			name:     "inline code is protected",
			input:    "`<!-- COMMENT: \"x\" -->a<!-- /COMMENT -->`",
			wantText: "`<!-- COMMENT: \"x\" -->a<!-- /COMMENT -->`",
		},
		{
			name:     "fenced code is protected",
			input:    "```\n<!-- COMMENT: \"x\" -->a<!-- /COMMENT -->\n```\n",
			wantText: "```\n<!-- COMMENT: \"x\" -->a<!-- /COMMENT -->\n```\n",
		},
		{
			name:         "spans paragraphs",
			input:        "<!-- COMMENT: \"x\" -->one\n\ntwo<!-- /COMMENT -->",
			wantText:     StartMarker(1) + "one\n\ntwo" + EndMarker(1),
			wantComments: map[int]string{1: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotText, gotComments := extractComments(tt.input)
			if gotText != tt.wantText {
				t.Errorf("extractComments() text = %q, want %q", gotText, tt.wantText)
			}
			if diff := cmp.Diff(tt.wantComments, gotComments); diff != "" {
				t.Errorf("extractComments() comments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
