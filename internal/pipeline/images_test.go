package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestNormalizeAlign / TestParseWidth - Attribute Values
// ---------------------------------------------------------------------------

func TestNormalizeAlign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"left", "left"},
		{" Center ", "center"},
		{"RIGHT", "right"},
		{"inline", "inline"},
		{"middle", "inline"},
		{"", "inline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeAlign(tt.input); got != tt.want {
				t.Errorf("NormalizeAlign(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{"50", 50},
		{"50%", 50},
		{" 75 % ", 75},
		{"0", 1},
		{"250%", 100},
		{"100", 100},
		{"abc", 100},
		{"12px", 100},
		{"-5", 100},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := ParseWidth(tt.input); got != tt.want {
				t.Errorf("ParseWidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMarkdownImage - Canonical Image Syntax
// ---------------------------------------------------------------------------

func TestMarkdownImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		alt      string
		src      string
		title    string
		hasTitle bool
		want     string
	}{
		{
			name: "plain",
			alt:  "logo",
			src:  "img/logo.png",
			want: "![logo](img/logo.png)",
		},
		{
			name:     "title",
			alt:      "logo",
			src:      "a.png",
			title:    `the "best"`,
			hasTitle: true,
			want:     `![logo](a.png "the \"best\"")`,
		},
		{
			name:     "empty title kept",
			alt:      "x",
			src:      "a.png",
			hasTitle: true,
			want:     `![x](a.png "")`,
		},
		{
			name: "punctuation in alt escaped",
			alt:  "[x]*y*",
			src:  "a.png",
			want: `![\[x\]\*y\*](a.png)`,
		},
		{
			name: "space in src uses angle brackets",
			src:  "my file.png",
			want: "![](<my file.png>)",
		},
		{
			name: "unbalanced parens use angle brackets",
			src:  "a(.png",
			want: "![](<a(.png>)",
		},
		{
			name: "ampersand escaped",
			src:  "a.png?x=1&y=2",
			want: `![](a.png?x=1\&y=2)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MarkdownImage(tt.alt, tt.src, tt.title, tt.hasTitle)
			if got != tt.want {
				t.Errorf("MarkdownImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExtractImages - <img> Rewriting
// ---------------------------------------------------------------------------

func TestExtractImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantText   string
		wantImages map[string]ImageAttrs
	}{
		{
			name:     "no img tags",
			input:    "![a](b.png)",
			wantText: "![a](b.png)",
		},
		{
			name:     "default attributes become plain markdown",
			input:    `<img src="a.png" alt="A">`,
			wantText: "![A](a.png)",
		},
		{
			name:       "align and width",
			input:      `<img src="a.png" alt="A" align="center" width="50%" />`,
			wantText:   "![A](a.png)",
			wantImages: map[string]ImageAttrs{"a.png": {Align: "center", Width: 50}},
		},
		{
			name:       "data attributes",
			input:      `<IMG data-align='right' data-width=30 src=a.png>`,
			wantText:   "![](a.png)",
			wantImages: map[string]ImageAttrs{"a.png": {Align: "right", Width: 30}},
		},
		{
			name:     "width clamped to default",
			input:    `<img src="a.png" width="400">`,
			wantText: "![](a.png)",
		},
		{
			name:       "width clamped to minimum",
			input:      `<img src="a.png" width="0">`,
			wantText:   "![](a.png)",
			wantImages: map[string]ImageAttrs{"a.png": {Align: "inline", Width: 1}},
		},
		{
			name:     "missing src stays literal",
			input:    `<img alt="nothing">`,
			wantText: `<img alt="nothing">`,
		},
		{
			name:     "entities in attributes decoded",
			input:    `<img src="a.png" alt="Tom &amp; Jerry">`,
			wantText: `![Tom \& Jerry](a.png)`,
		},
		{
			name:     "title kept",
			input:    `<img src="a.png" title="T">`,
			wantText: `![](a.png "T")`,
		},
		{
			name:     "inline code protected",
			input:    "`<img src=\"a.png\" width=\"10\">`",
			wantText: "`<img src=\"a.png\" width=\"10\">`",
		},
		{
			name:       "last occurrence wins",
			input:      `<img src="a.png" width="10"> <img src="a.png" width="20">`,
			wantText:   "![](a.png) ![](a.png)",
			wantImages: map[string]ImageAttrs{"a.png": {Align: "inline", Width: 20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotText, gotImages := extractImages(tt.input)
			if gotText != tt.wantText {
				t.Errorf("extractImages() text = %q, want %q", gotText, tt.wantText)
			}
			if diff := cmp.Diff(tt.wantImages, gotImages); diff != "" {
				t.Errorf("extractImages() images mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
