package pipeline

import (
	"context"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escape needed", "body { color: red; }", "body { color: red; }"},
		{"escapes style close", "</style>", `<\/style>`},
		{"multiple occurrences", "</a></b>", `<\/a><\/b>`},
		{"case variation", "</STYLE>", `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      []string
		expected string
	}{
		{
			name:     "no stylesheet returns HTML unchanged",
			html:     "<html><head></head><body>Hello</body></html>",
			expected: "<html><head></head><body>Hello</body></html>",
		},
		{
			name:     "blank stylesheets are skipped",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      []string{"", "  \n"},
			expected: "<html><head></head><body>Hello</body></html>",
		},
		{
			name:     "injects before </head>",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      []string{"body { color: red; }"},
			expected: "<html><head><style>\nbody { color: red; }\n</style></head><body>Hello</body></html>",
		},
		{
			name:     "joins stylesheets in order",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      []string{"a {}", "", "b {}"},
			expected: "<html><head><style>\na {}\nb {}\n</style></head><body>Hello</body></html>",
		},
		{
			name:     "injects after <body> with attributes",
			html:     `<html><body class="main">Hello</body></html>`,
			css:      []string{"p {}"},
			expected: "<html><body class=\"main\"><style>\np {}\n</style>Hello</body></html>",
		},
		{
			name:     "prepends to bare fragment",
			html:     "<p>Hello</p>",
			css:      []string{"p {}"},
			expected: "<style>\np {}\n</style><p>Hello</p>",
		},
		{
			name:     "sanitizes closing tags",
			html:     "<head></head>",
			css:      []string{"</style><script>"},
			expected: "<head><style>\n<\\/style><script>\n</style></head>",
		},
	}

	injector := &CSSInjection{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(context.Background(), tt.html, tt.css...)
			if got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<html><head></head><body>Hello</body></html>"
	got := (&CSSInjection{}).InjectCSS(ctx, html, "body { color: red; }")
	if got != html {
		t.Errorf("InjectCSS() with cancelled context should return HTML unchanged, got %q", got)
	}
}
