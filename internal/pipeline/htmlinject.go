package pipeline

import (
	"context"
	"strings"
)

// CSSInjector defines the contract for stylesheet injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent string, stylesheets ...string) string
}

// CSSInjection injects stylesheets as one <style> block.
type CSSInjection struct{}

// InjectCSS joins the non-empty stylesheets in order and inserts them
// before </head>, after <body>, or in front of the content, whichever is
// found first. Later stylesheets override earlier ones.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent string, stylesheets ...string) string {
	if ctx.Err() != nil {
		return htmlContent
	}

	var parts []string
	for _, css := range stylesheets {
		if strings.TrimSpace(css) != "" {
			parts = append(parts, sanitizeCSS(css))
		}
	}
	if len(parts) == 0 {
		return htmlContent
	}

	styleBlock := "<style>\n" + strings.Join(parts, "\n") + "\n</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
