package mddoc

import (
	"context"
	"fmt"

	"github.com/alnah/go-mddoc/internal/pipeline"
)

// HTMLOptions holds per-render settings for the HTML preview.
type HTMLOptions struct {
	// Title is the document title. Escaped before insertion.
	Title string

	// SourceDir rewrites relative image and link paths to file:// URLs
	// under this directory. Empty disables rewriting.
	SourceDir string

	// CSS is appended after the codec stylesheets and overrides them.
	CSS string
}

// RenderHTML renders markdown to a standalone HTML5 preview. Comment spans
// become <mark class="comment"> elements and image layouts become align and
// width attributes. Raw HTML other than those two constructs is not rendered.
// Recovers from panics and reports them as ErrHTMLConversion.
func (c *Codec) RenderHTML(ctx context.Context, markdown string, opts HTMLOptions) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrHTMLConversion, r)
		}
	}()

	markdown, err = c.checkInput(markdown)
	if err != nil {
		return "", err
	}

	pre := pipeline.Preprocess(markdown)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, pre.Text, opts.Title)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	htmlContent, err = pipeline.FinishHTML(htmlContent, pipeline.FinishOptions{
		Comments:  pre.Comments,
		Images:    pre.Images,
		SourceDir: opts.SourceDir,
	})
	if err != nil {
		return "", fmt.Errorf("%w: finishing HTML: %v", ErrHTMLConversion, err)
	}

	return c.cssInjector.InjectCSS(ctx, htmlContent, c.styleCSS, c.highlightCSS, opts.CSS), nil
}

// RenderDocumentHTML serializes doc and renders the result as RenderHTML
// does.
func (c *Codec) RenderDocumentHTML(ctx context.Context, doc *Node, opts HTMLOptions) (string, error) {
	markdown, err := c.Serialize(doc)
	if err != nil {
		return "", err
	}
	return c.RenderHTML(ctx, markdown, opts)
}
