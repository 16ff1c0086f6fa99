package mddoc

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/alnah/go-mddoc/internal/assets"
	"github.com/alnah/go-mddoc/internal/fileutil"
	"github.com/alnah/go-mddoc/internal/mdtoken"
	"github.com/alnah/go-mddoc/internal/pipeline"
)

// tokenizer is the seam to the markdown tokenizer.
type tokenizer interface {
	Tokenize(src string) []mdtoken.Token
}

// Compile-time interface implementation checks.
var (
	_ tokenizer              = (*mdtoken.Tokenizer)(nil)
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector   = (*pipeline.CSSInjection)(nil)
	_ assets.Source          = assets.Stack(nil)
)

// Codec converts between markdown and document trees. It is immutable
// after construction and safe for concurrent use.
type Codec struct {
	cfg           codecConfig
	tokenizer     tokenizer
	styles        assets.Source
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector

	// resolved preview stylesheets
	styleCSS     string
	highlightCSS string
}

// NewCodec creates a Codec. Options are applied in order.
// Returns an error if the asset path or a preview style cannot be resolved.
func NewCodec(opts ...Option) (*Codec, error) {
	c := &Codec{
		cfg: codecConfig{
			bulletMarker:   "-",
			maxInputSize:   DefaultMaxInputSize,
			style:          assets.DefaultStyleName,
			highlightStyle: pipeline.DefaultHighlightStyle,
		},
		tokenizer:     mdtoken.New(),
		styles:        assets.Builtin{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		stack, err := assets.Open(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.styles = stack
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	css, err := pipeline.HighlightCSS(c.cfg.highlightStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStyleNotFound, err)
	}
	c.highlightCSS = css

	return c, nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content.
func (c *Codec) resolveStyle() error {
	input := c.cfg.style
	if input == "" {
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: loading style file %q: %v", ErrStyleNotFound, input, err)
		}
		c.styleCSS = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.styleCSS = input
		return nil
	}

	css, err := c.styles.Style(input)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrStyleNotFound, input, err)
	}
	c.styleCSS = css
	return nil
}

var defaultCodec = mustCodec()

func mustCodec() *Codec {
	c, err := NewCodec()
	if err != nil {
		panic("mddoc: default codec: " + err.Error())
	}
	return c
}

// Parse converts markdown to a document tree with the default Codec.
func Parse(markdown string) (*Node, error) {
	return defaultCodec.Parse(markdown)
}

// Serialize converts a document tree to markdown with the default Codec.
func Serialize(doc *Node) (string, error) {
	return defaultCodec.Serialize(doc)
}

// Parse converts markdown to a document tree. The tree always holds at
// least one block: empty input yields a single empty paragraph.
// Constructs outside the supported dialect, such as raw HTML, are dropped.
// Recovers from tokenizer panics and reports them as ErrTokenize.
func (c *Codec) Parse(markdown string) (doc *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrTokenize, r)
		}
	}()

	markdown, err = c.checkInput(markdown)
	if err != nil {
		return nil, err
	}

	pre := pipeline.Preprocess(markdown)
	tokens := c.tokenizer.Tokenize(pre.Text)
	doc = Doc(c.assemble(pre.Text, tokens)...)
	return postprocess(doc, pre.Comments, pre.Images), nil
}

// checkInput enforces the size limit and the reserved code points.
func (c *Codec) checkInput(markdown string) (string, error) {
	if c.cfg.maxInputSize > 0 && len(markdown) > c.cfg.maxInputSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrInputTooLarge, len(markdown), c.cfg.maxInputSize)
	}
	if !pipeline.ContainsReserved(markdown) {
		return markdown, nil
	}
	if c.cfg.stripReserved {
		return pipeline.StripReserved(markdown), nil
	}
	i := pipeline.IndexReserved(markdown)
	r, _ := utf8.DecodeRuneInString(markdown[i:])
	return "", fmt.Errorf("%w: U+%04X at byte %d", ErrReservedCharacter, r, i)
}

// Serialize converts a document tree to markdown without a trailing
// newline. Nodes outside the schema contract, such as a table without rows,
// produce no output. Recovers from panics and reports them as ErrSerialize.
func (c *Codec) Serialize(doc *Node) (out string, err error) {
	if doc == nil {
		return "", ErrNilDocument
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrSerialize, r)
		}
	}()
	return newSerializerState(c.cfg.bulletMarker).serialize(doc), nil
}
