package mddoc

import "fmt"

// Option configures a Codec.
type Option func(*Codec)

// codecConfig holds internal configuration for Codec.
type codecConfig struct {
	bulletMarker   string
	stripReserved  bool
	maxInputSize   int
	assetPath      string
	style          string
	highlightStyle string
}

// DefaultMaxInputSize bounds the markdown accepted by Parse and RenderHTML.
const DefaultMaxInputSize = 10 << 20

// WithBulletMarker sets the bullet list marker: "-", "*" or "+".
// Panics on any other value (programmer error).
func WithBulletMarker(marker string) Option {
	switch marker {
	case "-", "*", "+":
	default:
		panic(fmt.Sprintf("mddoc: invalid bullet marker %q", marker))
	}
	return func(c *Codec) {
		c.cfg.bulletMarker = marker
	}
}

// WithStripReserved makes Parse drop the code points reserved for comment
// sentinels instead of rejecting input holding them.
func WithStripReserved(strip bool) Option {
	return func(c *Codec) {
		c.cfg.stripReserved = strip
	}
}

// WithMaxInputSize sets the largest input in bytes. Zero disables the limit.
// Panics if n < 0 (programmer error).
func WithMaxInputSize(n int) Option {
	if n < 0 {
		panic("mddoc: WithMaxInputSize must not be negative")
	}
	return func(c *Codec) {
		c.cfg.maxInputSize = n
	}
}

// WithAssetPath sets a directory whose styles/ override the embedded
// preview stylesheets.
func WithAssetPath(path string) Option {
	return func(c *Codec) {
		c.cfg.assetPath = path
	}
}

// WithStyle sets the preview stylesheet: a style name, a path to a CSS file,
// or CSS content.
func WithStyle(style string) Option {
	return func(c *Codec) {
		c.cfg.style = style
	}
}

// WithHighlightStyle sets the chroma style of highlighted code in previews.
func WithHighlightStyle(name string) Option {
	return func(c *Codec) {
		c.cfg.highlightStyle = name
	}
}
