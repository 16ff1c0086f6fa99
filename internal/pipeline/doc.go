// Package pipeline implements the text stages around the markdown parser.
//
// Before parsing:
//   - line ending normalization
//   - comment wrappers replaced by Private Use Area sentinels
//   - <img> tags rewritten as markdown images with a layout side table
//
// After parsing, for the HTML preview only:
//   - Markdown to HTML conversion via Goldmark with chroma highlighting
//   - sentinel resolution into <mark class="comment"> elements
//   - image layout and relative path rewriting
//   - CSS injection
//
// Fenced code blocks and inline code spans are never rewritten. The
// document tree stages live in the root mddoc package.
package pipeline
