// Package mddoc converts between markdown and a typed document tree for
// rich-text editors.
//
// # Quick Start
//
// Parse markdown, edit the tree, and serialize it back:
//
//	doc, err := mddoc.Parse("# Hello\n\nSome *text*.")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := mddoc.Serialize(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parsing is stable: serializing a parsed tree and parsing the result yields
// an equal tree.
//
// # Document Tree
//
// A tree is a doc Node holding block nodes (paragraph, heading, blockquote,
// lists, code_block, horizontal_rule, table). Paragraphs and headings hold
// inline nodes: text runs, images and hard breaks. Text runs carry marks in
// rank order: comment, link, em, strong, strike, code.
//
// Validate a hand-built tree before serializing it:
//
//	if err := mddoc.NewSchema().Validate(doc); err != nil {
//	    log.Fatal(err)
//	}
//
// # Dialect
//
// The supported dialect is CommonMark plus GFM pipe tables and
// strikethrough, with two HTML extensions:
//
//	<img src="diagram.png" align="center" width="50%">
//	<!-- COMMENT: "check this" -->annotated text<!-- /COMMENT -->
//
// Images become image nodes carrying align and width. Comment wrappers
// become comment marks on the text they enclose, across other marks and
// inline boundaries. All other raw HTML is dropped.
//
// Table cells hold plain text only: marks inside cells are not kept.
//
// # Configuration
//
// Use functional options to customize a Codec:
//
//	codec, err := mddoc.NewCodec(
//	    mddoc.WithBulletMarker("*"),
//	    mddoc.WithStripReserved(true),
//	    mddoc.WithStyle("plain"),
//	)
//
// The code points U+E000 to U+E003 are reserved. Input containing them is
// rejected with ErrReservedCharacter unless WithStripReserved is set.
//
// # HTML Preview
//
// RenderHTML renders the same dialect to a standalone HTML5 page with
// highlighted comments, laid-out images and an embedded stylesheet:
//
//	page, err := codec.RenderHTML(ctx, markdown, mddoc.HTMLOptions{
//	    Title:     "Notes",
//	    SourceDir: "/path/to/markdown", // for relative image paths
//	})
//
// # Custom Assets
//
// Override the built-in preview styles with an asset directory:
//
//	codec, err := mddoc.NewCodec(mddoc.WithAssetPath("/path/to/assets"))
//
// Asset directory structure:
//
//	assets/
//	└── styles/
//	    └── custom.css
//
// Missing styles fall back to the embedded ones.
package mddoc
