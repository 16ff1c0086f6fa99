package pipeline

import (
	"regexp"
)

// Line ending normalization.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Preprocessed is markdown ready for the tokenizer together with the side
// tables needed to restore what the rewrite removed.
type Preprocessed struct {
	// Text is the rewritten markdown.
	Text string

	// Comments maps sentinel ids to comment texts.
	Comments map[int]string

	// Images maps image sources to their non-default layout attributes.
	Images map[string]ImageAttrs
}

// Preprocess normalizes line endings, then replaces comment wrappers with
// sentinels and <img> tags with markdown images. Fenced code and inline code
// spans are never rewritten. Preprocess never fails: malformed wrappers and
// tags are left as literal text.
func Preprocess(content string) Preprocessed {
	content = normalizeLineEndings(content)
	content, comments := extractComments(content)
	content, images := extractImages(content)
	return Preprocessed{
		Text:     content,
		Comments: comments,
		Images:   images,
	}
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
