package mddoc

import (
	"path/filepath"
	"strings"

	"github.com/alnah/go-mddoc/internal/fileutil"
)

// ResolveImageSources returns a tree where every image whose src can be
// expressed relative to baseDir carries that path in relativeSrc.
// Serialize writes relativeSrc in place of src. The input tree is not
// modified; unchanged subtrees are shared with it.
//
// resolve maps a src to its relative form, or to "" to leave the image
// unchanged. A nil resolve uses filepath.Rel against baseDir and keeps only
// paths that stay under baseDir. URLs are never resolved.
func ResolveImageSources(doc *Node, baseDir string, resolve func(src string) string) *Node {
	if doc == nil {
		return nil
	}
	if resolve == nil {
		resolve = relativeTo(baseDir)
	}
	return resolveImages(doc, resolve)
}

func resolveImages(n *Node, resolve func(string) string) *Node {
	if n.Type == NodeImage {
		src, _ := n.AttrString("src")
		if src == "" || fileutil.IsURL(src) {
			return n
		}
		rel := resolve(src)
		if rel == "" || rel == src {
			return n
		}
		return n.withAttrs(map[string]any{"relativeSrc": rel})
	}
	if len(n.Content) == 0 {
		return n
	}

	content := make([]*Node, len(n.Content))
	changed := false
	for i, c := range n.Content {
		content[i] = resolveImages(c, resolve)
		changed = changed || content[i] != c
	}
	if !changed {
		return n
	}
	return n.withContent(content)
}

// relativeTo resolves absolute paths under baseDir to slash-separated
// relative paths.
func relativeTo(baseDir string) func(string) string {
	base, err := filepath.Abs(baseDir)
	if baseDir == "" || err != nil {
		return func(string) string { return "" }
	}
	return func(src string) string {
		if !filepath.IsAbs(src) {
			return ""
		}
		rel, err := filepath.Rel(base, src)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return ""
		}
		return filepath.ToSlash(rel)
	}
}
