package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// linkAttrs names the attribute holding a local path, per element. Script,
// media and source elements are never rewritten.
var linkAttrs = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// pathRewriter turns relative links of a preview into file:// URLs under the
// directory of the markdown file. Links resolving outside it stay as written.
type pathRewriter struct {
	dir string
}

// newPathRewriter returns nil when sourceDir is empty, which disables
// rewriting.
func newPathRewriter(sourceDir string) (*pathRewriter, error) {
	if sourceDir == "" {
		return nil, nil
	}
	dir, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, err
	}
	return &pathRewriter{dir: dir}, nil
}

func (p *pathRewriter) rewrite(n *html.Node) {
	if p == nil {
		return
	}
	key, ok := linkAttrs[n.DataAtom]
	if !ok {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key != key {
			continue
		}
		if u, ok := p.fileURL(n.Attr[i].Val); ok {
			n.Attr[i].Val = u
		}
	}
}

// fileURL resolves a relative link against the source directory. Query and
// fragment are kept.
func (p *pathRewriter) fileURL(link string) (string, bool) {
	u, ok := localLink(link)
	if !ok {
		return "", false
	}
	target := filepath.Join(p.dir, filepath.FromSlash(u.Path))
	if !within(p.dir, target) {
		return "", false
	}
	path := filepath.ToSlash(target)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	out := url.URL{Scheme: "file", Path: path, RawQuery: u.RawQuery, Fragment: u.Fragment}
	return out.String(), true
}

// localLink parses link and reports whether it is a relative filesystem
// path. Anchors, scheme URLs, protocol-relative and rooted links are not.
func localLink(link string) (*url.URL, bool) {
	if link == "" || strings.HasPrefix(link, "#") || strings.HasPrefix(link, "/") || strings.HasPrefix(link, `\`) {
		return nil, false
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || filepath.IsAbs(u.Path) {
		return nil, false
	}
	return u, true
}

// within reports whether target is dir or lies below it.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
