package pipeline

import (
	"fmt"
	"os"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Page is one parsed snapshot page. Rewriting, flattening and extraction
// mutate Doc in place.
type Page struct {
	Path        string     // snapshot-relative, slash separated
	Doc         *html.Node // full parsed document
	Content     *html.Node // extracted content root, nil until ExtractContent
	Title       string
	Index       int    // 1-based position in the merged document
	Anchor      string // id of the page section, "page-<Index>"
	Stylesheets []string

	stats RewriteStats
}

// LoadPage reads and parses rel from the snapshot.
func LoadPage(snap *Snapshot, rel string) (*Page, error) {
	f, err := os.Open(snap.AbsPath(rel)) // #nosec G304 -- path comes from the snapshot scan
	if err != nil {
		return nil, fmt.Errorf("opening page %s: %w", rel, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := parseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", rel, err)
	}
	return NewPage(rel, doc), nil
}

// NewPage wraps an already parsed document.
func NewPage(rel string, doc *html.Node) *Page {
	return &Page{Path: rel, Doc: doc, Title: pageTitle(doc, rel)}
}

// Stats returns the counters of the last rewrite.
func (p *Page) Stats() RewriteStats { return p.stats }

// pageTitle derives a title: <title>, then the first <h1>, then the file name.
func pageTitle(doc *html.Node, rel string) string {
	if t := findElement(doc, "title"); t != nil {
		if s := textContent(t); s != "" {
			return s
		}
	}
	if h := findElement(doc, "h1"); h != nil {
		if s := textContent(h); s != "" {
			return s
		}
	}
	return titleFromPath(rel)
}

// titleFromPath turns "guide/install.html" into "install" and
// "guide/index.html" into "guide".
func titleFromPath(rel string) string {
	base := path.Base(rel)
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "index" {
		if dir := path.Base(path.Dir(rel)); dir != "." && dir != "/" {
			name = dir
		}
	}
	return name
}
