package pipeline

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoPages indicates a merge without any page.
var ErrNoPages = errors.New("no pages to merge")

const mergedSkeleton = `<!DOCTYPE html><html><head><meta charset="utf-8"><title></title></head><body></body></html>`

// MergeOptions configures the merged document.
type MergeOptions struct {
	Title       string
	Lang        string
	CSS         string   // print stylesheet, inlined last so it wins
	Stylesheets []string // site stylesheet URLs, linked in first-seen order
	CoverHTML   string   // rendered cover block, "" for none
	PrefaceHTML string   // rendered Markdown preface, "" for none
	TOC         bool
	TOCTitle    string
}

// TOCEntry is one line of the generated table of contents.
type TOCEntry struct {
	Title  string
	Anchor string
	Source string
}

// MergedDocument is the single printable document built from all pages.
// TOC order equals section order.
type MergedDocument struct {
	Doc      *html.Node
	Sections int
	TOC      []TOCEntry
}

// Merge concatenates pages, already ordered and preprocessed, into one
// document. Each page yields exactly one section and, with TOC enabled,
// exactly one table of contents entry. A page-break marker precedes every
// section that is not the first block of the document.
func Merge(pages []*Page, opts MergeOptions) (*MergedDocument, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	doc, err := parseDocument(strings.NewReader(mergedSkeleton))
	if err != nil {
		return nil, err
	}
	head := findElement(doc, "head")
	body := findElement(doc, "body")
	if opts.Lang != "" {
		setAttr(findElement(doc, "html"), "lang", opts.Lang)
	}
	findElement(head, "title").AppendChild(&html.Node{Type: html.TextNode, Data: opts.Title})

	seen := make(map[string]bool)
	for _, href := range opts.Stylesheets {
		if seen[href] {
			continue
		}
		seen[href] = true
		head.AppendChild(newElement("link",
			html.Attribute{Key: "rel", Val: "stylesheet"},
			html.Attribute{Key: "href", Val: href}))
	}
	if opts.CSS != "" {
		style := newElement("style")
		style.AppendChild(&html.Node{Type: html.TextNode, Data: sanitizeCSS(opts.CSS)})
		head.AppendChild(style)
	}

	m := &MergedDocument{Doc: doc}
	started := false
	appendBlock := func(n *html.Node) {
		if started {
			body.AppendChild(pageBreak())
		}
		body.AppendChild(n)
		started = true
	}

	if opts.CoverHTML != "" {
		cover, err := fragmentBlock("cover-page", opts.CoverHTML)
		if err != nil {
			return nil, err
		}
		appendBlock(cover)
	}

	var tocList *html.Node
	if opts.TOC {
		nav := newElement("nav", html.Attribute{Key: "class", Val: "site-toc"})
		if opts.TOCTitle != "" {
			nav.AppendChild(newTextElement("h1", opts.TOCTitle))
		}
		tocList = newElement("ol")
		nav.AppendChild(tocList)
		appendBlock(nav)
	}

	if opts.PrefaceHTML != "" {
		preface, err := fragmentBlock("preface", opts.PrefaceHTML)
		if err != nil {
			return nil, err
		}
		appendBlock(preface)
	}

	for _, p := range pages {
		appendBlock(section(p))
		m.Sections++
		if tocList != nil {
			entry := TOCEntry{Title: p.Title, Anchor: p.Anchor, Source: p.Path}
			li := newElement("li")
			li.AppendChild(newTextElement("a", entry.Title, html.Attribute{Key: "href", Val: "#" + entry.Anchor}))
			tocList.AppendChild(li)
			m.TOC = append(m.TOC, entry)
		}
	}
	return m, nil
}

// section moves the page content into a <section> carrying its anchor.
func section(p *Page) *html.Node {
	anchor := p.Anchor
	if anchor == "" {
		anchor = "page-" + strconv.Itoa(p.Index)
	}
	s := newElement("section",
		html.Attribute{Key: "class", Val: "page"},
		html.Attribute{Key: "id", Val: anchor},
		html.Attribute{Key: "data-source", Val: p.Path})

	content := p.Content
	if content == nil {
		content = findElement(p.Doc, "body")
	}
	if content != nil {
		moveChildren(s, content)
	}
	return s
}

func pageBreak() *html.Node {
	return newElement("div", html.Attribute{Key: "class", Val: "page-break"})
}

func fragmentBlock(class, content string) (*html.Node, error) {
	nodes, err := parseFragment(content)
	if err != nil {
		return nil, err
	}
	div := newElement("div", html.Attribute{Key: "class", Val: class})
	for _, n := range nodes {
		div.AppendChild(n)
	}
	return div, nil
}

// Render writes the document as HTML.
func (m *MergedDocument) Render(w io.Writer) error {
	return html.Render(w, m.Doc)
}

// String renders the document, returning "" on failure.
func (m *MergedDocument) String() string {
	s, err := renderNode(m.Doc)
	if err != nil {
		return ""
	}
	return s
}

// PageSections returns the page sections in document order.
func (m *MergedDocument) PageSections() []*html.Node {
	var out []*html.Node
	walk(m.Doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "section" && hasClass(n, "page") {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}
