package pipeline

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// contentSelectors are tried in order; the first match is the page content.
var contentSelectors = []string{
	"main",
	"article",
	"div#main-content",
	"div.content",
	`[role="main"]`,
	"body",
}

// ExtractContent selects the main content of p and strips scripts, styles
// and (unless keepNav) navigation from it. The result is stored in
// p.Content and returned.
func ExtractContent(p *Page, keepNav bool) *html.Node {
	doc := goquery.NewDocumentFromNode(p.Doc)

	var content *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			content = s
			break
		}
	}
	if content == nil {
		p.Content = p.Doc
		return p.Content
	}

	strip := "script, style, noscript, template"
	if !keepNav {
		strip += ", nav"
	}
	content.Find(strip).Remove()

	p.Content = content.Nodes[0]
	return p.Content
}
