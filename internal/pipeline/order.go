package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Order selects how pages after the crawl root are sequenced.
type Order string

const (
	// OrderPath sorts by snapshot-relative path, byte-wise.
	OrderPath Order = "path"
	// OrderNav follows the root page's navigation, then path order.
	OrderNav Order = "nav"
)

// ParseOrder parses an order name; "" means OrderPath.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderPath:
		return OrderPath, nil
	case OrderNav:
		return OrderNav, nil
	default:
		return "", fmt.Errorf("unknown page order %q (must be path or nav)", s)
	}
}

// OrderPages returns pages with the root page first and the rest in the
// requested order, and assigns Index and Anchor. Paths are unique, so the
// result is the same on every run. navPaths is only read for OrderNav.
func OrderPages(pages []*Page, rootRel string, order Order, navPaths []string) []*Page {
	byPath := make(map[string]*Page, len(pages))
	for _, p := range pages {
		byPath[p.Path] = p
	}

	ordered := make([]*Page, 0, len(pages))
	placed := make(map[string]bool, len(pages))
	place := func(rel string) {
		if p, ok := byPath[rel]; ok && !placed[rel] {
			ordered = append(ordered, p)
			placed[rel] = true
		}
	}

	place(rootRel)
	if order == OrderNav {
		for _, rel := range navPaths {
			place(rel)
		}
	}

	rest := make([]string, 0, len(pages))
	for rel := range byPath {
		if !placed[rel] {
			rest = append(rest, rel)
		}
	}
	sort.Strings(rest)
	for _, rel := range rest {
		place(rel)
	}

	for i, p := range ordered {
		p.Index = i + 1
		p.Anchor = fmt.Sprintf("page-%d", p.Index)
	}
	return ordered
}

// Anchors maps each page path to its section anchor.
func Anchors(pages []*Page) map[string]string {
	m := make(map[string]string, len(pages))
	for _, p := range pages {
		m[p.Path] = p.Anchor
	}
	return m
}

// NavLinks returns the snapshot pages linked from root's navigation in link
// order: MkDocs Material navigation when present, else the first <nav>.
// It must run before references are rewritten.
func NavLinks(root *Page, norm *Normalizer) []string {
	doc := goquery.NewDocumentFromNode(root.Doc)
	links := doc.Find("nav.md-nav a.md-nav__link")
	if links.Length() == 0 {
		links = doc.Find("nav").First().Find("a[href]")
	}

	var paths []string
	seen := make(map[string]bool)
	links.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		ref, err := norm.Resolve(root.Path, href)
		if err != nil || ref.Kind != RefLocal || !norm.Snapshot().IsPage(ref.Path) || seen[ref.Path] {
			return
		}
		seen[ref.Path] = true
		paths = append(paths, ref.Path)
	})
	return paths
}
