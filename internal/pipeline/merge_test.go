package pipeline

// Notes:
// - TestMerge_ThreePageSite runs the whole per-page pass on a real snapshot
//   directory; the other tests feed hand-built pages to Merge directly.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mergePages(t *testing.T, specs ...[2]string) []*Page {
	t.Helper()
	var pages []*Page
	for i, s := range specs {
		p := NewPage(s[0], mustParse(t, page(titleFromPath(s[0]), s[1])))
		p.Index = i + 1
		p.Anchor = fmt.Sprintf("page-%d", i+1)
		pages = append(pages, p)
	}
	return pages
}

// bodyBlocks lists the body children as "class" or "tag#id" tokens.
func bodyBlocks(doc *html.Node) []string {
	var out []string
	body := findElement(doc, "body")
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if id, ok := getAttr(c, "id"); ok {
			out = append(out, c.Data+"#"+id)
			continue
		}
		class, _ := getAttr(c, "class")
		out = append(out, class)
	}
	return out
}

// ---------------------------------------------------------------------------
// TestMerge
// ---------------------------------------------------------------------------

func TestMerge_SectionsAndTOC(t *testing.T) {
	t.Parallel()

	for _, k := range []int{1, 2, 7} {
		specs := make([][2]string, k)
		for i := range specs {
			specs[i] = [2]string{fmt.Sprintf("p%d.html", i), "<p>body</p>"}
		}
		m, err := Merge(mergePages(t, specs...), MergeOptions{Title: "Site", TOC: true, TOCTitle: "Contents"})
		if err != nil {
			t.Fatalf("Merge(%d pages): %v", k, err)
		}
		if m.Sections != k || len(m.PageSections()) != k {
			t.Errorf("k=%d: sections = %d/%d", k, m.Sections, len(m.PageSections()))
		}
		if len(m.TOC) != k || countElements(m.Doc, "li", "") != k {
			t.Errorf("k=%d: toc entries = %d/%d", k, len(m.TOC), countElements(m.Doc, "li", ""))
		}
		for i, s := range m.PageSections() {
			id, _ := getAttr(s, "id")
			if id != m.TOC[i].Anchor {
				t.Errorf("k=%d: section %d id %q != toc anchor %q", k, i, id, m.TOC[i].Anchor)
			}
		}
	}
}

func TestMerge_PageBreaks(t *testing.T) {
	t.Parallel()

	specs := [][2]string{{"index.html", "<p>home</p>"}, {"b.html", "<p>b</p>"}}

	tests := []struct {
		name string
		opts MergeOptions
		want []string
	}{
		{
			name: "no toc",
			want: []string{"section#page-1", "page-break", "section#page-2"},
		},
		{
			name: "toc",
			opts: MergeOptions{TOC: true},
			want: []string{"site-toc", "page-break", "section#page-1", "page-break", "section#page-2"},
		},
		{
			name: "cover, toc and preface",
			opts: MergeOptions{TOC: true, CoverHTML: `<div class="cover"><h1>Docs</h1></div>`, PrefaceHTML: "<p>read me</p>"},
			want: []string{
				"cover-page", "page-break", "site-toc", "page-break", "preface",
				"page-break", "section#page-1", "page-break", "section#page-2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := Merge(mergePages(t, specs...), tt.opts)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if got := bodyBlocks(m.Doc); strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("blocks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMerge_Head(t *testing.T) {
	t.Parallel()

	m, err := Merge(mergePages(t, [2]string{"index.html", "<p>x</p>"}), MergeOptions{
		Title:       "A & B",
		Lang:        "en",
		CSS:         "p { color: red } </style><script>",
		Stylesheets: []string{"file:///s/a.css", "file:///s/b.css", "file:///s/a.css"},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	out := m.String()
	for _, want := range []string{
		`<html lang="en">`,
		`<title>A &amp; B</title>`,
		`<link rel="stylesheet" href="file:///s/a.css"/><link rel="stylesheet" href="file:///s/b.css"/><style>`,
		`<\/style><script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Count(out, "a.css") != 1 {
		t.Error("duplicate stylesheet linked twice")
	}
}

func TestMerge_TOCUsesTitlesEscaped(t *testing.T) {
	t.Parallel()

	p := NewPage("index.html", mustParse(t, page("Q&amp;A <b>", "<p>x</p>")))
	p.Index, p.Anchor = 1, "page-1"

	m, err := Merge([]*Page{p}, MergeOptions{TOC: true, TOCTitle: "Contents"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if m.TOC[0].Title != "Q&A <b>" {
		t.Errorf("TOC title = %q", m.TOC[0].Title)
	}
	if out := m.String(); !strings.Contains(out, `<a href="#page-1">Q&amp;A &lt;b&gt;</a>`) {
		t.Errorf("toc entry not escaped\n%s", out)
	}
}

func TestMerge_NoPages(t *testing.T) {
	t.Parallel()

	if _, err := Merge(nil, MergeOptions{}); !errors.Is(err, ErrNoPages) {
		t.Errorf("error = %v, want ErrNoPages", err)
	}
}

// ---------------------------------------------------------------------------
// TestMerge_ThreePageSite
// ---------------------------------------------------------------------------

func TestMerge_ThreePageSite(t *testing.T) {
	t.Parallel()

	snap := writeSite(t, map[string]string{
		"index.html": page("Home", `<main><h1>Welcome</h1><a href="guide.html">guide</a><a href="api.html">api</a></main>`),
		"guide.html": page("Guide", `<main><h1>Guide</h1><img src="img/missing.png"></main>`),
		"api.html":   page("API", `<main><h1>API</h1><a href="index.html">home</a></main>`),
	})
	norm := mustNormalizer(t, snap, "https://example.com/")

	var pages []*Page
	for _, rel := range snap.Pages() {
		p, err := LoadPage(snap, rel)
		if err != nil {
			t.Fatal(err)
		}
		pages = append(pages, p)
	}
	ordered := OrderPages(pages, norm.RootPage(), OrderPath, nil)

	rw := NewRewriter(norm, Anchors(ordered), nil)
	reports, err := Preprocess(context.Background(), ordered, rw, PreprocessOptions{})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if reports[2].Rewrite.Missing != 1 {
		t.Errorf("guide missing refs = %d, want 1 (non-fatal)", reports[2].Rewrite.Missing)
	}

	m, err := Merge(ordered, MergeOptions{Title: "Home", TOC: true, TOCTitle: "Contents"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	var sources []string
	for _, s := range m.PageSections() {
		src, _ := getAttr(s, "data-source")
		sources = append(sources, src)
		prev := s.PrevSibling
		if prev == nil || !hasClass(prev, "page-break") {
			t.Errorf("section %s not preceded by a page break", src)
		}
	}
	if got := strings.Join(sources, ","); got != "index.html,api.html,guide.html" {
		t.Errorf("section order = %s", got)
	}

	var toc []string
	for _, e := range m.TOC {
		toc = append(toc, e.Title)
	}
	if got := strings.Join(toc, ","); got != "Home,API,Guide" {
		t.Errorf("toc = %s", got)
	}

	out := m.String()
	for _, want := range []string{`<a href="#page-3">guide</a>`, `<a href="#page-2">api</a>`, `<a href="#page-1">home</a>`} {
		if !strings.Contains(out, want) {
			t.Errorf("cross-page link %q not rewritten", want)
		}
	}
}
