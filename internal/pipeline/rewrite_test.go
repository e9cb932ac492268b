package pipeline

// Notes:
// - file:// expectations are built with pathToFileURL from the snapshot
//   root, so they hold on any OS temp directory layout.

import (
	"reflect"
	"strings"
	"testing"
)

func rewriteSite(t *testing.T) (*Snapshot, *Rewriter) {
	t.Helper()
	snap := writeSite(t, map[string]string{
		"index.html":         page("Home", ""),
		"api.html":           page("API", `<h2 id="auth">Auth</h2><h2 id="usage">Usage</h2>`),
		"guide/install.html": page("Install", `<h2 id="usage">Usage</h2>`),
		"css/site.css":       "body{}",
		"img/logo.png":       "png",
		"img/logo@2x.png":    "png",
		"img/icons.svg":      "<svg/>",
		"files/manual.pdf":   "pdf",
	})
	norm := mustNormalizer(t, snap, "https://docs.example.com/")
	anchors := map[string]string{"index.html": "page-1", "api.html": "page-2", "guide/install.html": "page-3"}
	rw := NewRewriter(norm, anchors, nil)

	var pages []*Page
	for _, rel := range []string{"index.html", "api.html", "guide/install.html"} {
		p, err := LoadPage(snap, rel)
		if err != nil {
			t.Fatal(err)
		}
		pages = append(pages, p)
	}
	rw.IndexIDs(pages)
	return snap, rw
}

// ---------------------------------------------------------------------------
// TestRewriter_Rewrite
// ---------------------------------------------------------------------------

func TestRewriter_Rewrite(t *testing.T) {
	t.Parallel()

	snap, rw := rewriteSite(t)
	fileURL := func(rel string) string { return pathToFileURL(snap.AbsPath(rel)) }

	tests := []struct {
		name         string
		pagePath     string
		body         string
		wantContains []string
		wantMissing  int
	}{
		{
			name:         "image to file url",
			pagePath:     "guide/install.html",
			body:         `<img src="../img/logo.png">`,
			wantContains: []string{`src="` + fileURL("img/logo.png") + `"`},
		},
		{
			name:         "page link to anchor",
			pagePath:     "index.html",
			body:         `<a href="guide/install.html">Install</a>`,
			wantContains: []string{`href="#page-3"`},
		},
		{
			name:         "page link with fragment",
			pagePath:     "index.html",
			body:         `<a href="api.html#auth">Auth</a>`,
			wantContains: []string{`href="#auth"`},
		},
		{
			name:         "fragment defined on several pages",
			pagePath:     "index.html",
			body:         `<a href="guide/install.html#usage">Usage</a>`,
			wantContains: []string{`href="#page-3"`},
		},
		{
			name:         "fragment absent from target page",
			pagePath:     "index.html",
			body:         `<a href="guide/install.html#auth">Auth</a>`,
			wantContains: []string{`href="#page-3"`},
		},
		{
			name:         "download link to file url",
			pagePath:     "index.html",
			body:         `<a href="/files/manual.pdf">PDF</a>`,
			wantContains: []string{`href="` + fileURL("files/manual.pdf") + `"`},
		},
		{
			name:         "missing page becomes site url",
			pagePath:     "guide/install.html",
			body:         `<a href="../deep/page.html">Deep</a>`,
			wantContains: []string{`href="https://docs.example.com/deep/page.html"`},
			wantMissing:  1,
		},
		{
			name:         "missing asset unchanged",
			pagePath:     "index.html",
			body:         `<img src="img/gone.png">`,
			wantContains: []string{`src="img/gone.png"`},
			wantMissing:  1,
		},
		{
			name:         "external untouched",
			pagePath:     "index.html",
			body:         `<a href="https://github.com/x/y">src</a><img src="data:image/png;base64,AA">`,
			wantContains: []string{`href="https://github.com/x/y"`, `src="data:image/png;base64,AA"`},
		},
		{
			name:         "srcset keeps descriptors",
			pagePath:     "index.html",
			body:         `<img srcset="img/logo.png 1x, img/logo@2x.png 2x">`,
			wantContains: []string{fileURL("img/logo.png") + ` 1x, ` + fileURL("img/logo@2x.png") + ` 2x`},
		},
		{
			name:         "svg use xlink href",
			pagePath:     "index.html",
			body:         `<svg><use xlink:href="img/icons.svg#home"></use></svg>`,
			wantContains: []string{`xlink:href="` + fileURL("img/icons.svg") + `#home"`},
		},
		{
			name:         "svg local symbol untouched",
			pagePath:     "index.html",
			body:         `<svg><use href="#home"></use></svg>`,
			wantContains: []string{`href="#home"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPage(tt.pagePath, mustParse(t, page("T", tt.body)))
			stats := rw.Rewrite(p)

			out := mustRender(t, p.Doc)
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\n%s", want, out)
				}
			}
			if stats.Missing != tt.wantMissing {
				t.Errorf("Missing = %d, want %d (%v)", stats.Missing, tt.wantMissing, stats.Unresolved)
			}
		})
	}
}

func TestRewriter_Idempotent(t *testing.T) {
	t.Parallel()

	_, rw := rewriteSite(t)
	body := `<link rel="stylesheet" href="css/site.css">
<img src="img/logo.png" srcset="img/logo.png 1x, img/logo@2x.png 2x">
<a href="api.html">API</a> <a href="nowhere.html">gone</a> <a href="#top">top</a>
<svg><use xlink:href="img/icons.svg#x"></use></svg>`

	p := NewPage("index.html", mustParse(t, page("Home", body)))
	rw.Rewrite(p)
	once := mustRender(t, p.Doc)

	rw.Rewrite(p)
	twice := mustRender(t, p.Doc)

	if once != twice {
		t.Errorf("second rewrite changed the document\nonce:  %s\ntwice: %s", once, twice)
	}
}

func TestRewriter_CollectsStylesheets(t *testing.T) {
	t.Parallel()

	snap, rw := rewriteSite(t)
	doc := mustParse(t, `<html><head>
<link rel="stylesheet" href="css/site.css">
<link rel="icon" href="img/logo.png">
<link rel="preload stylesheet" href="https://fonts.example.net/f.css">
</head><body></body></html>`)
	p := NewPage("index.html", doc)
	rw.Rewrite(p)

	want := []string{pathToFileURL(snap.AbsPath("css/site.css")), "https://fonts.example.net/f.css"}
	if !reflect.DeepEqual(p.Stylesheets, want) {
		t.Errorf("Stylesheets = %v, want %v", p.Stylesheets, want)
	}
}
