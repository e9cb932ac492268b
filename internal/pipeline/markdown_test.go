package pipeline

import (
	"strings"
	"testing"
)

func TestMarkdownExporter_Export(t *testing.T) {
	t.Parallel()

	p := NewPage("index.html", mustParse(t, page("Home",
		`<h1>Welcome</h1>`+checkIcon+checkIcon+`<table><tr><th>k</th></tr><tr><td>v</td></tr></table><a href="/docs">docs</a>`)))
	p.Index, p.Anchor = 1, "page-1"

	m, err := Merge([]*Page{p}, MergeOptions{TOC: true, TOCTitle: "Contents"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	DedupeSVGs(m.Doc)

	md, err := NewMarkdownExporter().Export(m, "https://example.com")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, want := range []string{"# Welcome", "| k |", "https://example.com/docs"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "svg-sym-") || strings.Contains(md, "<svg") {
		t.Errorf("sprite leaked into markdown\n%s", md)
	}
	if !strings.HasSuffix(md, "\n") {
		t.Error("markdown should end with a newline")
	}
}
