package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func preprocessSite(t *testing.T, n int) (*Rewriter, func() []*Page) {
	t.Helper()
	files := map[string]string{"index.html": page("Home", `<main>`+pymdownxTabs+`</main>`)}
	for i := range n - 1 {
		files[fmt.Sprintf("p%02d.html", i)] = page(fmt.Sprintf("P%d", i),
			`<main><details><summary>s</summary>x</details>`+checkIcon+`<pre><code class="language-go">var x = 1</code></pre><a href="index.html">home</a></main><script>x()</script>`)
	}
	snap := writeSite(t, files)
	norm := mustNormalizer(t, snap, "https://example.com/")

	load := func() []*Page {
		var pages []*Page
		for _, rel := range snap.Pages() {
			p, err := LoadPage(snap, rel)
			if err != nil {
				t.Fatal(err)
			}
			pages = append(pages, p)
		}
		return OrderPages(pages, norm.RootPage(), OrderPath, nil)
	}
	return NewRewriter(norm, Anchors(load()), nil), load
}

func TestPreprocess(t *testing.T) {
	t.Parallel()

	rw, load := preprocessSite(t, 4)
	pages := load()

	var mu sync.Mutex
	var calls []int
	reports, err := Preprocess(context.Background(), pages, rw, PreprocessOptions{
		Highlighter: NewHighlighter("github"),
		OnPage: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, done)
			if total != 4 {
				t.Errorf("total = %d, want 4", total)
			}
		},
	})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if len(calls) != 4 {
		t.Errorf("OnPage called %d times, want 4", len(calls))
	}

	if reports[0].Path != "index.html" || reports[0].Tabs != 1 {
		t.Errorf("root report = %+v", reports[0])
	}
	for _, r := range reports[1:] {
		if r.Details != 1 || r.SVGs != 1 || r.Highlighted != 1 || r.Rewrite.Links != 1 {
			t.Errorf("report %s = %+v", r.Path, r)
		}
	}
	for _, p := range pages {
		if p.Content == nil {
			t.Errorf("%s: content not extracted", p.Path)
		}
		if countElements(p.Content, "script", "") != 0 {
			t.Errorf("%s: script survived extraction", p.Path)
		}
	}
}

func TestPreprocess_WorkersMatchSequential(t *testing.T) {
	t.Parallel()

	rw, load := preprocessSite(t, 9)

	render := func(workers int) []string {
		pages := load()
		if _, err := Preprocess(context.Background(), pages, rw, PreprocessOptions{Workers: workers}); err != nil {
			t.Fatalf("Preprocess(workers=%d): %v", workers, err)
		}
		out := make([]string, len(pages))
		for i, p := range pages {
			out[i] = mustRender(t, p.Content)
		}
		return out
	}

	seq := render(1)
	par := render(4)
	for i := range seq {
		if seq[i] != par[i] {
			t.Errorf("page %d differs between sequential and parallel runs", i)
		}
	}
}

func TestPreprocess_Cancelled(t *testing.T) {
	t.Parallel()

	rw, load := preprocessSite(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Preprocess(ctx, load(), rw, PreprocessOptions{Workers: 2}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestPreprocess_Empty(t *testing.T) {
	t.Parallel()

	reports, err := Preprocess(context.Background(), nil, nil, PreprocessOptions{})
	if err != nil || reports != nil {
		t.Errorf("Preprocess(nil) = %v, %v", reports, err)
	}
}
