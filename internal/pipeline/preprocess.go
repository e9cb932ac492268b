package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
)

// PreprocessOptions configures the per-page pass.
type PreprocessOptions struct {
	Workers     int                   // <= 1 runs sequentially
	KeepNav     bool                  // keep <nav> elements in extracted content
	Highlighter *Highlighter          // nil disables highlighting
	OnPage      func(done, total int) // called from worker goroutines
}

// PageReport summarizes what preprocessing changed on one page.
type PageReport struct {
	Path        string
	Details     int
	Tabs        int
	SVGs        int
	Highlighted int
	Rewrite     RewriteStats
}

// Preprocess runs details expansion, tab flattening, reference rewriting,
// SVG normalization, highlighting and content extraction on every page.
// Pages are independent, so they are spread over opts.Workers goroutines;
// reports are stored by index and keep the input order.
func Preprocess(ctx context.Context, pages []*Page, rw *Rewriter, opts PreprocessOptions) ([]PageReport, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	reports := make([]PageReport, len(pages))
	var done atomic.Int64
	var wg sync.WaitGroup
	jobs := make(chan int, len(pages))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				reports[idx] = preprocessPage(pages[idx], rw, opts)
				n := done.Add(1)
				if opts.OnPage != nil {
					opts.OnPage(int(n), len(pages))
				}
			}
		}()
	}

	for i := range pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func preprocessPage(p *Page, rw *Rewriter, opts PreprocessOptions) PageReport {
	r := PageReport{Path: p.Path}
	r.Details = ExpandDetails(p.Doc)
	r.Tabs = FlattenTabs(p.Doc)
	r.Rewrite = rw.Rewrite(p)
	r.SVGs = NormalizeSVGs(p.Doc)
	if opts.Highlighter != nil {
		r.Highlighted = opts.Highlighter.Highlight(p.Doc)
	}
	ExtractContent(p, opts.KeepNav)
	return r
}
