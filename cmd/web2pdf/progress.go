package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	web2pdf "github.com/alnah/go-web2pdf"
)

// stageLabels are the progress lines printed when a stage starts.
var stageLabels = map[web2pdf.Stage]string{
	web2pdf.StageDownload:   "Downloading site",
	web2pdf.StageLocate:     "Locating snapshot",
	web2pdf.StagePreprocess: "Processing pages",
	web2pdf.StageMerge:      "Merging pages",
	web2pdf.StageRender:     "Rendering PDF",
	web2pdf.StageVerify:     "Verifying PDF",
}

// progress reports stages as lines and page preprocessing as a bar.
// A quiet progress reports nothing.
type progress struct {
	w     io.Writer
	quiet bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer, quiet bool) *progress {
	return &progress{w: w, quiet: quiet}
}

// Hooks returns the converter hooks feeding this progress.
func (p *progress) Hooks() web2pdf.Hooks {
	if p.quiet {
		return web2pdf.Hooks{}
	}
	return web2pdf.Hooks{Stage: p.stage, Page: p.page}
}

func (p *progress) stage(s web2pdf.Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
	label, ok := stageLabels[s]
	if !ok {
		label = string(s)
	}
	fmt.Fprintf(p.w, "==> %s\n", label)
}

// page is called from preprocessing workers.
func (p *progress) page(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("    pages"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(p.w)
			}),
		)
	}
	_ = p.bar.Set(done)
}
