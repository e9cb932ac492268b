package web2pdf

import "github.com/alnah/go-web2pdf/internal/pipeline"

// Report is the debug summary written to report.yaml.
type Report struct {
	URL            string      `yaml:"url"`
	SnapshotRoot   string      `yaml:"snapshotRoot"`
	FilesFound     int         `yaml:"filesFound"`
	PagesFound     int         `yaml:"pagesFound"`
	PagesProcessed int         `yaml:"pagesProcessed"`
	Coverage       float64     `yaml:"coverage"` // processed / found
	Order          string      `yaml:"order"`
	NavItems       []string    `yaml:"navItems,omitempty"`
	Failed         []string    `yaml:"failed,omitempty"`
	Unresolved     []string    `yaml:"unresolved,omitempty"`
	PDFPages       int         `yaml:"pdfPages"`
	Pages          []PageEntry `yaml:"pages"`
}

// PageEntry records what preprocessing did to one page.
type PageEntry struct {
	Path        string `yaml:"path"`
	Title       string `yaml:"title"`
	Anchor      string `yaml:"anchor"`
	Details     int    `yaml:"details,omitempty"`
	Tabs        int    `yaml:"tabs,omitempty"`
	SVGs        int    `yaml:"svgs,omitempty"`
	Highlighted int    `yaml:"highlighted,omitempty"`
	Rewritten   int    `yaml:"rewritten"`
	Links       int    `yaml:"links"`
	Missing     int    `yaml:"missing,omitempty"`
}

func newPageEntry(p *pipeline.Page, r pipeline.PageReport) PageEntry {
	return PageEntry{
		Path:        p.Path,
		Title:       p.Title,
		Anchor:      p.Anchor,
		Details:     r.Details,
		Tabs:        r.Tabs,
		SVGs:        r.SVGs,
		Highlighted: r.Highlighted,
		Rewritten:   r.Rewrite.Rewritten,
		Links:       r.Rewrite.Links,
		Missing:     r.Rewrite.Missing,
	}
}

func coverage(processed, found int) float64 {
	if found == 0 {
		return 0
	}
	return float64(processed) / float64(found)
}
