package web2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-web2pdf/internal/assets"
	"github.com/alnah/go-web2pdf/internal/dateutil"
	"github.com/alnah/go-web2pdf/internal/fileutil"
	"github.com/alnah/go-web2pdf/internal/pipeline"
	"github.com/alnah/go-web2pdf/internal/yamlutil"
)

// Order selects how pages after the crawl root are sequenced.
type Order = pipeline.Order

// Page orders.
const (
	OrderPath = pipeline.OrderPath
	OrderNav  = pipeline.OrderNav
)

// ParseOrder parses an order name; "" means OrderPath.
func ParseOrder(s string) (Order, error) {
	o, err := pipeline.ParseOrder(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return o, nil
}

// TOCEntry is one line of the generated table of contents.
type TOCEntry = pipeline.TOCEntry

// Cover configures the opening block of the document.
type Cover struct {
	Title string // "" = title of the root page
	Date  string // literal, "auto" or "auto:FORMAT"
}

// Footer configures the running footer.
type Footer struct {
	Text           string
	ShowPageNumber bool
	HTML           string // replaces the built-in footer template
}

// TOC configures the generated table of contents.
type TOC struct {
	Title   string // default "Contents"
	Outline bool   // also ask the engine for its own outline page
}

// Job describes one conversion.
type Job struct {
	URL     string // site to mirror
	WorkDir string // download destination; "" = downloads/<site name>
	Output  string // PDF path; optional with DownloadOnly

	SkipDownload bool // reuse the snapshot already under WorkDir
	DownloadOnly bool // stop after the download
	Debug        bool // keep WorkDir and write merged.html and report.yaml
	DebugDir     string
	Markdown     bool // also write Output with a .md extension

	Page           *PageSettings // nil = A4 portrait, 20mm
	Order          Order
	Workers        int
	KeepNav        bool
	SiteStyles     bool   // link the site's own stylesheets
	HighlightStyle string // chroma style for plain code blocks; "" disables
	TOC            *TOC   // nil = no table of contents
	Cover          *Cover // nil = no cover block
	Footer         *Footer
	HeaderHTML     string
	Preface        string // Markdown rendered before the first page
}

// Stage names a step of Convert, reported through Hooks.
type Stage string

const (
	StageDownload   Stage = "download"
	StageLocate     Stage = "locate"
	StagePreprocess Stage = "preprocess"
	StageMerge      Stage = "merge"
	StageRender     Stage = "render"
	StageVerify     Stage = "verify"
)

// Hooks receive progress events. Nil fields are skipped.
type Hooks struct {
	Stage func(stage Stage)
	Page  func(done, total int) // called from preprocessing workers
}

// Result summarizes a conversion.
type Result struct {
	Title        string // document title: cover title or root page title
	SnapshotRoot string
	PagesFound   int
	Sections     int
	TOC          []TOCEntry
	Failed       []string // pages that could not be parsed
	Unresolved   []string // references whose target was not downloaded
	PDF          *PDFInfo // nil with DownloadOnly
	MarkdownPath string
	MergedPath   string // kept with Debug
	ReportPath   string // kept with Debug
	Duration     time.Duration
}

// Converter runs the download, preprocess, merge and render pipeline.
// Create with NewConverter, run Convert, and Close when done.
type Converter struct {
	runner     Runner
	downloader Downloader
	renderer   Renderer
	logger     *slog.Logger
	hooks      Hooks
	now        func() time.Time
	assetPath  string
	styleName  string

	css      string
	cover    *pipeline.Decoration
	footer   *pipeline.Decoration
	markdown *pipeline.MarkdownExporter
}

// NewConverter creates a Converter. Unless replaced by options it downloads
// with httrack and renders with wkhtmltopdf, both found on PATH.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		now:       time.Now,
		styleName: assets.DefaultStyleName,
		markdown:  pipeline.NewMarkdownExporter(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	if c.downloader == nil {
		c.downloader = &HTTrackDownloader{Runner: c.runner, Logger: c.logger}
	}
	if c.renderer == nil {
		c.renderer = &WkhtmltopdfRenderer{Runner: c.runner, JavaScriptDelay: DefaultJSDelay, Logger: c.logger}
	}

	loader, err := assets.NewAssetResolver(c.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if c.css, err = loader.LoadStyle(c.styleName); err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, c.styleName)
		}
		return nil, fmt.Errorf("loading style %q: %w", c.styleName, err)
	}
	templates, err := loader.LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		return nil, fmt.Errorf("loading template set: %w", err)
	}
	if c.cover, err = pipeline.NewCoverDecoration(templates.Cover); err != nil {
		return nil, err
	}
	if c.footer, err = pipeline.NewFooterDecoration(templates.Footer); err != nil {
		return nil, err
	}
	return c, nil
}

// Close releases the renderer when it holds resources (a browser).
func (c *Converter) Close() error {
	if closer, ok := c.renderer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Convert mirrors job.URL and prints it to job.Output. Unresolved page
// references are reported in Result and never fail the run.
func (c *Converter) Convert(ctx context.Context, job Job) (result *Result, err error) {
	start := c.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateJob(&job); err != nil {
		return nil, err
	}

	res := &Result{}
	defer func() {
		if result != nil {
			result.Duration = c.now().Sub(start)
		}
	}()

	snap, cleanup, err := c.snapshot(ctx, job)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	res.SnapshotRoot = snap.Root
	res.PagesFound = len(snap.Pages())

	if job.DownloadOnly {
		return res, nil
	}

	rep := &Report{URL: job.URL, SnapshotRoot: snap.Root, FilesFound: len(snap.Files), PagesFound: res.PagesFound, Order: string(job.Order)}
	merged, err := c.build(ctx, job, snap, res, rep)
	if err != nil {
		return nil, err
	}

	if err := c.render(ctx, job, merged, res); err != nil {
		return nil, err
	}
	rep.PDFPages = res.PDF.Pages

	if job.Markdown {
		if err := c.writeMarkdown(job, merged, res); err != nil {
			return nil, err
		}
	}
	if job.Debug {
		rep.Coverage = coverage(rep.PagesProcessed, rep.PagesFound)
		res.ReportPath = filepath.Join(job.DebugDir, "report.yaml")
		if err := yamlutil.WriteFile(res.ReportPath, rep, 0o644); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	return res, nil
}

func (c *Converter) validateJob(job *Job) error {
	name, err := SiteName(job.URL)
	if err != nil {
		return err
	}
	if job.Output == "" && !job.DownloadOnly {
		return fmt.Errorf("%w: output path is required", ErrInvalidOutput)
	}
	if job.Output != "" && !strings.EqualFold(filepath.Ext(job.Output), ".pdf") {
		return fmt.Errorf("%w: %q must end in .pdf", ErrInvalidOutput, job.Output)
	}
	if job.Page == nil {
		job.Page = DefaultPageSettings()
	}
	if err := job.Page.Validate(); err != nil {
		return err
	}
	if job.Order == "" {
		job.Order = OrderPath
	}
	if _, err := ParseOrder(string(job.Order)); err != nil {
		return err
	}
	if job.WorkDir == "" {
		job.WorkDir = filepath.Join("downloads", name)
	}
	if job.Debug && job.DebugDir == "" {
		job.DebugDir = filepath.Join(filepath.Dir(job.Output), "debug")
	}
	return nil
}

// snapshot downloads or locates the site. The returned cleanup removes what
// the run downloaded, unless the job keeps its working files.
func (c *Converter) snapshot(ctx context.Context, job Job) (*Snapshot, func(), error) {
	noop := func() {}

	if job.SkipDownload {
		c.stage(StageLocate)
		if !fileutil.DirExists(job.WorkDir) {
			return nil, noop, fmt.Errorf("%w: %s does not exist", ErrMissingSnapshot, job.WorkDir)
		}
		snap, err := LocateSnapshot(job.WorkDir, job.URL)
		if err != nil {
			return nil, noop, err
		}
		return snap, noop, nil
	}

	c.stage(StageDownload)
	existed := fileutil.DirExists(job.WorkDir)
	snap, err := c.downloader.Download(ctx, job.URL, job.WorkDir)
	keep := job.Debug || job.DownloadOnly
	cleanup := func() {
		if keep {
			return
		}
		target := job.WorkDir
		if existed {
			// only the mirrored site; the directory was there before the run
			if snap == nil || snap.Root == "" {
				return
			}
			target = snap.Root
		}
		if err := os.RemoveAll(target); err != nil {
			c.logger.Warn("removing working files", "dir", target, "error", err)
		}
	}
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	return snap, cleanup, nil
}

// build loads, orders, preprocesses and merges the snapshot pages.
func (c *Converter) build(ctx context.Context, job Job, snap *Snapshot, res *Result, rep *Report) (*pipeline.MergedDocument, error) {
	c.stage(StagePreprocess)

	norm, err := pipeline.NewNormalizer(snap, job.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var pages []*pipeline.Page
	for _, rel := range snap.Pages() {
		p, err := pipeline.LoadPage(snap, rel)
		if err != nil {
			c.logger.Warn("skipping page", "path", rel, "error", err)
			res.Failed = append(res.Failed, rel)
			continue
		}
		pages = append(pages, p)
	}
	rep.Failed = res.Failed
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, snap.Root)
	}

	rootRel := norm.RootPage()
	var root *pipeline.Page
	for _, p := range pages {
		if p.Path == rootRel {
			root = p
			break
		}
	}
	var navPaths []string
	if job.Order == OrderNav && root != nil {
		navPaths = pipeline.NavLinks(root, norm)
		rep.NavItems = navPaths
	}
	pages = pipeline.OrderPages(pages, rootRel, job.Order, navPaths)
	c.logger.Debug("pages ordered", "count", len(pages), "root", rootRel, "order", job.Order)

	var highlighter *pipeline.Highlighter
	if job.HighlightStyle != "" {
		highlighter = pipeline.NewHighlighter(job.HighlightStyle)
	}
	rw := pipeline.NewRewriter(norm, pipeline.Anchors(pages), c.logger)
	rw.IndexIDs(pages)
	reports, err := pipeline.Preprocess(ctx, pages, rw, pipeline.PreprocessOptions{
		Workers:     job.Workers,
		KeepNav:     job.KeepNav,
		Highlighter: highlighter,
		OnPage:      c.hooks.Page,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for i, r := range reports {
		for _, ref := range r.Rewrite.Unresolved {
			if !seen[ref] {
				seen[ref] = true
				res.Unresolved = append(res.Unresolved, ref)
			}
		}
		rep.Pages = append(rep.Pages, newPageEntry(pages[i], r))
	}
	rep.PagesProcessed = len(pages)
	rep.Unresolved = res.Unresolved

	c.stage(StageMerge)
	opts, err := c.mergeOptions(ctx, job, pages)
	if err != nil {
		return nil, err
	}
	merged, err := pipeline.Merge(pages, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPages, err)
	}
	deduped := pipeline.DedupeSVGs(merged.Doc)
	c.logger.Debug("document merged", "sections", merged.Sections, "svg_symbols", deduped)

	res.Title = opts.Title
	res.Sections = merged.Sections
	res.TOC = merged.TOC
	return merged, nil
}

func (c *Converter) mergeOptions(ctx context.Context, job Job, pages []*pipeline.Page) (pipeline.MergeOptions, error) {
	title := pages[0].Title
	if job.Cover != nil && job.Cover.Title != "" {
		title = job.Cover.Title
	}
	opts := pipeline.MergeOptions{Title: title, CSS: c.css}

	if job.SiteStyles {
		for _, p := range pages {
			opts.Stylesheets = append(opts.Stylesheets, p.Stylesheets...)
		}
	}
	if job.TOC != nil {
		opts.TOC = true
		opts.TOCTitle = job.TOC.Title
	}

	if job.Cover != nil {
		date, err := dateutil.ResolveDate(job.Cover.Date, c.now())
		if err != nil {
			return opts, err
		}
		opts.CoverHTML, err = c.cover.Render(ctx, pipeline.CoverData{
			Title:     title,
			SourceURL: job.URL,
			Date:      date,
			Pages:     len(pages),
		})
		if err != nil {
			return opts, err
		}
	}

	if strings.TrimSpace(job.Preface) != "" {
		style := job.HighlightStyle
		if style == "" {
			style = "github"
		}
		preface, err := pipeline.NewPrefaceConverter(style).ToHTML(ctx, job.Preface)
		if err != nil {
			return opts, err
		}
		opts.PrefaceHTML = preface
	}
	return opts, nil
}

// render writes the merged document to a file and prints it.
func (c *Converter) render(ctx context.Context, job Job, merged *pipeline.MergedDocument, res *Result) error {
	var input string
	if job.Debug {
		input = filepath.Join(job.DebugDir, "merged.html")
		if err := fileutil.EnsureParentDir(input); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if err := os.WriteFile(input, []byte(merged.String()), 0o644); err != nil { // #nosec G306 -- debug artifact meant to be read
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		res.MergedPath = input
	} else {
		path, cleanup, err := fileutil.WriteTempFile(merged.String(), "html")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		defer cleanup()
		input = path
	}

	if err := fileutil.EnsureParentDir(job.Output); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	footer, err := c.footerHTML(ctx, job.Footer)
	if err != nil {
		return err
	}
	req := RenderRequest{
		Input:      input,
		Output:     job.Output,
		Title:      res.Title,
		Page:       job.Page,
		HeaderHTML: SanitizeDecoration(job.HeaderHTML),
		FooterHTML: footer,
		TOC:        job.TOC != nil && job.TOC.Outline,
	}

	c.stage(StageRender)
	if err := c.renderer.Render(ctx, req); err != nil {
		return err
	}

	c.stage(StageVerify)
	info, err := VerifyPDF(job.Output)
	if err != nil {
		return err
	}
	res.PDF = info
	c.logger.Debug("pdf verified", "path", info.Path, "pages", info.Pages, "bytes", info.Size)
	return nil
}

func (c *Converter) footerHTML(ctx context.Context, f *Footer) (string, error) {
	if f == nil {
		return "", nil
	}
	if f.HTML != "" {
		return SanitizeDecoration(f.HTML), nil
	}
	out, err := c.footer.Render(ctx, pipeline.FooterData{Text: f.Text, ShowPageNumber: f.ShowPageNumber})
	if err != nil {
		return "", err
	}
	return SanitizeDecoration(out), nil
}

func (c *Converter) writeMarkdown(job Job, merged *pipeline.MergedDocument, res *Result) error {
	md, err := c.markdown.Export(merged, job.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	path := fileutil.ReplaceExtension(job.Output, ".md")
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil { // #nosec G306 -- companion output meant to be read
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	res.MarkdownPath = path
	return nil
}

func (c *Converter) stage(s Stage) {
	c.logger.Debug("stage", "name", s)
	if c.hooks.Stage != nil {
		c.hooks.Stage(s)
	}
}
