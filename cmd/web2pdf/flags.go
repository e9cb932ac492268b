package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// marginUnset detects if --margin was explicitly set.
// Since 0 is a valid margin, we use an out-of-range sentinel.
const marginUnset = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config string
	quiet  bool
	debug  bool
}

// runFlags holds flags that shape the run itself.
type runFlags struct {
	output       string
	workers      int
	timeout      string
	skipDownload bool
	downloadOnly bool
	markdown     bool
}

// downloadFlags holds HTTrack mirror flags.
type downloadFlags struct {
	depth       int
	connections int
	userAgent   string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// renderFlags holds PDF engine flags.
type renderFlags struct {
	engine       string
	noSiteStyles bool
}

// contentFlags holds page processing flags.
type contentFlags struct {
	order       string
	keepNav     bool
	highlight   string
	noHighlight bool
	preface     string
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	title    string
	outline  bool
	disabled bool
}

// coverFlags holds cover block flags.
type coverFlags struct {
	enabled bool
	title   string
	date    string
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	text         string
	noPageNumber bool
	disabled     bool
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	style     string
	assetPath string
}

// convertFlags holds all flags for a conversion.
type convertFlags struct {
	common   commonFlags
	run      runFlags
	download downloadFlags
	page     pageFlags
	render   renderFlags
	content  contentFlags
	toc      tocFlags
	cover    coverFlags
	footer   footerFlags
	assets   assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVar(&f.debug, "debug", false, "keep working files, log details, write a debug report")
}

// addRunFlags adds run control flags to a FlagSet.
func addRunFlags(fs *flag.FlagSet, f *runFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel page workers (0 = config or 1)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "overall deadline (e.g., 10m)")
	fs.BoolVar(&f.skipDownload, "skip-download", false, "reuse the existing local snapshot")
	fs.BoolVar(&f.downloadOnly, "download-only", false, "stop after the download")
	fs.BoolVar(&f.markdown, "markdown", false, "also write a Markdown companion")
}

// addDownloadFlags adds HTTrack flags to a FlagSet.
func addDownloadFlags(fs *flag.FlagSet, f *downloadFlags) {
	fs.IntVar(&f.depth, "depth", 0, "HTTrack mirror depth (default: 2)")
	fs.IntVar(&f.connections, "connections", 0, "HTTrack connections (default: 8)")
	fs.StringVar(&f.userAgent, "user-agent", "", "HTTrack user agent")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, a3, a5, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", marginUnset, "page margin in mm (0-80)")
}

// addRenderFlags adds engine flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.engine, "engine", "", "PDF engine: wkhtmltopdf, chrome")
	fs.BoolVar(&f.noSiteStyles, "no-site-styles", false, "drop the site's own stylesheets")
}

// addContentFlags adds page processing flags to a FlagSet.
func addContentFlags(fs *flag.FlagSet, f *contentFlags) {
	fs.StringVar(&f.order, "order", "", "page order after the root: path, nav")
	fs.BoolVar(&f.keepNav, "keep-nav", false, "keep site navigation in pages")
	fs.StringVar(&f.highlight, "highlight-style", "", "chroma style for code blocks")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting")
	fs.StringVar(&f.preface, "preface", "", "Markdown file rendered before the pages")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.BoolVar(&f.outline, "toc-outline", false, "also add the engine's outline page")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable table of contents")
}

// addCoverFlags adds cover block flags to a FlagSet.
func addCoverFlags(fs *flag.FlagSet, f *coverFlags) {
	fs.BoolVar(&f.enabled, "cover", false, "add a cover block")
	fs.StringVar(&f.title, "cover-title", "", "cover title (\"\" = root page title)")
	fs.StringVar(&f.date, "cover-date", "", "cover date (\"auto\" = today)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.noPageNumber, "no-page-number", false, "hide page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newConvertFlagSet builds the flag set for a conversion bound to f. Parse
// errors and --help are returned to the caller, which prints the usage.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("web2pdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addCommonFlags(fs, &f.common)
	addRunFlags(fs, &f.run)
	addDownloadFlags(fs, &f.download)
	addPageFlags(fs, &f.page)
	addRenderFlags(fs, &f.render)
	addContentFlags(fs, &f.content)
	addTOCFlags(fs, &f.toc)
	addCoverFlags(fs, &f.cover)
	addFooterFlags(fs, &f.footer)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() {}
	return fs
}

// parseConvertFlags parses conversion flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
