package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	web2pdf "github.com/alnah/go-web2pdf"
	"github.com/alnah/go-web2pdf/internal/assets"
	"github.com/alnah/go-web2pdf/internal/config"
	"github.com/alnah/go-web2pdf/internal/fileutil"
	"github.com/alnah/go-web2pdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrReadPreface        = errors.New("failed to read preface file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// maxWorkers caps --workers; preprocessing is CPU bound.
const maxWorkers = 64

// runConvert orchestrates one conversion.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) != 1 {
		return fmt.Errorf("%w: expected exactly one URL, got %d arguments", ErrUsage, len(positionalArgs))
	}
	if err := validateWorkers(flags.run.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	// Load configuration: defaults < file < env < flags
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := web2pdf.ParseEngine(cfg.Render.Engine)
	if err != nil {
		return err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}

	job, err := buildJob(positionalArgs[0], flags, cfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.debug, flags.common.quiet)
	prog := newProgress(env.Stdout, flags.common.quiet)

	opts := []web2pdf.Option{
		web2pdf.WithLogger(logger),
		web2pdf.WithHooks(prog.Hooks()),
		web2pdf.WithDownloader(newDownloader(cfg, logger)),
		web2pdf.WithRenderer(newRenderer(engine, cfg, envCfg, logger)),
		web2pdf.WithAssetPath(cfg.Assets.BasePath),
		web2pdf.WithNow(env.Now),
	}
	if cfg.Assets.Style != "" {
		opts = append(opts, web2pdf.WithStyle(cfg.Assets.Style))
	}

	conv, err := env.NewConverter(opts...)
	if err != nil {
		return withHint(err, job, cfg, browserEnv(envCfg, env.Getenv))
	}
	defer func() {
		if cerr := conv.Close(); cerr != nil {
			logger.Warn("closing renderer", "error", cerr)
		}
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := conv.Convert(ctx, job)
	if err != nil {
		return withHint(err, job, cfg, browserEnv(envCfg, env.Getenv))
	}

	printResult(env, job, res, flags.common.quiet)
	return nil
}

// loadConfig loads the file named by --config, or else WEB2PDF_CONFIG, or
// returns the defaults.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Run flags
	if flags.run.output != "" {
		cfg.Output.File = flags.run.output
	}
	if flags.run.workers > 0 {
		cfg.Workers = flags.run.workers
	}
	if flags.run.timeout != "" {
		cfg.Timeout = flags.run.timeout
	}
	if flags.run.markdown {
		cfg.Output.Markdown = true
	}

	// Download flags
	if flags.download.depth > 0 {
		cfg.Download.Depth = flags.download.depth
	}
	if flags.download.connections > 0 {
		cfg.Download.Connections = flags.download.connections
	}
	if flags.download.userAgent != "" {
		cfg.Download.UserAgent = flags.download.userAgent
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != marginUnset {
		cfg.Page.Margin = flags.page.margin
	}

	// Render flags
	if flags.render.engine != "" {
		cfg.Render.Engine = flags.render.engine
	}
	if flags.render.noSiteStyles {
		disabled := false
		cfg.Render.SiteStyles = &disabled
	}

	// Content flags
	if flags.content.order != "" {
		cfg.Order = flags.content.order
	}
	if flags.content.keepNav {
		cfg.Content.KeepNav = true
	}
	if flags.content.highlight != "" {
		cfg.Highlight.Style = flags.content.highlight
	}
	if flags.content.noHighlight {
		disabled := false
		cfg.Highlight.Enabled = &disabled
	}
	if flags.content.preface != "" {
		cfg.Preface = flags.content.preface
	}

	// TOC flags
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.outline {
		cfg.TOC.Outline = true
	}
	if flags.toc.disabled {
		disabled := false
		cfg.TOC.Enabled = &disabled
	}

	// Cover flags (a title or date implies --cover)
	if flags.cover.title != "" {
		cfg.Cover.Title = flags.cover.title
		cfg.Cover.Enabled = true
	}
	if flags.cover.date != "" {
		cfg.Cover.Date = flags.cover.date
		cfg.Cover.Enabled = true
	}
	if flags.cover.enabled {
		cfg.Cover.Enabled = true
	}

	// Footer flags
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
	}
	if flags.footer.noPageNumber {
		cfg.Footer.ShowPageNumber = false
	}
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.Assets.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// buildJob turns the merged configuration into a conversion job.
func buildJob(siteURL string, flags *convertFlags, cfg *config.Config) (web2pdf.Job, error) {
	name, err := web2pdf.SiteName(siteURL)
	if err != nil {
		return web2pdf.Job{}, err
	}

	order, err := web2pdf.ParseOrder(cfg.Order)
	if err != nil {
		return web2pdf.Job{}, err
	}

	job := web2pdf.Job{
		URL:          siteURL,
		WorkDir:      filepath.Join(cfg.Download.Dir, name),
		Output:       resolveOutputPath(cfg.Output.File, cfg.Output.Dir),
		SkipDownload: flags.run.skipDownload,
		DownloadOnly: flags.run.downloadOnly,
		Debug:        flags.common.debug,
		Markdown:     cfg.Output.Markdown,
		Page: &web2pdf.PageSettings{
			Size:        cfg.Page.Size,
			Orientation: cfg.Page.Orientation,
			Margin:      cfg.Page.Margin,
		},
		Order:      order,
		Workers:    cfg.Workers,
		KeepNav:    cfg.Content.KeepNav,
		SiteStyles: cfg.SiteStylesEnabled(),
		HeaderHTML: cfg.Header.HTML,
	}

	if job.SkipDownload && job.DownloadOnly {
		return web2pdf.Job{}, fmt.Errorf("%w: --skip-download and --download-only exclude each other", ErrUsage)
	}
	if job.Output == "" && !job.DownloadOnly {
		return web2pdf.Job{}, fmt.Errorf("%w: no output file; use -o or output.file in the config", ErrUsage)
	}

	if cfg.HighlightEnabled() {
		job.HighlightStyle = cfg.Highlight.Style
	}
	if cfg.TOCEnabled() {
		job.TOC = &web2pdf.TOC{Title: cfg.TOC.Title, Outline: cfg.TOC.Outline}
	}
	if cfg.Cover.Enabled {
		job.Cover = &web2pdf.Cover{Title: cfg.Cover.Title, Date: cfg.Cover.Date}
	}
	if cfg.Footer.Enabled {
		job.Footer = &web2pdf.Footer{
			Text:           cfg.Footer.Text,
			ShowPageNumber: cfg.Footer.ShowPageNumber,
			HTML:           cfg.Footer.HTML,
		}
	}

	if cfg.Preface != "" {
		data, err := os.ReadFile(cfg.Preface) // #nosec G304 -- preface path is user-provided
		if err != nil {
			return web2pdf.Job{}, fmt.Errorf("%w: %w", ErrReadPreface, err)
		}
		job.Preface = string(data)
	}

	return job, nil
}

// resolveOutputPath places bare file names in dir.
func resolveOutputPath(path, dir string) string {
	if path == "" || fileutil.IsFilePath(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// validateWorkers rejects negative and oversized worker counts.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// newDownloader configures httrack. Its output is logged at debug level.
func newDownloader(cfg *config.Config, logger *slog.Logger) *web2pdf.HTTrackDownloader {
	return &web2pdf.HTTrackDownloader{
		Runner:      web2pdf.ExecRunner{},
		Bin:         cfg.Download.Bin,
		Depth:       cfg.Download.Depth,
		Connections: cfg.Download.Connections,
		UserAgent:   cfg.Download.UserAgent,
		OnLine:      toolLogger(logger, "httrack"),
		Logger:      logger,
	}
}

// newRenderer returns the renderer for engine.
func newRenderer(engine web2pdf.Engine, cfg *config.Config, env *envConfig, logger *slog.Logger) web2pdf.Renderer {
	if engine == web2pdf.EngineChrome {
		return &web2pdf.ChromeRenderer{
			BrowserBin: env.BrowserBin,
			NoSandbox:  env.NoSandbox,
			Logger:     logger,
		}
	}
	return &web2pdf.WkhtmltopdfRenderer{
		Runner:          web2pdf.ExecRunner{},
		Bin:             cfg.Render.Bin,
		JavaScriptDelay: cfg.Render.JavaScriptDelay,
		OnLine:          toolLogger(logger, "wkhtmltopdf"),
		Logger:          logger,
	}
}

func toolLogger(logger *slog.Logger, tool string) func(string) {
	return func(line string) {
		logger.Debug(line, "tool", tool)
	}
}

// browserEnv collects what the chrome connect hint reports on.
func browserEnv(envCfg *envConfig, getenv func(string) string) hints.BrowserEnv {
	container, _ := isContainer(getenv)
	return hints.BrowserEnv{
		CI:         envCfg.CI,
		Container:  container,
		NoSandbox:  envCfg.NoSandbox,
		BrowserBin: envCfg.BrowserBin,
	}
}

// withHint appends an actionable hint to err when one applies.
func withHint(err error, job web2pdf.Job, cfg *config.Config, browser hints.BrowserEnv) error {
	var hint string
	switch {
	case errors.Is(err, web2pdf.ErrToolNotFound) && errors.Is(err, web2pdf.ErrDownloadFailed):
		hint = hints.ForToolNotFound("httrack", "WEB2PDF_HTTRACK_BIN")
	case errors.Is(err, web2pdf.ErrToolNotFound):
		hint = hints.ForToolNotFound("wkhtmltopdf", "WEB2PDF_WKHTMLTOPDF_BIN")
	case errors.Is(err, web2pdf.ErrBrowserConnect):
		hint = hints.ForBrowserConnect(browser)
	case errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	case errors.Is(err, web2pdf.ErrMissingSnapshot) && !errors.Is(err, web2pdf.ErrDownloadFailed):
		hint = hints.ForMissingSnapshot(job.WorkDir)
	case errors.Is(err, web2pdf.ErrWriteOutput):
		hint = hints.ForOutputDirectory()
	case errors.Is(err, web2pdf.ErrStyleNotFound) && cfg.Assets.BasePath == "":
		hint = hints.ForStyleNotFound(assets.NewEmbeddedLoader().Styles())
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// printResult reports what a successful run produced.
func printResult(env *Environment, job web2pdf.Job, res *web2pdf.Result, quiet bool) {
	if quiet {
		return
	}

	elapsed := res.Duration.Round(time.Millisecond)
	if job.DownloadOnly {
		fmt.Fprintf(env.Stdout, "Downloaded %s to %s (%d pages, %v)\n", job.URL, res.SnapshotRoot, res.PagesFound, elapsed)
		return
	}

	fmt.Fprintf(env.Stdout, "Created %s (%d pages, %d sections, %v)\n", res.PDF.Path, res.PDF.Pages, res.Sections, elapsed)
	if res.MarkdownPath != "" {
		fmt.Fprintf(env.Stdout, "Created %s\n", res.MarkdownPath)
	}
	if res.ReportPath != "" {
		fmt.Fprintf(env.Stdout, "Debug report: %s\n", res.ReportPath)
	}
	if n := len(res.Failed); n > 0 {
		fmt.Fprintf(env.Stderr, "warning: %d page(s) could not be parsed\n", n)
	}
	if n := len(res.Unresolved); n > 0 {
		fmt.Fprintf(env.Stderr, "warning: %d reference(s) point at files that were not downloaded (details with --debug)\n", n)
	}
}
