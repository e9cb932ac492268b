package web2pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	mmPerInch            = 25.4
	defaultChromeTimeout = 2 * time.Minute
	emptyTemplate        = "<span></span>"
)

// ChromeRenderer prints with headless Chrome through go-rod. Rod downloads
// Chromium on first use when BrowserBin is empty and none is installed.
type ChromeRenderer struct {
	BrowserBin string        // pre-installed browser, "" to let rod find one
	NoSandbox  bool          // required in most containers and CI runners
	Timeout    time.Duration // page load limit when ctx has no deadline
	Logger     *slog.Logger

	launcher *launcher.Launcher
	browser  *rod.Browser
}

// Compile-time interface implementation check.
var _ Renderer = (*ChromeRenderer)(nil)

// ensureBrowser lazily launches and connects to the browser.
func (r *ChromeRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if r.BrowserBin != "" {
		l = l.Bin(r.BrowserBin)
	}
	if r.NoSandbox {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Close shuts the browser down and kills its process tree.
func (r *ChromeRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// Render opens the merged file in a new tab and writes the PDF to
// req.Output.
func (r *ChromeRenderer) Render(ctx context.Context, req RenderRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := req.Page.Validate(); err != nil {
		return err
	}
	if err := r.ensureBrowser(); err != nil {
		return err
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	abs, err := filepath.Abs(req.Input)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	target := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	logger.Debug("opening merged document in chrome", "url", target)

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return fmt.Errorf("%w: creating page: %v", ErrRenderFailed, err)
	}
	defer page.Close()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultChromeTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	page = page.Context(ctx)
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: loading page: %v", ErrRenderFailed, err)
	}

	reader, err := page.PDF(buildPrintOptions(req))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: printing: %v", ErrRenderFailed, err)
	}

	f, err := os.Create(req.Output) // #nosec G304 -- output path chosen by the caller
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: reading PDF stream: %v", ErrRenderFailed, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// buildPrintOptions converts page settings and decorations to Chrome's
// print parameters. Chrome ignores req.TOC: the merged document carries
// its own table of contents.
func buildPrintOptions(req RenderRequest) *proto.PagePrintToPDF {
	page := req.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	width, height := page.Dimensions()
	margin := page.Margin / mmPerInch

	opts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width / mmPerInch),
		PaperHeight:     floatPtr(height / mmPerInch),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	if req.HeaderHTML == "" && req.FooterHTML == "" {
		return opts
	}
	opts.DisplayHeaderFooter = true
	opts.HeaderTemplate = chromeTemplate(req.HeaderHTML)
	opts.FooterTemplate = chromeTemplate(req.FooterHTML)
	return opts
}

// chromeTemplate wraps a decoration so it spans the page margin box.
// Chrome renders templates at a tiny default font size.
func chromeTemplate(fragment string) string {
	if fragment == "" {
		return emptyTemplate
	}
	return fmt.Sprintf(`<div style="font-size: 8pt; width: 100%%; margin: 0 10mm;">%s</div>`, chromeDecoration(fragment))
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
