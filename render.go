package web2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// RenderRequest describes one merged document to print.
type RenderRequest struct {
	Input      string // merged HTML file
	Output     string // PDF to write
	Title      string // PDF document title
	Page       *PageSettings
	HeaderHTML string // running header fragment, "" for none
	FooterHTML string // running footer fragment, "" for none
	TOC        bool   // ask the engine for its own outline page
}

// Renderer prints a merged HTML file to PDF.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) error
}

// Default wkhtmltopdf settings.
const (
	DefaultWkhtmltopdfBin = "wkhtmltopdf"
	DefaultJSDelay        = 1000 // milliseconds
	outlineDepth          = 3
)

// WkhtmltopdfRenderer prints with the wkhtmltopdf command line tool.
type WkhtmltopdfRenderer struct {
	Runner          Runner
	Bin             string // empty = "wkhtmltopdf"
	JavaScriptDelay int    // milliseconds; 0 disables the delay
	OnLine          func(line string)
	Logger          *slog.Logger
}

// Compile-time interface implementation check.
var _ Renderer = (*WkhtmltopdfRenderer)(nil)

// Args builds the wkhtmltopdf argument list. headerFile and footerFile are
// the decoration documents, "" when absent.
func (r *WkhtmltopdfRenderer) Args(req RenderRequest, headerFile, footerFile string) []string {
	page := req.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	margin := formatMM(page.Margin)

	args := []string{
		"--page-size", wkhtmltopdfPageSize(page.Size),
		"--orientation", capitalize(page.Orientation),
		"--margin-top", margin,
		"--margin-right", margin,
		"--margin-bottom", margin,
		"--margin-left", margin,
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--print-media-type",
		"--load-error-handling", "ignore",
		"--load-media-error-handling", "ignore",
		"--outline",
		"--outline-depth", strconv.Itoa(outlineDepth),
	}
	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}
	if r.JavaScriptDelay > 0 {
		args = append(args, "--javascript-delay", strconv.Itoa(r.JavaScriptDelay))
	}
	if headerFile != "" {
		args = append(args, "--header-html", headerFile)
	}
	if footerFile != "" {
		args = append(args, "--footer-html", footerFile)
	}
	if req.TOC {
		args = append(args, "toc")
	}
	return append(args, req.Input, req.Output)
}

// Render writes the decorations to temporary files and runs wkhtmltopdf.
// Any non-zero exit status is a failure.
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req RenderRequest) error {
	if err := req.Page.Validate(); err != nil {
		return err
	}

	headerFile, cleanupHeader, err := writeDecoration(req.HeaderHTML)
	if err != nil {
		return err
	}
	defer cleanupHeader()
	footerFile, cleanupFooter, err := writeDecoration(req.FooterHTML)
	if err != nil {
		return err
	}
	defer cleanupFooter()

	runner := r.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	bin := r.Bin
	if bin == "" {
		bin = DefaultWkhtmltopdfBin
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cmd := Command{Name: bin, Args: r.Args(req, headerFile, footerFile), OnLine: r.OnLine}
	logger.Debug("running wkhtmltopdf", "cmd", cmd.String())

	out, err := runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	logger.Debug("wkhtmltopdf finished", "exit", out.ExitCode, "duration", out.Duration)
	if out.ExitCode != 0 {
		return fmt.Errorf("%w: wkhtmltopdf exited with code %d%s", ErrRenderFailed, out.ExitCode, formatTail(out.Tail))
	}
	return nil
}

// decorationDocument wraps a header or footer fragment. wkhtmltopdf passes
// page, topage, title and section in the query string; subst copies them
// into elements carrying the matching class.
const decorationDocument = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><script>
function subst() {
  var vars = {};
  var query = window.location.search.substring(1).split('&');
  for (var i = 0; i < query.length; i++) {
    var kv = query[i].split('=', 2);
    vars[kv[0]] = decodeURIComponent(kv[1] || '');
  }
  var keys = ['page', 'topage', 'title', 'section'];
  for (var k = 0; k < keys.length; k++) {
    var els = document.getElementsByClassName(keys[k]);
    for (var j = 0; j < els.length; j++) {
      els[j].textContent = vars[keys[k]] || '';
    }
  }
}
</script></head>
<body style="margin:0" onload="subst()">%s</body></html>
`

func writeDecoration(fragment string) (path string, cleanup func(), err error) {
	if strings.TrimSpace(fragment) == "" {
		return "", func() {}, nil
	}
	path, cleanup, err = fileutil.WriteTempFile(fmt.Sprintf(decorationDocument, fragment), "html")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return path, cleanup, nil
}

// decorationPolicy keeps layout markup and the placeholder classes of
// header and footer fragments. Scripts and event handlers are dropped.
var decorationPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("div", "span", "p", "small", "strong", "em", "b", "i", "br", "hr", "img")
	p.AllowAttrs("class").Globally()
	p.AllowStyles(
		"color", "background-color", "font-family", "font-size", "font-weight",
		"font-style", "text-align", "width", "height", "margin", "padding",
		"border-top", "border-bottom", "display", "justify-content", "align-items",
	).Globally()
	p.AllowDataURIImages()
	return p
}()

// SanitizeDecoration cleans a user-supplied header or footer fragment.
func SanitizeDecoration(fragment string) string {
	return strings.TrimSpace(decorationPolicy.Sanitize(fragment))
}

// chromeDecoration maps the wkhtmltopdf placeholder classes onto the
// ones Chrome fills in its header and footer templates.
func chromeDecoration(fragment string) string {
	return strings.NewReplacer(
		`class="page"`, `class="pageNumber"`,
		`class="topage"`, `class="totalPages"`,
	).Replace(fragment)
}

func wkhtmltopdfPageSize(size string) string {
	switch strings.ToLower(size) {
	case PageSizeLetter:
		return "Letter"
	case PageSizeLegal:
		return "Legal"
	case "":
		return "A4"
	default:
		return strings.ToUpper(size)
	}
}

func capitalize(s string) string {
	if s == "" {
		return "Portrait"
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "mm"
}
