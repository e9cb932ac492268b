package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for template rendering.
var (
	ErrCoverRender  = errors.New("cover template rendering failed")
	ErrFooterRender = errors.New("footer template rendering failed")
)

// CoverData feeds the cover template.
type CoverData struct {
	Title     string
	SourceURL string
	Date      string
	Pages     int
}

// FooterData feeds the running footer template. The renderer substitutes
// the page and topage placeholders at print time.
type FooterData struct {
	Text           string
	ShowPageNumber bool
}

// Decoration renders one html/template from the asset template set.
type Decoration struct {
	tmpl   *template.Template
	errTag error
}

// NewCoverDecoration parses a cover template.
func NewCoverDecoration(tmplContent string) (*Decoration, error) {
	return newDecoration("cover", tmplContent, ErrCoverRender)
}

// NewFooterDecoration parses a footer template.
func NewFooterDecoration(tmplContent string) (*Decoration, error) {
	return newDecoration("footer", tmplContent, ErrFooterRender)
}

func newDecoration(name, tmplContent string, errTag error) (*Decoration, error) {
	tmpl, err := template.New(name).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return &Decoration{tmpl: tmpl, errTag: errTag}, nil
}

// Render executes the template with data. A nil data renders nothing.
func (d *Decoration) Render(ctx context.Context, data any) (string, error) {
	if data == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", d.errTag, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could close a <style> block early.
// Style contents are raw text and are not escaped on render.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
