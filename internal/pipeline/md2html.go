package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrPrefaceConversion indicates the Markdown preface could not be rendered.
var ErrPrefaceConversion = errors.New("preface conversion failed")

// PrefaceConverter renders the optional Markdown preface placed before the
// site pages.
type PrefaceConverter struct {
	md goldmark.Markdown
}

// NewPrefaceConverter creates a converter with GFM, footnotes and chroma
// highlighting in style. Highlighting uses inline styles because the merged
// document carries no chroma stylesheet.
func NewPrefaceConverter(style string) *PrefaceConverter {
	if style == "" {
		style = "github"
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(false)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &PrefaceConverter{md: md}
}

// ToHTML converts Markdown to an HTML fragment. goldmark has no context
// support, so conversion runs in a goroutine raced against ctx.
func (c *PrefaceConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(prepareMarkdown(content)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPrefaceConversion, err)}
			return
		}
		done <- result{html: finishMarks(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
