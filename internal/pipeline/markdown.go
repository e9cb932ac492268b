package pipeline

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

// MarkdownExporter writes the merged document as Markdown, the companion
// format for language-model ingestion.
type MarkdownExporter struct {
	conv *converter.Converter
}

// NewMarkdownExporter creates an exporter with CommonMark and GFM tables.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Export converts the body of m. The SVG sprite and page-break markers
// carry no text and are dropped by the converter. domain, when set, makes
// relative links absolute.
func (e *MarkdownExporter) Export(m *MergedDocument, domain string) (string, error) {
	body := findElement(m.Doc, "body")
	if body == nil {
		return "", fmt.Errorf("merged document has no body")
	}

	var opts []converter.ConvertOptionFunc
	if domain != "" {
		opts = append(opts, converter.WithDomain(domain))
	}
	out, err := e.conv.ConvertNode(withoutSprite(body), opts...)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}
	return strings.TrimSpace(string(out)) + "\n", nil
}

// withoutSprite returns body, or a shallow clone of it without the SVG
// sprite when one is present.
func withoutSprite(body *html.Node) *html.Node {
	first := body.FirstChild
	if first == nil || first.Type != html.ElementNode || first.Data != "svg" {
		return body
	}
	if _, ok := getAttr(first, svgSpriteAttr); !ok {
		return body
	}
	clone := &html.Node{Type: body.Type, DataAtom: body.DataAtom, Data: body.Data, Attr: body.Attr}
	for c := first.NextSibling; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneNode(c))
	}
	return clone
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}
