package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
)

// Highlighter colours plain code blocks with chroma inline styles.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter creates a Highlighter for a chroma style name; unknown
// names fall back to chroma's default style.
func NewHighlighter(style string) *Highlighter {
	return &Highlighter{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(false)),
	}
}

// Highlight replaces every <pre><code class="language-X"> block whose code
// is plain text with chroma output. Blocks already containing markup, and
// blocks in languages chroma does not know, are left alone. It returns the
// number of blocks highlighted.
func (h *Highlighter) Highlight(doc *html.Node) int {
	var blocks []*html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "pre" && n.Namespace == "" {
			blocks = append(blocks, n)
			return false
		}
		return true
	})

	count := 0
	for _, pre := range blocks {
		code := pre.FirstChild
		if code == nil || code.NextSibling != nil || code.Type != html.ElementNode || code.Data != "code" {
			continue
		}
		lang := codeLanguage(code)
		if lang == "" || !plainText(code) {
			continue
		}
		lexer := lexers.Get(lang)
		if lexer == nil {
			continue
		}
		if h.replace(pre, chroma.Coalesce(lexer), textOf(code)) {
			count++
		}
	}
	return count
}

func (h *Highlighter) replace(pre *html.Node, lexer chroma.Lexer, source string) bool {
	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return false
	}
	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return false
	}
	nodes, err := parseFragment(buf.String())
	if err != nil || len(nodes) == 0 || pre.Parent == nil {
		return false
	}
	for _, n := range nodes {
		pre.Parent.InsertBefore(n, pre)
	}
	pre.Parent.RemoveChild(pre)
	return true
}

// codeLanguage reads "language-go" or "lang-go" from the class attribute.
func codeLanguage(code *html.Node) string {
	class, _ := getAttr(code, "class")
	for _, c := range strings.Fields(class) {
		for _, prefix := range []string{"language-", "lang-"} {
			if strings.HasPrefix(c, prefix) {
				return strings.TrimPrefix(c, prefix)
			}
		}
	}
	return ""
}

func plainText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			return false
		}
	}
	return true
}

// textOf concatenates text children verbatim, keeping whitespace.
func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(c.Data)
	}
	return b.String()
}
