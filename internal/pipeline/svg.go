package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const (
	svgNamespaceURI = "http://www.w3.org/2000/svg"
	svgSymbolPrefix = "svg-sym-"
	svgRefAttr      = "data-svg-ref"
	svgSpriteAttr   = "data-svg-sprite"
	svgInlineStyle  = "display:inline-block;vertical-align:middle"
)

// outermostSVGs returns inline <svg> elements that are not nested in
// another SVG.
func outermostSVGs(doc *html.Node) []*html.Node {
	var found []*html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Namespace == "svg" && n.Data == "svg" {
			found = append(found, n)
			return false
		}
		return true
	})
	return found
}

// NormalizeSVGs makes inline SVGs self-describing for the renderer: an
// xmlns, a viewBox derived from width and height when missing, and an
// inline-block display. It returns the number of SVGs changed.
func NormalizeSVGs(doc *html.Node) int {
	changed := 0
	for _, svg := range outermostSVGs(doc) {
		if _, ok := getAttr(svg, svgSpriteAttr); ok {
			continue
		}
		before := len(svg.Attr)
		dirty := false

		if _, ok := getAttr(svg, "xmlns"); !ok {
			setAttr(svg, "xmlns", svgNamespaceURI)
		}
		if _, ok := getAttr(svg, "viewBox"); !ok {
			w, okW := svgLength(svg, "width")
			h, okH := svgLength(svg, "height")
			if okW && okH {
				setAttr(svg, "viewBox", "0 0 "+formatLength(w)+" "+formatLength(h))
			}
		}
		style, _ := getAttr(svg, "style")
		if !strings.Contains(style, "display") {
			if style != "" && !strings.HasSuffix(strings.TrimSpace(style), ";") {
				style += ";"
			}
			setAttr(svg, "style", style+svgInlineStyle)
			dirty = true
		}
		if dirty || len(svg.Attr) != before {
			changed++
		}
	}
	return changed
}

func svgLength(n *html.Node, key string) (float64, bool) {
	v, ok := getAttr(n, key)
	if !ok {
		return 0, false
	}
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func formatLength(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DedupeSVGs hoists inline SVGs that occur at least twice into one hidden
// sprite as <symbol> elements and replaces each occurrence's children with
// a <use> reference. Occurrences keep their own attributes. Running it again
// changes nothing. It returns the number of occurrences replaced.
func DedupeSVGs(doc *html.Node) int {
	body := findElement(doc, "body")
	if body == nil {
		return 0
	}

	type group struct {
		viewBox string
		nodes   []*html.Node
	}
	groups := make(map[string]*group)
	var order []string

	for _, svg := range outermostSVGs(body) {
		if _, ok := getAttr(svg, svgSpriteAttr); ok {
			continue
		}
		if _, ok := getAttr(svg, svgRefAttr); ok {
			continue
		}
		if svg.FirstChild == nil {
			continue
		}
		inner, err := renderChildren(svg)
		if err != nil {
			continue
		}
		viewBox, _ := getAttr(svg, "viewBox")
		key := svgHash(viewBox, inner)
		g, ok := groups[key]
		if !ok {
			g = &group{viewBox: viewBox}
			groups[key] = g
			order = append(order, key)
		}
		g.nodes = append(g.nodes, svg)
	}

	var sprite *html.Node
	replaced := 0
	for _, key := range order {
		g := groups[key]
		if len(g.nodes) < 2 {
			continue
		}
		if sprite == nil {
			sprite = findSprite(body)
		}

		symbol := newSVGElement("symbol", html.Attribute{Key: "id", Val: svgSymbolPrefix + key})
		if g.viewBox != "" {
			setAttr(symbol, "viewBox", g.viewBox)
		}
		moveChildren(symbol, g.nodes[0])
		sprite.AppendChild(symbol)

		for _, svg := range g.nodes {
			for c := svg.FirstChild; c != nil; {
				next := c.NextSibling
				svg.RemoveChild(c)
				c = next
			}
			svg.AppendChild(newSVGElement("use", html.Attribute{Key: "href", Val: "#" + svgSymbolPrefix + key}))
			setAttr(svg, svgRefAttr, key)
			replaced++
		}
	}
	return replaced
}

// findSprite returns the sprite container, creating it as the first child
// of body when absent.
func findSprite(body *html.Node) *html.Node {
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "svg" {
			if _, ok := getAttr(c, svgSpriteAttr); ok {
				return c
			}
		}
	}
	sprite := newSVGElement("svg",
		html.Attribute{Key: "xmlns", Val: svgNamespaceURI},
		html.Attribute{Key: svgSpriteAttr, Val: ""},
		html.Attribute{Key: "aria-hidden", Val: "true"},
		html.Attribute{Key: "style", Val: "display:none"},
	)
	body.InsertBefore(sprite, body.FirstChild)
	return sprite
}

func newSVGElement(tag string, attrs ...html.Attribute) *html.Node {
	n := newElement(tag, attrs...)
	n.Namespace = "svg"
	return n
}

func svgHash(viewBox, inner string) string {
	sum := sha256.Sum256([]byte(viewBox + "\x00" + inner))
	return hex.EncodeToString(sum[:6])
}
