package pipeline

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// resourceAttrs lists the reference-bearing attributes per HTML element.
var resourceAttrs = map[string][]string{
	"img":    {"src", "srcset"},
	"source": {"src", "srcset"},
	"script": {"src"},
	"iframe": {"src"},
	"video":  {"src", "poster"},
	"audio":  {"src"},
	"embed":  {"src"},
	"track":  {"src"},
	"link":   {"href"},
	"a":      {"href"},
}

// RewriteStats counts what one Rewrite call changed.
type RewriteStats struct {
	Rewritten  int      // references pointed at snapshot files
	Links      int      // page links turned into section anchors
	Missing    int      // references whose target was not downloaded
	Unresolved []string // the missing references, in document order
}

// Rewriter points page references at snapshot files and at the sections of
// the merged document. Rewriting is idempotent: rewritten values are
// file:// URLs or fragments, which resolve as external or anchors.
type Rewriter struct {
	norm    *Normalizer
	anchors map[string]string
	ids     map[string][]string // element id -> pages defining it
	logger  *slog.Logger
}

// NewRewriter creates a Rewriter. anchors maps page paths to their section
// id; links to pages absent from it keep pointing at the site.
func NewRewriter(norm *Normalizer, anchors map[string]string, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Rewriter{norm: norm, anchors: anchors, logger: logger}
}

// IndexIDs records which pages define each element id. It must run before
// Rewrite. A link fragment survives merging only when its target page is
// the single page defining that id; any other fragment link falls back to
// the target's section anchor.
func (r *Rewriter) IndexIDs(pages []*Page) {
	ids := make(map[string][]string)
	for _, p := range pages {
		seen := make(map[string]bool)
		walk(p.Doc, func(n *html.Node) bool {
			if n.Type != html.ElementNode {
				return true
			}
			if id, ok := getAttr(n, "id"); ok && id != "" && !seen[id] {
				seen[id] = true
				ids[id] = append(ids[id], p.Path)
			}
			return true
		})
	}
	r.ids = ids
}

// Rewrite rewrites p.Doc in place and records the site stylesheets it links.
func (r *Rewriter) Rewrite(p *Page) RewriteStats {
	var stats RewriteStats
	walk(p.Doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if n.Namespace == "svg" {
			if n.Data == "use" || n.Data == "image" {
				r.rewriteSVGRef(p, n, &stats)
			}
			return true
		}
		if n.Namespace != "" {
			return true
		}
		for _, key := range resourceAttrs[n.Data] {
			val, ok := getAttr(n, key)
			if !ok || val == "" {
				continue
			}
			if key == "srcset" {
				setAttr(n, key, r.rewriteSrcset(p, val, &stats))
				continue
			}
			if n.Data == "a" {
				setAttr(n, key, r.rewriteLink(p, val, &stats))
				continue
			}
			setAttr(n, key, r.rewriteAsset(p, val, &stats))
		}
		return true
	})
	p.Stylesheets = collectStylesheets(p.Doc)
	p.stats = stats
	return stats
}

// rewriteAsset returns the file:// URL of ref, or ref unchanged.
func (r *Rewriter) rewriteAsset(p *Page, ref string, stats *RewriteStats) string {
	res, ok := r.resolve(p, ref, stats)
	if !ok {
		return ref
	}
	stats.Rewritten++
	return r.fileURL(res)
}

// rewriteLink turns links to merged pages into section anchors. Links to
// pages that were not downloaded become absolute site URLs.
func (r *Rewriter) rewriteLink(p *Page, ref string, stats *RewriteStats) string {
	res, err := r.norm.Resolve(p.Path, ref)
	switch {
	case res.Kind != RefLocal:
		return ref
	case errors.Is(err, ErrResourceNotFound):
		r.missing(p, ref, stats)
		if abs := r.norm.AbsoluteURL(p.Path, ref); abs != "" {
			return abs
		}
		return ref
	}

	if anchor, ok := r.anchors[res.Path]; ok {
		stats.Links++
		if owners := r.ids[res.Fragment]; res.Fragment != "" && len(owners) == 1 && owners[0] == res.Path {
			return "#" + res.Fragment
		}
		return "#" + anchor
	}
	if r.norm.Snapshot().IsPage(res.Path) {
		if abs := r.norm.AbsoluteURL(p.Path, ref); abs != "" {
			return abs
		}
	}
	stats.Rewritten++
	return r.fileURL(res)
}

// rewriteSrcset rewrites every candidate URL, keeping its descriptor.
func (r *Rewriter) rewriteSrcset(p *Page, srcset string, stats *RewriteStats) string {
	if strings.HasPrefix(strings.TrimSpace(srcset), "data:") {
		return srcset
	}
	parts := strings.Split(srcset, ",")
	for i, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		fields[0] = r.rewriteAsset(p, fields[0], stats)
		parts[i] = strings.Join(fields, " ")
	}
	return strings.Join(parts, ", ")
}

// rewriteSVGRef handles href and xlink:href on SVG use and image elements.
func (r *Rewriter) rewriteSVGRef(p *Page, n *html.Node, stats *RewriteStats) {
	for i, a := range n.Attr {
		if a.Key != "href" || (a.Namespace != "" && a.Namespace != "xlink") {
			continue
		}
		n.Attr[i].Val = r.rewriteAsset(p, a.Val, stats)
	}
}

// resolve reports whether ref names an existing snapshot file.
func (r *Rewriter) resolve(p *Page, ref string, stats *RewriteStats) (Reference, bool) {
	res, err := r.norm.Resolve(p.Path, ref)
	if res.Kind != RefLocal {
		return res, false
	}
	if err != nil {
		r.missing(p, ref, stats)
		return res, false
	}
	return res, true
}

func (r *Rewriter) missing(p *Page, ref string, stats *RewriteStats) {
	stats.Missing++
	stats.Unresolved = append(stats.Unresolved, ref)
	r.logger.Debug("unresolved reference", "page", p.Path, "ref", ref)
}

func (r *Rewriter) fileURL(res Reference) string {
	u := pathToFileURL(r.norm.Snapshot().AbsPath(res.Path))
	if res.Fragment != "" {
		u += "#" + res.Fragment
	}
	return u
}

// collectStylesheets returns the href of every <link rel="stylesheet">.
func collectStylesheets(doc *html.Node) []string {
	var sheets []string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "link" || n.Namespace != "" {
			return true
		}
		rel, _ := getAttr(n, "rel")
		href, _ := getAttr(n, "href")
		if href != "" && containsToken(rel, "stylesheet") {
			sheets = append(sheets, href)
		}
		return true
	})
	return sheets
}

func containsToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
