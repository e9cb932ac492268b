package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrResourceNotFound indicates a reference whose target is not part of the
// snapshot. It is reported per reference and never aborts a run.
var ErrResourceNotFound = errors.New("resource not found in snapshot")

// RefKind classifies a resolved reference.
type RefKind int

const (
	RefLocal    RefKind = iota // file inside the snapshot
	RefAnchor                  // in-page fragment
	RefExternal                // other host or non-navigational scheme
)

// Reference is the outcome of resolving one URL reference.
type Reference struct {
	Kind     RefKind
	Path     string // snapshot-relative, set for RefLocal
	Fragment string
}

// Normalizer maps references found in snapshot pages onto snapshot files.
type Normalizer struct {
	snap *Snapshot
	base *url.URL
}

// NewNormalizer creates a Normalizer. baseURL is the crawl URL; it may be
// empty, in which case absolute URLs are always external.
func NewNormalizer(snap *Snapshot, baseURL string) (*Normalizer, error) {
	n := &Normalizer{snap: snap}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		n.base = u
	}
	return n, nil
}

// Snapshot returns the snapshot the normalizer resolves against.
func (n *Normalizer) Snapshot() *Snapshot { return n.snap }

// Resolve resolves ref as found in the page at pageRel. A RefLocal result
// with a nil error names an existing snapshot file; a missing target returns
// the candidate path together with an error wrapping ErrResourceNotFound.
func (n *Normalizer) Resolve(pageRel, ref string) (Reference, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Reference{Kind: RefAnchor}, nil
	}
	if strings.HasPrefix(ref, "#") {
		return Reference{Kind: RefAnchor, Fragment: ref[1:]}, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return Reference{Kind: RefExternal}, nil
	}

	var target string
	switch {
	case u.Scheme != "" || u.Host != "":
		if !n.sameSite(u) {
			return Reference{Kind: RefExternal, Fragment: u.Fragment}, nil
		}
		target = strings.TrimPrefix(u.Path, "/")
		if target == "" || strings.HasSuffix(u.Path, "/") {
			target = path.Join(target, "index.html")
		}
	case u.Path == "":
		// "?page=2" refers to the current page
		target = pageRel
	case strings.HasPrefix(u.Path, "/"):
		target = strings.TrimPrefix(u.Path, "/")
		if target == "" || strings.HasSuffix(u.Path, "/") {
			target = path.Join(target, "index.html")
		}
	default:
		target = path.Join(path.Dir(pageRel), u.Path)
		if strings.HasSuffix(u.Path, "/") {
			target = path.Join(target, "index.html")
		}
	}

	target = path.Clean(target)
	if target == "." {
		target = "index.html"
	}
	if target == ".." || strings.HasPrefix(target, "../") {
		return Reference{Kind: RefLocal, Path: target, Fragment: u.Fragment},
			fmt.Errorf("%w: %s escapes the snapshot root", ErrResourceNotFound, ref)
	}

	for _, candidate := range candidates(target) {
		if n.snap.Has(candidate) {
			return Reference{Kind: RefLocal, Path: candidate, Fragment: u.Fragment}, nil
		}
	}
	return Reference{Kind: RefLocal, Path: target, Fragment: u.Fragment},
		fmt.Errorf("%w: %s", ErrResourceNotFound, ref)
}

// candidates lists the files a cleaned target may be stored as.
func candidates(target string) []string {
	if path.Ext(target) != "" {
		return []string{target}
	}
	return []string{target, target + ".html", path.Join(target, "index.html")}
}

func (n *Normalizer) sameSite(u *url.URL) bool {
	if n.base == nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
	default:
		return false // data:, mailto:, javascript:, tel:, file:...
	}
	return strings.EqualFold(u.Host, n.base.Host)
}

// AbsoluteURL returns the site URL of ref as seen from pageRel, or "" when
// no crawl URL is known.
func (n *Normalizer) AbsoluteURL(pageRel, ref string) string {
	if n.base == nil {
		return ""
	}
	pageURL := &url.URL{Scheme: n.base.Scheme, Host: n.base.Host, Path: "/" + pageRel}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return pageURL.ResolveReference(u).String()
}

// RootPage returns the snapshot page for the crawl URL. It falls back to
// index.html and then to the first page in path order; "" means the
// snapshot has no pages.
func (n *Normalizer) RootPage() string {
	if n.base != nil {
		if ref, err := n.Resolve("", n.base.String()); err == nil && n.snap.IsPage(ref.Path) {
			return ref.Path
		}
	}
	if n.snap.IsPage("index.html") {
		return "index.html"
	}
	if pages := n.snap.Pages(); len(pages) > 0 {
		return pages[0]
	}
	return ""
}
