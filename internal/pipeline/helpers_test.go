package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// writeSite writes files (slash-separated relative path -> content) under a
// temporary directory and scans it.
func writeSite(t *testing.T, files map[string]string) *Snapshot {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	snap, err := ScanSnapshot(root)
	if err != nil {
		t.Fatalf("ScanSnapshot: %v", err)
	}
	return snap
}

func mustParse(t *testing.T, content string) *html.Node {
	t.Helper()
	doc, err := parseDocument(strings.NewReader(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustRender(t *testing.T, n *html.Node) string {
	t.Helper()
	s, err := renderNode(n)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return s
}

func mustNormalizer(t *testing.T, snap *Snapshot, base string) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(snap, base)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}

// countElements counts elements named tag carrying class (any class when
// class is "").
func countElements(n *html.Node, tag, class string) int {
	count := 0
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && c.Data == tag && (class == "" || hasClass(c, class)) {
			count++
		}
		return true
	})
	return count
}

func page(title, body string) string {
	return "<!DOCTYPE html><html><head><title>" + title + "</title></head><body>" + body + "</body></html>"
}
