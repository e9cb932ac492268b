package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// FileKind classifies a snapshot file.
type FileKind int

const (
	KindAsset FileKind = iota
	KindPage
)

// Snapshot is a mirrored site on disk. Files maps slash-separated paths
// relative to Root to their kind. It is read-only once scanned.
type Snapshot struct {
	Root  string
	Files map[string]FileKind
}

// ScanSnapshot walks root and classifies every regular file. HTTrack
// bookkeeping (hts-cache, hts-log.txt and other hts-* entries) is skipped.
func ScanSnapshot(root string) (*Snapshot, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snapshot root %s is not a directory", abs)
	}

	snap := &Snapshot{Root: abs, Files: make(map[string]FileKind)}
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), "hts-") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		snap.Files[rel] = KindOf(rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	return snap, nil
}

// KindOf classifies a path by its extension.
func KindOf(rel string) FileKind {
	switch strings.ToLower(path.Ext(rel)) {
	case ".html", ".htm", ".xhtml":
		return KindPage
	default:
		return KindAsset
	}
}

// Has reports whether rel exists in the snapshot.
func (s *Snapshot) Has(rel string) bool {
	_, ok := s.Files[rel]
	return ok
}

// IsPage reports whether rel is an HTML page of the snapshot.
func (s *Snapshot) IsPage(rel string) bool {
	kind, ok := s.Files[rel]
	return ok && kind == KindPage
}

// Pages returns the page paths in byte-wise order.
func (s *Snapshot) Pages() []string {
	pages := make([]string, 0, len(s.Files))
	for rel, kind := range s.Files {
		if kind == KindPage {
			pages = append(pages, rel)
		}
	}
	sort.Strings(pages)
	return pages
}

// AbsPath returns the filesystem path of rel.
func (s *Snapshot) AbsPath(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}
