package web2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-web2pdf/internal/fileutil"
	"github.com/alnah/go-web2pdf/internal/pipeline"
)

// Snapshot is a mirrored site on disk.
type Snapshot = pipeline.Snapshot

// Downloader mirrors a site into dest and returns the resulting snapshot.
type Downloader interface {
	Download(ctx context.Context, siteURL, dest string) (*Snapshot, error)
}

// HTTrack defaults.
const (
	DefaultHTTrackBin  = "httrack"
	DefaultDepth       = 2
	DefaultConnections = 8
	DefaultUserAgent   = "Mozilla/5.0"
)

// HTTrackDownloader mirrors sites with the httrack command line tool.
type HTTrackDownloader struct {
	Runner      Runner
	Bin         string // empty = "httrack"
	Depth       int
	Connections int
	UserAgent   string
	OnLine      func(line string) // receives httrack output; may be nil
	Logger      *slog.Logger
}

// Compile-time interface implementation check.
var _ Downloader = (*HTTrackDownloader)(nil)

// Args builds the httrack argument list. The URL layout is kept as is
// (no -N structure option) so links between mirrored files stay valid.
func (d *HTTrackDownloader) Args(siteURL, dest string) []string {
	depth := d.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	conns := d.Connections
	if conns <= 0 {
		conns = DefaultConnections
	}
	ua := d.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return []string{
		siteURL,
		"-O", dest,
		"-r" + strconv.Itoa(depth),
		"-c" + strconv.Itoa(conns),
		"-F", ua,
		"-s0",
		"-%P",
		"-%v",
		"-v",
	}
}

// Download runs httrack and locates the mirrored site under dest.
func (d *HTTrackDownloader) Download(ctx context.Context, siteURL, dest string) (*Snapshot, error) {
	if _, err := ParseSiteURL(siteURL); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dest, fileutil.DirPerm); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, dest, err)
	}

	runner := d.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	bin := d.Bin
	if bin == "" {
		bin = DefaultHTTrackBin
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cmd := Command{Name: bin, Args: d.Args(siteURL, dest), OnLine: d.OnLine}
	logger.Debug("running httrack", "cmd", cmd.String())

	out, err := runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	logger.Debug("httrack finished", "exit", out.ExitCode, "duration", out.Duration)
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("%w: httrack exited with code %d%s", ErrDownloadFailed, out.ExitCode, formatTail(out.Tail))
	}

	snap, err := LocateSnapshot(dest, siteURL)
	if err != nil {
		if errors.Is(err, ErrMissingSnapshot) {
			return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
		}
		return nil, err
	}
	return snap, nil
}

// LocateSnapshot finds the mirrored site under dest. Candidates are, in
// order: dest/<site name> (the httrack layout), dest/web, and dest itself
// when it directly holds HTML pages. A candidate without pages is skipped.
func LocateSnapshot(dest, siteURL string) (*Snapshot, error) {
	name, err := SiteName(siteURL)
	if err != nil {
		return nil, err
	}

	candidates := []string{
		filepath.Join(dest, name),
		filepath.Join(dest, "web"),
	}
	for _, dir := range candidates {
		if !fileutil.DirExists(dir) {
			continue
		}
		snap, err := pipeline.ScanSnapshot(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		if len(snap.Pages()) > 0 {
			return snap, nil
		}
	}

	if hasTopLevelPage(dest) {
		snap, err := pipeline.ScanSnapshot(dest)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dest, err)
		}
		return snap, nil
	}
	return nil, fmt.Errorf("%w: no HTML pages under %s", ErrMissingSnapshot, dest)
}

func hasTopLevelPage(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "hts-") {
			continue
		}
		if pipeline.KindOf(e.Name()) == pipeline.KindPage {
			return true
		}
	}
	return false
}

// ParseSiteURL accepts absolute http and https URLs with a host.
func ParseSiteURL(siteURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q needs an http or https scheme", ErrInvalidURL, siteURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, siteURL)
	}
	return u, nil
}

// SiteName derives the snapshot directory name from the URL host, with
// ':' and '/' replaced by '_' ("localhost:8080" -> "localhost_8080").
func SiteName(siteURL string) (string, error) {
	u, err := ParseSiteURL(siteURL)
	if err != nil {
		return "", err
	}
	return strings.NewReplacer(":", "_", "/", "_").Replace(u.Host), nil
}

// formatTail renders the last output lines of a failed tool for an error.
func formatTail(tail []string) string {
	if len(tail) == 0 {
		return ""
	}
	const keep = 5
	if len(tail) > keep {
		tail = tail[len(tail)-keep:]
	}
	return "\n  " + strings.Join(tail, "\n  ")
}
