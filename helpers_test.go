package web2pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeRunner records commands and answers with a fixed outcome. run, when
// set, executes first and can write the files the real tool would produce.
type fakeRunner struct {
	mu       sync.Mutex
	commands []Command
	outcome  Outcome
	err      error
	run      func(cmd Command) error
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (Outcome, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()
	if f.run != nil {
		if err := f.run(cmd); err != nil {
			return Outcome{}, err
		}
	}
	return f.outcome, f.err
}

func (f *fakeRunner) calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.commands...)
}

// fakeDownloader writes a fixed site under dest/<site name>.
type fakeDownloader struct {
	files map[string]string
	err   error
	calls int
}

func (f *fakeDownloader) Download(_ context.Context, siteURL, dest string) (*Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	name, err := SiteName(siteURL)
	if err != nil {
		return nil, err
	}
	writeFiles(nil, filepath.Join(dest, name), f.files)
	return LocateSnapshot(dest, siteURL)
}

// fakeRenderer keeps the request and the merged HTML it was given, then
// writes a one-page PDF to the output path.
type fakeRenderer struct {
	req    RenderRequest
	merged string
	err    error
	calls  int
	closed bool
}

func (f *fakeRenderer) Render(_ context.Context, req RenderRequest) error {
	f.calls++
	f.req = req
	data, err := os.ReadFile(req.Input)
	if err != nil {
		return err
	}
	f.merged = string(data)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(req.Output, minimalPDF(1), 0o600)
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// writeFiles writes slash-separated relative paths under root. t may be nil
// inside fakes, where a failure panics instead.
func writeFiles(t *testing.T, root string, files map[string]string) {
	fail := func(err error) {
		if t != nil {
			t.Helper()
			t.Fatal(err)
		}
		panic(err)
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			fail(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			fail(err)
		}
	}
}

func htmlPage(title, body string) string {
	return "<!DOCTYPE html><html><head><title>" + title + "</title></head><body>" + body + "</body></html>"
}

// minimalPDF builds a structurally valid PDF with n empty A4 pages.
func minimalPDF(n int) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < n; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))
	for i := 0; i < n; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}
