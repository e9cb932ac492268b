package fileutil_test

// Notes:
// - WriteTempFile write/close failure branches depend on disk errors and are
//   not exercised.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "html", extension: "html"},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "slash", extension: "../x", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: `..\x`, wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "html\x00", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<html></html>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile: %v", err)
	}

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q lacks .html suffix", path)
	}
	if !strings.Contains(filepath.Base(path), "web2pdf-") {
		t.Errorf("path %q lacks web2pdf- prefix", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("content = %q", data)
	}

	cleanup()
	if fileutil.FileExists(path) {
		t.Error("cleanup did not remove the file")
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("x", "")
	if !errors.Is(err, fileutil.ErrExtensionEmpty) {
		t.Fatalf("error = %v, want ErrExtensionEmpty", err)
	}
	if cleanup != nil {
		t.Error("cleanup should be nil on error")
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists / TestEnsureParentDir
// ---------------------------------------------------------------------------

func TestFileAndDirExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "page.html")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if !fileutil.DirExists(dir) {
		t.Error("DirExists(dir) = false")
	}
	if fileutil.DirExists(file) {
		t.Error("DirExists(file) = true")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true")
	}
}

func TestEnsureParentDir(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "a", "b", "out.pdf")
	if err := fileutil.EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir: %v", err)
	}
	if !fileutil.DirExists(filepath.Dir(target)) {
		t.Error("parent directory not created")
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL / TestReplaceExtension
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"site.pdf", false},
		{"out/site.pdf", true},
		{"/abs/site.pdf", true},
		{`C:\out\site.pdf`, true},
		{"my-config", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	if !fileutil.IsURL("https://example.com") {
		t.Error("https URL not detected")
	}
	if !fileutil.IsURL("http://example.com") {
		t.Error("http URL not detected")
	}
	if fileutil.IsURL("example.com") {
		t.Error("bare host detected as URL")
	}
}

func TestReplaceExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, ext, want string
	}{
		{"out/site.pdf", ".md", "out/site.md"},
		{"site", ".md", "site.md"},
		{"a.b/site.pdf", ".html", "a.b/site.html"},
	}

	for _, tt := range tests {
		if got := fileutil.ReplaceExtension(tt.path, tt.ext); got != tt.want {
			t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}
