package assets

// Notes:
// - Symlink escape is tested on platforms where os.Symlink works; the test
//   skips otherwise (Windows without developer mode).

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, base, rel, content string) {
	t.Helper()
	p := filepath.Join(base, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestNewFilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	writeAsset(t, dir, "file.txt", "x")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid directory", path: dir},
		{name: "empty path", path: "", wantErr: true},
		{name: "missing directory", path: filepath.Join(dir, "missing"), wantErr: true},
		{name: "regular file", path: file, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFilesystemLoader(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBasePath) {
					t.Errorf("error = %v, want ErrInvalidBasePath", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_LoadStyle
// ---------------------------------------------------------------------------

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles/brand.css", "body { color: red; }")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := loader.LoadStyle("brand")
	if err != nil {
		t.Fatalf("LoadStyle(brand): %v", err)
	}
	if got != "body { color: red; }" {
		t.Errorf("LoadStyle(brand) = %q", got)
	}

	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeAsset(t, outside, "secret.css", "secret")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(dir, "styles", "leak.css")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loader.LoadStyle("leak"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(leak) error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_LoadTemplateSet
// ---------------------------------------------------------------------------

func TestFilesystemLoader_LoadTemplateSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "templates/full/cover.html", "<h1>{{.Title}}</h1>")
	writeAsset(t, dir, "templates/full/footer.html", "<span>{{.Text}}</span>")
	writeAsset(t, dir, "templates/half/cover.html", "<h1>{{.Title}}</h1>")

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatal(err)
	}

	ts, err := loader.LoadTemplateSet("full")
	if err != nil {
		t.Fatalf("LoadTemplateSet(full): %v", err)
	}
	if ts.Cover != "<h1>{{.Title}}</h1>" || ts.Footer != "<span>{{.Text}}</span>" {
		t.Errorf("unexpected template set: %+v", ts)
	}

	if _, err := loader.LoadTemplateSet("half"); !errors.Is(err, ErrIncompleteTemplateSet) {
		t.Errorf("LoadTemplateSet(half) error = %v, want ErrIncompleteTemplateSet", err)
	}
	if _, err := loader.LoadTemplateSet("none"); !errors.Is(err, ErrTemplateSetNotFound) {
		t.Errorf("LoadTemplateSet(none) error = %v, want ErrTemplateSetNotFound", err)
	}
}
