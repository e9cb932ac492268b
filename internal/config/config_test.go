package config

// Notes:
// - LoadConfig name lookup in the user config directory is not exercised:
//   it depends on the host's HOME/XDG settings. Path-based loading and the
//   not-found error cover the shared code.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestDefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Download.Dir != DefaultDownloadDir {
		t.Errorf("Download.Dir = %q, want %q", cfg.Download.Dir, DefaultDownloadDir)
	}
	if cfg.Download.Depth != 2 || cfg.Download.Connections != 8 {
		t.Errorf("Download depth/connections = %d/%d, want 2/8", cfg.Download.Depth, cfg.Download.Connections)
	}
	if cfg.Output.Dir != DefaultOutputDir {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, DefaultOutputDir)
	}
	if cfg.Page.Size != "a4" || cfg.Page.Margin != 20 {
		t.Errorf("Page = %+v, want a4 with 20mm margin", cfg.Page)
	}
	if cfg.Render.Engine != "wkhtmltopdf" {
		t.Errorf("Render.Engine = %q, want wkhtmltopdf", cfg.Render.Engine)
	}
	if !cfg.TOCEnabled() || !cfg.HighlightEnabled() || !cfg.SiteStylesEnabled() {
		t.Error("toc, highlight and site styles should default to enabled")
	}
	if cfg.Order != "path" || cfg.Workers != 1 {
		t.Errorf("Order/Workers = %q/%d, want path/1", cfg.Order, cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEnabledHelpers_NilMeansOn(t *testing.T) {
	t.Parallel()

	var cfg Config
	if !cfg.TOCEnabled() || !cfg.HighlightEnabled() || !cfg.SiteStylesEnabled() {
		t.Error("nil toggles should read as enabled")
	}

	off := false
	cfg.TOC.Enabled = &off
	if cfg.TOCEnabled() {
		t.Error("TOCEnabled() = true after explicit false")
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults valid",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown order",
			mutate:  func(c *Config) { c.Order = "title" },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "nav order",
			mutate: func(c *Config) { c.Order = "NAV" },
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Render.Engine = "prince" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative depth",
			mutate:  func(c *Config) { c.Download.Depth = -3 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Timeout = "ten minutes" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "footer text too long",
			mutate:  func(c *Config) { c.Footer.Text = strings.Repeat("x", MaxTextLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "toc title too long",
			mutate:  func(c *Config) { c.TOC.Title = strings.Repeat("x", MaxTitleLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutDuration(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if d, err := cfg.TimeoutDuration(); err != nil || d != 0 {
		t.Errorf("empty timeout = %v, %v; want 0, nil", d, err)
	}

	cfg.Timeout = "90s"
	if d, err := cfg.TimeoutDuration(); err != nil || d != 90*time.Second {
		t.Errorf("90s timeout = %v, %v", d, err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
download:
  depth: 4
page:
  size: letter
toc:
  title: Inhalt
order: nav
timeout: 5m
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Download.Depth != 4 {
		t.Errorf("Download.Depth = %d, want 4", cfg.Download.Depth)
	}
	if cfg.Download.UserAgent != DefaultUserAgent {
		t.Errorf("Download.UserAgent = %q, default lost", cfg.Download.UserAgent)
	}
	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, want letter", cfg.Page.Size)
	}
	if cfg.TOC.Title != "Inhalt" {
		t.Errorf("TOC.Title = %q, want Inhalt", cfg.TOC.Title)
	}
	if cfg.Order != "nav" {
		t.Errorf("Order = %q, want nav", cfg.Order)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		arg     func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "empty name",
			arg:     func(*testing.T) string { return "" },
			wantErr: ErrEmptyConfigName,
		},
		{
			name:    "missing path",
			arg:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: ErrConfigNotFound,
		},
		{
			name:    "missing name",
			arg:     func(*testing.T) string { return "web2pdf-config-that-does-not-exist" },
			wantErr: ErrConfigNotFound,
		},
		{
			name:    "unknown key",
			arg:     func(t *testing.T) string { return writeConfig(t, "downlaod:\n  depth: 1\n") },
			wantErr: ErrConfigParse,
		},
		{
			name:    "invalid value",
			arg:     func(t *testing.T) string { return writeConfig(t, "order: random\n") },
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(tt.arg(t))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("site")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths returned %d paths, want at least 2", len(paths))
	}
	if paths[0] != "site.yaml" || paths[1] != "site.yml" {
		t.Errorf("local candidates = %v, want site.yaml then site.yml", paths[:2])
	}
}
