package assets

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_LoadStyle
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		styleName   string
		wantErr     error
		wantContain string
	}{
		{name: "default style", styleName: "default", wantContain: ".page-break"},
		{name: "compact style", styleName: "compact", wantContain: ".tab-label"},
		{name: "unknown style", styleName: "nonexistent-style", wantErr: ErrStyleNotFound},
		{name: "empty name", styleName: "", wantErr: ErrInvalidAssetName},
		{name: "traversal", styleName: "../secret", wantErr: ErrInvalidAssetName},
		{name: "dotted name", styleName: "default.css", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadStyle(%q) lacks %q", tt.styleName, tt.wantContain)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_LoadTemplateSet
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadTemplateSet(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	ts, err := loader.LoadTemplateSet(DefaultTemplateSetName)
	if err != nil {
		t.Fatalf("LoadTemplateSet(default): %v", err)
	}
	if ts.Name != DefaultTemplateSetName {
		t.Errorf("Name = %q, want %q", ts.Name, DefaultTemplateSetName)
	}
	if !strings.Contains(ts.Cover, "{{.Title}}") {
		t.Error("cover template lacks {{.Title}}")
	}
	if !strings.Contains(ts.Footer, `class="page"`) {
		t.Error("footer template lacks page placeholder")
	}

	if _, err := loader.LoadTemplateSet("missing"); !errors.Is(err, ErrTemplateSetNotFound) {
		t.Errorf("LoadTemplateSet(missing) error = %v, want ErrTemplateSetNotFound", err)
	}
	if _, err := loader.LoadTemplateSet("../x"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplateSet(../x) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestEmbeddedLoader_Styles(t *testing.T) {
	t.Parallel()

	got := NewEmbeddedLoader().Styles()
	want := []string{"compact", "default"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Styles() = %v, want %v", got, want)
	}
}
