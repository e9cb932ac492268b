package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-web2pdf/internal/assets"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no escape needed", input: "body { color: red; }", expected: "body { color: red; }"},
		{name: "escapes style close", input: "</style>", expected: `<\/style>`},
		{name: "multiple occurrences", input: "</a></b>", expected: `<\/a><\/b>`},
		{name: "case variation", input: "</STYLE>", expected: `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDecoration
// ---------------------------------------------------------------------------

func defaultTemplates(t *testing.T) *assets.TemplateSet {
	t.Helper()
	ts, err := assets.NewEmbeddedLoader().LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		t.Fatalf("LoadTemplateSet: %v", err)
	}
	return ts
}

func TestCoverDecoration_Render(t *testing.T) {
	t.Parallel()

	cover, err := NewCoverDecoration(defaultTemplates(t).Cover)
	if err != nil {
		t.Fatalf("NewCoverDecoration: %v", err)
	}

	out, err := cover.Render(context.Background(), &CoverData{
		Title:     "Docs <beta>",
		SourceURL: "https://docs.example.com/",
		Date:      "2026-03-07",
		Pages:     12,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"Docs &lt;beta&gt;", `href="https://docs.example.com/"`, "2026-03-07", "12 pages"} {
		if !strings.Contains(out, want) {
			t.Errorf("cover missing %q\n%s", want, out)
		}
	}
}

func TestFooterDecoration_Render(t *testing.T) {
	t.Parallel()

	footer, err := NewFooterDecoration(defaultTemplates(t).Footer)
	if err != nil {
		t.Fatalf("NewFooterDecoration: %v", err)
	}

	tests := []struct {
		name     string
		data     *FooterData
		contains []string
		excludes []string
	}{
		{
			name:     "text and numbers",
			data:     &FooterData{Text: "Example Docs", ShowPageNumber: true},
			contains: []string{"Example Docs", `class="page"`, `class="topage"`},
		},
		{
			name:     "text only",
			data:     &FooterData{Text: "Example Docs"},
			contains: []string{"Example Docs"},
			excludes: []string{`class="page"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := footer.Render(context.Background(), tt.data)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("footer missing %q\n%s", want, out)
				}
			}
			for _, ex := range tt.excludes {
				if strings.Contains(out, ex) {
					t.Errorf("footer should not contain %q\n%s", ex, out)
				}
			}
		})
	}
}

func TestDecoration_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewCoverDecoration("{{.Title"); err == nil {
		t.Error("expected parse error")
	}

	d, err := NewCoverDecoration("{{.Missing}}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Render(context.Background(), &CoverData{}); !errors.Is(err, ErrCoverRender) {
		t.Errorf("error = %v, want ErrCoverRender", err)
	}

	if out, err := d.Render(context.Background(), nil); err != nil || out != "" {
		t.Errorf("nil data = %q, %v; want empty", out, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Render(ctx, &CoverData{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
