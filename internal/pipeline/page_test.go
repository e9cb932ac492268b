package pipeline

import "testing"

func TestPageTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		rel  string
		want string
	}{
		{name: "title element", html: `<html><head><title>  Getting   Started </title></head><body><h1>Other</h1></body></html>`, rel: "a.html", want: "Getting Started"},
		{name: "h1 fallback", html: `<html><head><title> </title></head><body><h1>Install <code>x</code></h1></body></html>`, rel: "a.html", want: "Install x"},
		{name: "file name fallback", html: `<p>no headings</p>`, rel: "guide/setup.html", want: "setup"},
		{name: "directory index fallback", html: `<p>x</p>`, rel: "reference/index.html", want: "reference"},
		{name: "root index fallback", html: `<p>x</p>`, rel: "index.html", want: "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := pageTitle(mustParse(t, tt.html), tt.rel); got != tt.want {
				t.Errorf("pageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadPage(t *testing.T) {
	t.Parallel()

	snap := writeSite(t, map[string]string{"docs/intro.html": page("Intro", "<p>hello</p>")})

	p, err := LoadPage(snap, "docs/intro.html")
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if p.Path != "docs/intro.html" || p.Title != "Intro" {
		t.Errorf("page = %q %q", p.Path, p.Title)
	}

	if _, err := LoadPage(snap, "docs/missing.html"); err == nil {
		t.Error("expected error for missing page")
	}
}
