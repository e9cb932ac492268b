package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-web2pdf/internal/fileutil"
	"github.com/alnah/go-web2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxUserAgentLength   = 512
	MaxTitleLength       = 200
	MaxTextLength        = 500
	MaxHTMLLength        = 8192
	MaxDateLength        = 60
	MaxStyleNameLength   = 50
	MaxPageSizeLength    = 10
	MaxOrientationLength = 10
)

// Config holds every setting of a conversion run. Zero values mean "use the
// default"; see DefaultConfig.
type Config struct {
	Download  DownloadConfig  `yaml:"download"`
	Output    OutputConfig    `yaml:"output"`
	Page      PageConfig      `yaml:"page"`
	Render    RenderConfig    `yaml:"render"`
	Content   ContentConfig   `yaml:"content"`
	Highlight HighlightConfig `yaml:"highlight"`
	TOC       TOCConfig       `yaml:"toc"`
	Cover     CoverConfig     `yaml:"cover"`
	Header    HeaderConfig    `yaml:"header"`
	Footer    FooterConfig    `yaml:"footer"`
	Assets    AssetsConfig    `yaml:"assets"`
	Order     string          `yaml:"order"`   // "path" or "nav"
	Workers   int             `yaml:"workers"` // per-page preprocessing workers
	Timeout   string          `yaml:"timeout"` // Go duration; empty = no deadline
	Preface   string          `yaml:"preface"` // Markdown file rendered before the pages
}

// DownloadConfig controls the HTTrack mirror.
type DownloadConfig struct {
	Dir         string `yaml:"dir"`         // snapshot root (default ./downloads)
	Depth       int    `yaml:"depth"`       // HTTrack -r
	Connections int    `yaml:"connections"` // HTTrack -c
	UserAgent   string `yaml:"userAgent"`   // HTTrack -F
	Bin         string `yaml:"bin"`         // httrack executable
}

// OutputConfig controls where results land.
type OutputConfig struct {
	Dir      string `yaml:"dir"`      // directory for bare output names (default ./output)
	File     string `yaml:"file"`     // output PDF when -o is absent
	Markdown bool   `yaml:"markdown"` // also write <output>.md
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // a4, letter, legal, a3, a5
	Orientation string  `yaml:"orientation"` // portrait, landscape
	Margin      float64 `yaml:"margin"`      // millimetres
}

// RenderConfig selects and tunes the PDF engine.
type RenderConfig struct {
	Engine          string `yaml:"engine"`          // wkhtmltopdf or chrome
	Bin             string `yaml:"bin"`             // wkhtmltopdf executable
	JavaScriptDelay int    `yaml:"javascriptDelay"` // ms wkhtmltopdf waits for scripts
	SiteStyles      *bool  `yaml:"siteStyles"`      // keep the site's own stylesheets
}

// ContentConfig tunes per-page content extraction.
type ContentConfig struct {
	KeepNav bool `yaml:"keepNav"`
}

// HighlightConfig controls syntax highlighting of unstyled code blocks.
type HighlightConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name
}

// TOCConfig defines the generated table of contents.
type TOCConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Title   string `yaml:"title"`
	Outline bool   `yaml:"outline"` // also ask wkhtmltopdf for its own toc page
}

// CoverConfig defines the opening header block.
type CoverConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"` // empty = root page title
	Date    string `yaml:"date"`  // literal, "auto" or "auto:FORMAT"
}

// HeaderConfig holds an optional running header fragment.
type HeaderConfig struct {
	HTML string `yaml:"html"`
}

// FooterConfig holds the running footer.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Text           string `yaml:"text"`
	ShowPageNumber bool   `yaml:"showPageNumber"`
	HTML           string `yaml:"html"` // replaces the built-in footer template
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
	Style    string `yaml:"style"`    // stylesheet name (default "default")
}

// Defaults applied by DefaultConfig and the CLI.
const (
	DefaultDownloadDir = "downloads"
	DefaultOutputDir   = "output"
	DefaultDepth       = 2
	DefaultConnections = 8
	DefaultUserAgent   = "Mozilla/5.0"
	DefaultMargin      = 20.0
	DefaultJSDelay     = 1000
	DefaultTOCTitle    = "Contents"
	DefaultHighlight   = "github"
)

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		Download: DownloadConfig{
			Dir:         DefaultDownloadDir,
			Depth:       DefaultDepth,
			Connections: DefaultConnections,
			UserAgent:   DefaultUserAgent,
			Bin:         "httrack",
		},
		Output: OutputConfig{Dir: DefaultOutputDir},
		Page:   PageConfig{Size: "a4", Orientation: "portrait", Margin: DefaultMargin},
		Render: RenderConfig{
			Engine:          "wkhtmltopdf",
			Bin:             "wkhtmltopdf",
			JavaScriptDelay: DefaultJSDelay,
			SiteStyles:      &enabled,
		},
		Highlight: HighlightConfig{Enabled: &enabled, Style: DefaultHighlight},
		TOC:       TOCConfig{Enabled: &enabled, Title: DefaultTOCTitle},
		Cover:     CoverConfig{Date: "auto"},
		Footer:    FooterConfig{Enabled: true, ShowPageNumber: true},
		Order:     "path",
		Workers:   1,
	}
}

// Validate checks enumerations, ranges and field lengths.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"download.dir", c.Download.Dir, MaxPathLength},
		{"download.userAgent", c.Download.UserAgent, MaxUserAgentLength},
		{"download.bin", c.Download.Bin, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"output.file", c.Output.File, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"render.bin", c.Render.Bin, MaxPathLength},
		{"highlight.style", c.Highlight.Style, MaxStyleNameLength},
		{"toc.title", c.TOC.Title, MaxTitleLength},
		{"cover.title", c.Cover.Title, MaxTitleLength},
		{"cover.date", c.Cover.Date, MaxDateLength},
		{"header.html", c.Header.HTML, MaxHTMLLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"footer.html", c.Footer.HTML, MaxHTMLLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.style", c.Assets.Style, MaxStyleNameLength},
		{"preface", c.Preface, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Download.Depth < 0 {
		return fmt.Errorf("%w: download.depth must be >= 0, got %d", ErrInvalidValue, c.Download.Depth)
	}
	if c.Download.Connections < 0 {
		return fmt.Errorf("%w: download.connections must be >= 0, got %d", ErrInvalidValue, c.Download.Connections)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidValue, c.Workers)
	}
	if c.Render.JavaScriptDelay < 0 {
		return fmt.Errorf("%w: render.javascriptDelay must be >= 0, got %d", ErrInvalidValue, c.Render.JavaScriptDelay)
	}

	switch strings.ToLower(c.Order) {
	case "", "path", "nav":
	default:
		return fmt.Errorf("%w: order %q (must be path or nav)", ErrInvalidValue, c.Order)
	}
	switch strings.ToLower(c.Render.Engine) {
	case "", "wkhtmltopdf", "chrome":
	default:
		return fmt.Errorf("%w: render.engine %q (must be wkhtmltopdf or chrome)", ErrInvalidValue, c.Render.Engine)
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty means no deadline.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: timeout %q (use a duration such as 10m)", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

// TOCEnabled reports whether the table of contents is on (default true).
func (c *Config) TOCEnabled() bool { return c.TOC.Enabled == nil || *c.TOC.Enabled }

// HighlightEnabled reports whether code highlighting is on (default true).
func (c *Config) HighlightEnabled() bool { return c.Highlight.Enabled == nil || *c.Highlight.Enabled }

// SiteStylesEnabled reports whether site stylesheets are kept (default true).
func (c *Config) SiteStylesEnabled() bool { return c.Render.SiteStyles == nil || *c.Render.SiteStyles }

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig reads a YAML file on top of DefaultConfig. nameOrPath is a path
// when it contains a separator, otherwise a name searched in ./ and the user
// config directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	exts := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, "go-web2pdf", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
