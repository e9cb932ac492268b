package web2pdf

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// WithRunner sets the Runner used by the default downloader and renderer.
func WithRunner(r Runner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}

// WithDownloader replaces the default HTTrack downloader.
func WithDownloader(d Downloader) Option {
	return func(c *Converter) {
		c.downloader = d
	}
}

// WithRenderer replaces the default wkhtmltopdf renderer. A renderer that
// implements io.Closer is closed by Converter.Close.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithLogger sets the diagnostic logger. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithHooks registers progress callbacks.
func WithHooks(h Hooks) Option {
	return func(c *Converter) {
		c.hooks = h
	}
}

// WithAssetPath sets a directory searched for styles and templates before
// the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.assetPath = path
	}
}

// WithStyle selects the print stylesheet by name (default "default").
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.styleName = name
	}
}

// WithNow sets the clock used for "auto" cover dates.
func WithNow(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}
