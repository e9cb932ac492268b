// Package web2pdf mirrors a website and turns it into a single PDF.
//
// A conversion runs four steps in order:
//
//   - download: HTTrack mirrors the site into a working directory
//   - preprocess: every page gets its references rewritten to local files
//     and page anchors, its tab widgets flattened and its content extracted
//   - merge: pages are concatenated, crawl root first, with page breaks and
//     a table of contents
//   - render: wkhtmltopdf (or headless Chrome) prints the merged document
//
// # Quick Start
//
//	conv, err := web2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, web2pdf.Job{
//	    URL:     "https://docs.example.com/",
//	    WorkDir: "downloads/docs.example.com",
//	    Output:  "output/docs.pdf",
//	})
//
// # External Tools
//
// Downloading needs httrack and rendering needs wkhtmltopdf on PATH. Both are
// invoked through a Runner, so tests and embedders can substitute their own.
// The chrome engine uses go-rod, which downloads Chromium when none is found.
//
// # Errors
//
// Failures wrap sentinel errors (ErrDownloadFailed, ErrMissingSnapshot,
// ErrRenderFailed...) and can be classified with errors.Is. Unresolvable
// references inside pages are never fatal; they are counted in the Result.
package web2pdf
