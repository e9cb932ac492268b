// Package pipeline turns a mirrored website into one printable HTML document.
//
// The stages run in this order:
//   - snapshot scan and page loading (title detection)
//   - page ordering (crawl root first, then path or navigation order)
//   - per-page preprocessing: details expansion, tab flattening, reference
//     rewriting, SVG normalization, code highlighting, content extraction
//   - merging into sections with page breaks, a table of contents, an
//     optional cover block and an optional Markdown preface
//   - SVG deduplication over the merged tree
//
// Rendering the merged document to PDF is done by the root web2pdf package
// through an external renderer. This package never runs external tools.
package pipeline
