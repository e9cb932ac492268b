package pipeline

import (
	"regexp"
	"strings"
)

// ==text== is carried through goldmark as Private Use Area markers and
// turned into <mark> afterwards, so the renderer never needs WithUnsafe.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
	markReplacer       = strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>")
)

// prepareMarkdown normalizes line endings, limits blank runs to one empty
// line and encodes ==highlight== spans.
func prepareMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = highlightPattern.ReplaceAllString(content, markStart+"$1"+markEnd)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// finishMarks turns the markers left by prepareMarkdown into <mark> tags.
func finishMarks(htmlContent string) string {
	return markReplacer.Replace(htmlContent)
}
