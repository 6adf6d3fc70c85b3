package textprep

import (
	"regexp"
	"strings"
)

var (
	reBlankRuns = regexp.MustCompile(`\n{3,}`)
	reTrailing  = regexp.MustCompile(`[ \t]+\n`)
)

// Normalize cleans raw document text before extraction: unifies line
// endings, drops control characters OCR tends to emit and collapses runs of
// blank lines. Layout-significant spacing inside lines is preserved; the
// column parsers depend on it.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = reTrailing.ReplaceAllString(text, "\n")
	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
