package tooltip

import "regexp"

var (
	escapedNewline = regexp.MustCompile(`\\r\\n|\\r|\\n`)
	slashNewline   = regexp.MustCompile(`/r/n|/r|/n`)
	controlNewline = regexp.MustCompile(`\r\n|\r`)
)

// NormalizeNewlines folds backslash escaped, slash escaped and raw CR/LF
// sequences into a single "\n". It is idempotent.
func NormalizeNewlines(s string) string {
	s = escapedNewline.ReplaceAllString(s, "\n")
	s = slashNewline.ReplaceAllString(s, "\n")
	return controlNewline.ReplaceAllString(s, "\n")
}
