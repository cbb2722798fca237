package extract

import (
	"regexp"
	"strings"
)

var (
	horizontalRunRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes whitespace in raw extracted text without destroying
// layout semantics. Runs of spaces and tabs collapse to a single space,
// trailing whitespace is stripped per line, and two or more consecutive
// blank lines collapse to exactly one. Newlines are otherwise preserved,
// and no intra-word character, digit, or punctuation is touched.
//
// Clean is idempotent: Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = horizontalRunRe.ReplaceAllString(line, " ")
		lines[i] = strings.TrimRight(line, " ")
	}

	cleaned := strings.Join(lines, "\n")
	cleaned = blankRunRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// CountWords returns the number of whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
