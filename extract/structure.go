package extract

import (
	"regexp"
	"strings"
)

// documentTitle is the top-level heading prefixed to every structured document.
const documentTitle = "# Resume/CV Document"

// Known résumé section names promoted to level-2 headings.
var sectionNames = map[string]bool{
	"summary":                 true,
	"objective":               true,
	"skills":                  true,
	"technical skills":        true,
	"experience":              true,
	"work experience":         true,
	"professional experience": true,
	"education":               true,
	"academic credentials":    true,
	"certifications":          true,
	"projects":                true,
	"publications":            true,
	"honours and awards":      true,
	"honors and awards":       true,
	"references":              true,
}

var (
	contactRe  = regexp.MustCompile(`(?i)@|linkedin|phone|\+\d|\.com\b|\.ca\b`)
	jobTitleRe = regexp.MustCompile(`(?i)\b(developer|engineer|manager|analyst|consultant|specialist|coordinator|director|lead|senior|junior|full\s+stack)\b`)
	companyRe  = regexp.MustCompile(`(?i)\||\b(at|company|clients)\b`)
	dateRe     = regexp.MustCompile(`(?i)\b(20\d{2}|jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|present|current)\b`)
	skillRe    = regexp.MustCompile(`(?i)\b(php|javascript|typescript|react|node|python|java|golang|sql|html|css|laravel|bootstrap|mysql|postgresql|mongodb|redis|aws|azure|gcp|docker|kubernetes|git)\b`)

	bulletGlyphs = []string{"•", "◦", "-", "*"}
)

// lineRule is one (predicate, transform) pair of the classification cascade.
// Rules are evaluated in priority order and the first match wins, so the
// cascade's order-dependence stays explicit and each rule is testable alone.
type lineRule struct {
	name  string
	match func(line string) bool
	emit  func(line string) string
}

var lineRules = []lineRule{
	{
		name: "section",
		match: func(line string) bool {
			return sectionNames[strings.ToLower(strings.TrimSuffix(line, ":"))]
		},
		emit: func(line string) string {
			return "\n## " + strings.TrimSuffix(line, ":") + "\n"
		},
	},
	{
		name:  "contact",
		match: contactRe.MatchString,
		emit:  func(line string) string { return "**" + line + "**" },
	},
	{
		name: "jobtitle",
		match: func(line string) bool {
			return jobTitleRe.MatchString(line) && companyRe.MatchString(line)
		},
		emit: func(line string) string { return "### " + line },
	},
	{
		name:  "date",
		match: dateRe.MatchString,
		emit:  func(line string) string { return "*" + line + "*" },
	},
	{
		name: "bullet",
		match: func(line string) bool {
			for _, g := range bulletGlyphs {
				if strings.HasPrefix(line, g) {
					return true
				}
			}
			return false
		},
		emit: func(line string) string {
			for _, g := range bulletGlyphs {
				if strings.HasPrefix(line, g) {
					return "- " + strings.TrimSpace(strings.TrimPrefix(line, g))
				}
			}
			return line
		},
	},
	{
		name:  "skill",
		match: skillRe.MatchString,
		emit:  func(line string) string { return "- " + line },
	},
}

// Structure converts cleaned flat text into a heading/bullet-annotated
// markdown document using line-level heuristic classification. Input that
// already contains markdown heading markers is returned unchanged.
//
// Classification errors (a sentence mentioning "AWS" emitted as a skill
// bullet, say) are accepted false positives of the heuristic, not defects.
func Structure(text string) string {
	if text == "" {
		return text
	}
	if hasMarkdownHeading(text) {
		return text
	}

	out := []string{documentTitle + "\n"}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, classifyLine(line))
	}

	structured := strings.Join(out, "\n")
	structured = blankRunRe.ReplaceAllString(structured, "\n\n")
	return strings.TrimSpace(structured)
}

func classifyLine(line string) string {
	for _, rule := range lineRules {
		if rule.match(line) {
			return rule.emit(line)
		}
	}
	return line
}

// hasMarkdownHeading reports whether any line starts with an ATX heading
// marker, which means the text is already markdown-structured.
func hasMarkdownHeading(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, "# ") {
			return true
		}
		if trimmed == "#" {
			return true
		}
	}
	return false
}
