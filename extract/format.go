package extract

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	json "github.com/BalwinderCa/cvgenix/json"
)

// BuildReport packages the winning scored result into the final extraction
// record. It never fails: when the requested format has no native payload a
// synthesized fallback is used, and a JSON request that cannot be satisfied
// degrades to an envelope carrying the best available text plus the reason.
//
// Word and character counts always come from the cleaned primary text,
// regardless of the requested output format.
func BuildReport(req Request, winner ScoredResult, all map[string]Attempt, elapsed time.Duration) Report {
	report := Report{
		Success:        true,
		ExtractedText:  winner.CleanedText,
		MarkdownText:   winner.MarkdownOut,
		PageCount:      winner.PageCount,
		WordCount:      winner.WordCount,
		CharacterCount: winner.CharCount,
		Method:         winner.Method,
		Library:        winner.Library,
		OutputFormat:   req.Format,
		ProcessingMode: winner.Mode,
		ProcessingTime: elapsed.Milliseconds(),
		AllResults:     all,
	}

	if report.PageCount < 1 {
		report.PageCount = estimatePageCount(winner.CleanedText)
	}

	switch req.Format {
	case FormatHTML:
		html := winner.HTML
		if html == "" {
			html = htmlFromMarkdown(winner.MarkdownOut)
		}
		report.HTMLText = html
		report.ExtractedText = html
	case FormatCSV:
		csv := winner.CSV
		if csv == "" {
			csv = csvFromText(winner.CleanedText)
		}
		report.CSVText = csv
		report.ExtractedText = csv
	case FormatJSON:
		data := winner.JSON
		if data == nil {
			data = jsonEnvelope(winner.CleanedText, winner.Method, report.PageCount,
				"backend produced no native JSON output")
		}
		report.JSONData = data
		serialized, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			data = jsonEnvelope(winner.CleanedText, winner.Method, report.PageCount, err.Error())
			report.JSONData = data
			serialized, _ = json.MarshalIndent(data, "", "  ")
		}
		report.ExtractedText = string(serialized)
	case FormatText:
		report.ExtractedText = winner.CleanedText
	default: // markdown
		report.ExtractedText = winner.MarkdownOut
	}

	if winner.Library == "LlamaParse" {
		report.Confidence = ManagedConfidence(winner.WordCount, report.PageCount)
	} else {
		report.Confidence = LocalConfidence(winner.WordCount)
	}

	return report
}

// FailureReport assembles the aggregate failure record when no backend
// produced a usable result.
func FailureReport(req Request, err string, all map[string]Attempt, elapsed time.Duration) Report {
	return Report{
		Success:        false,
		Error:          err,
		OutputFormat:   req.Format,
		ProcessingTime: elapsed.Milliseconds(),
		AllResults:     all,
	}
}

// htmlFromMarkdown renders markdown to a minimal standalone HTML document.
// Render failures fall back to preformatted text rather than propagating.
func htmlFromMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "<html><body><pre>" + htmlEscape(md) + "</pre></body></html>"
	}
	return "<html><body>\n" + buf.String() + "</body></html>"
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// csvFromText degrades flat text to a two-column line-per-row CSV.
func csvFromText(text string) string {
	var sb strings.Builder
	sb.WriteString("Field,Value")
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n++
		escaped := strings.ReplaceAll(line, `"`, `""`)
		sb.WriteString(fmt.Sprintf("\nLine_%d,\"%s\"", n, escaped))
	}
	return sb.String()
}

// jsonEnvelope wraps raw text in the degenerate JSON payload used when no
// structured extraction is available. reason is recorded under "error" when
// non-empty.
func jsonEnvelope(text, source string, pages int, reason string) map[string]any {
	env := map[string]any{
		"content": text,
		"format":  "text",
		"source":  source,
		"pages":   pages,
	}
	if reason != "" {
		env["error"] = reason
	}
	return env
}
