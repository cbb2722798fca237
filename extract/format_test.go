package extract

import (
	"strings"
	"testing"
	"time"

	json "github.com/BalwinderCa/cvgenix/json"
)

func scoredFixture(text, markdown string) ScoredResult {
	return ScoredResult{
		BackendResult: BackendResult{
			Success:   true,
			Text:      text,
			PageCount: 1,
			Method:    "layout",
			Library:   "ledongthuc/pdf",
		},
		CleanedText: text,
		MarkdownOut: markdown,
		WordCount:   CountWords(text),
		CharCount:   len(text),
	}
}

func TestBuildReportMarkdownDefault(t *testing.T) {
	winner := scoredFixture("plain text", "# Doc\n\nplain text")
	report := BuildReport(Request{Format: FormatMarkdown}, winner, nil, 12*time.Millisecond)

	if !report.Success {
		t.Fatal("Success = false")
	}
	if report.ExtractedText != winner.MarkdownOut {
		t.Errorf("ExtractedText = %q, want markdown output", report.ExtractedText)
	}
	if report.MarkdownText != winner.MarkdownOut {
		t.Errorf("MarkdownText = %q", report.MarkdownText)
	}
	if report.ProcessingTime != 12 {
		t.Errorf("ProcessingTime = %d, want 12", report.ProcessingTime)
	}
}

func TestBuildReportTextFormat(t *testing.T) {
	winner := scoredFixture("plain text", "# Doc")
	report := BuildReport(Request{Format: FormatText}, winner, nil, 0)

	if report.ExtractedText != "plain text" {
		t.Errorf("ExtractedText = %q, want cleaned text", report.ExtractedText)
	}
}

func TestBuildReportSynthesizesHTML(t *testing.T) {
	winner := scoredFixture("Heading body", "# Heading\n\nbody")
	report := BuildReport(Request{Format: FormatHTML}, winner, nil, 0)

	if !strings.Contains(report.HTMLText, "<h1") {
		t.Errorf("HTMLText not rendered from markdown:\n%s", report.HTMLText)
	}
	if report.ExtractedText != report.HTMLText {
		t.Error("ExtractedText should carry the HTML payload for html format")
	}
}

func TestBuildReportPrefersNativeHTML(t *testing.T) {
	winner := scoredFixture("text", "# md")
	winner.HTML = "<html><body>native</body></html>"
	report := BuildReport(Request{Format: FormatHTML}, winner, nil, 0)

	if report.HTMLText != winner.HTML {
		t.Errorf("HTMLText = %q, want the backend's native HTML", report.HTMLText)
	}
}

func TestBuildReportSynthesizesCSV(t *testing.T) {
	winner := scoredFixture("Jane Doe\n\nSaid \"hello\"", "")
	report := BuildReport(Request{Format: FormatCSV}, winner, nil, 0)

	lines := strings.Split(report.CSVText, "\n")
	if lines[0] != "Field,Value" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `Line_1,"Jane Doe"` {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != `Line_2,"Said ""hello"""` {
		t.Errorf("row 2 = %q, want doubled quotes", lines[2])
	}
}

func TestBuildReportJSONEnvelopeFallback(t *testing.T) {
	winner := scoredFixture("resume text here", "")
	report := BuildReport(Request{Format: FormatJSON}, winner, nil, 0)

	if report.JSONData == nil {
		t.Fatal("JSONData is nil")
	}
	if report.JSONData["content"] != "resume text here" {
		t.Errorf("envelope content = %v", report.JSONData["content"])
	}
	reason, _ := report.JSONData["error"].(string)
	if reason == "" {
		t.Error("degraded JSON envelope must carry a non-empty error reason")
	}

	// ExtractedText must be the serialized envelope.
	var decoded map[string]any
	if err := json.Unmarshal([]byte(report.ExtractedText), &decoded); err != nil {
		t.Fatalf("ExtractedText is not valid JSON: %v", err)
	}
	if decoded["content"] != "resume text here" {
		t.Errorf("serialized content = %v", decoded["content"])
	}
}

func TestBuildReportNativeJSONPassesThrough(t *testing.T) {
	winner := scoredFixture("text", "")
	winner.JSON = map[string]any{"name": "Jane"}
	report := BuildReport(Request{Format: FormatJSON}, winner, nil, 0)

	if report.JSONData["name"] != "Jane" {
		t.Errorf("JSONData = %v", report.JSONData)
	}
	if _, degraded := report.JSONData["error"]; degraded {
		t.Error("native JSON wrongly wrapped in degraded envelope")
	}
}

func TestBuildReportEstimatesPageCount(t *testing.T) {
	long := strings.Repeat("x", 4000)
	winner := scoredFixture(long, long)
	winner.PageCount = 0
	report := BuildReport(Request{}, winner, nil, 0)

	if report.PageCount != 2 {
		t.Errorf("PageCount = %d, want density estimate 2", report.PageCount)
	}
}

func TestBuildReportConfidencePath(t *testing.T) {
	local := scoredFixture("some words", "")
	local.Library = "ledongthuc/pdf"
	report := BuildReport(Request{}, local, nil, 0)
	if report.Confidence != 60 {
		t.Errorf("local confidence = %d, want floor 60", report.Confidence)
	}

	managed := scoredFixture("some words", "")
	managed.Library = "LlamaParse"
	report = BuildReport(Request{}, managed, nil, 0)
	if report.Confidence != 85 {
		t.Errorf("managed confidence = %d, want base 85", report.Confidence)
	}
}

func TestFailureReport(t *testing.T) {
	all := map[string]Attempt{"ocr": {Success: false, Error: "no text"}}
	report := FailureReport(Request{Format: FormatJSON}, "all backends failed - ocr: no text", all, 5*time.Millisecond)

	if report.Success {
		t.Error("Success = true")
	}
	if report.Error == "" {
		t.Error("Error is empty")
	}
	if report.OutputFormat != FormatJSON {
		t.Errorf("OutputFormat = %q", report.OutputFormat)
	}
	if report.AllResults["ocr"].Error != "no text" {
		t.Errorf("AllResults = %v", report.AllResults)
	}
}

func TestCsvFromTextSkipsBlankLines(t *testing.T) {
	got := csvFromText("a\n\n\nb")
	want := "Field,Value\nLine_1,\"a\"\nLine_2,\"b\""
	if got != want {
		t.Errorf("csvFromText() = %q, want %q", got, want)
	}
}

func TestJsonEnvelope(t *testing.T) {
	env := jsonEnvelope("body", "layout", 3, "")
	if _, ok := env["error"]; ok {
		t.Error("empty reason must not add an error key")
	}
	if env["pages"] != 3 || env["source"] != "layout" || env["format"] != "text" {
		t.Errorf("envelope = %v", env)
	}
}
