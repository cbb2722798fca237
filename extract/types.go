package extract

import "context"

// Format is the requested output format for an extraction.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat maps a format token to a Format, defaulting to markdown
// for empty input. Unknown tokens are returned as-is with ok=false so the
// caller can decide whether to reject or degrade.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatText, FormatMarkdown, FormatHTML, FormatCSV, FormatJSON:
		return Format(s), true
	case "":
		return FormatMarkdown, true
	}
	return Format(s), false
}

// Mode is a processing-mode hint understood per backend family.
// For the OCR family it selects the starting degrade tier; for the cloud
// backend it is recorded in the result's method label.
type Mode string

const (
	ModeAccelerated Mode = "accelerated"
	ModeDegraded    Mode = "degraded"
	ModeLLM         Mode = "llm"
	ModeMinimal     Mode = "minimal"
)

// Request describes a single extraction. It is immutable once constructed;
// backends receive it by value.
type Request struct {
	// FilePath is the path to the document. The caller's upload layer has
	// already validated it, but the orchestrator re-checks existence.
	FilePath string

	// Format is the desired output format.
	Format Format

	// Fields optionally narrows structured extraction to specific fields
	// (cloud backend only).
	Fields []string

	// Schema is an optional raw JSON schema guiding structured extraction
	// (cloud backend only). Validated before any backend runs.
	Schema string

	// Mode is an optional processing-mode hint.
	Mode Mode
}

// BackendResult is the raw outcome of one backend invocation.
// It is produced by exactly one Extract call and never mutated afterwards.
type BackendResult struct {
	Success   bool
	Text      string
	Markdown  string
	HTML      string
	CSV       string
	JSON      map[string]any
	PageCount int

	// Method names the strategy that produced the text (e.g. "layout",
	// "ocr-accelerated"). For tiered families it reflects the tier that
	// actually succeeded, not the one requested.
	Method  string
	Library string
	Mode    Mode

	// Err carries the failure message verbatim when Success is false.
	Err string
}

// ScoredResult pairs a successful BackendResult with the quality metrics
// the orchestrator ranks by. Counts are computed from the cleaned text,
// never the raw extraction.
type ScoredResult struct {
	BackendResult

	CleanedText string
	MarkdownOut string
	Score       int
	WordCount   int
	CharCount   int
}

// Attempt records one backend's outcome for the allResults diagnostics map.
type Attempt struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Method  string `json:"method,omitempty"`
	Score   int    `json:"score,omitempty"`
}

// Report is the final extraction record returned to the caller.
// The caller owns it after return; this package retains no references.
type Report struct {
	Success        bool               `json:"success"`
	ExtractedText  string             `json:"extractedText,omitempty"`
	MarkdownText   string             `json:"markdownText,omitempty"`
	HTMLText       string             `json:"htmlText,omitempty"`
	CSVText        string             `json:"csvText,omitempty"`
	JSONData       map[string]any     `json:"jsonData,omitempty"`
	PageCount      int                `json:"pageCount,omitempty"`
	WordCount      int                `json:"wordCount,omitempty"`
	CharacterCount int                `json:"characterCount,omitempty"`
	Method         string             `json:"method,omitempty"`
	Library        string             `json:"library,omitempty"`
	OutputFormat   Format             `json:"outputFormat,omitempty"`
	ProcessingMode Mode               `json:"processingMode,omitempty"`
	Confidence     int                `json:"confidence,omitempty"`
	ProcessingTime int64              `json:"processingTime"`
	Error          string             `json:"error,omitempty"`
	AllResults     map[string]Attempt `json:"allResults,omitempty"`
}

// Backend is one concrete document-extraction strategy.
type Backend interface {
	// Name identifies the backend in scoring diagnostics and method labels.
	Name() string

	// Library names the underlying extraction engine.
	Library() string

	// CanExtract returns true if this backend can handle the given file path.
	CanExtract(path string) bool

	// Extract runs the strategy against the request. Failures may be
	// reported either as an error or as a BackendResult with Success=false;
	// the orchestrator normalizes both to failed results.
	Extract(ctx context.Context, req Request) (BackendResult, error)
}
