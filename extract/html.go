package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// HTMLBackend extracts text from HTML documents: goquery strips the markup
// for the plain-text view and html-to-markdown produces native markdown,
// so headings and lists survive without the heuristic structurer.
type HTMLBackend struct{}

func (b *HTMLBackend) Name() string    { return "html" }
func (b *HTMLBackend) Library() string { return "goquery" }

func (b *HTMLBackend) CanExtract(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

func (b *HTMLBackend) Extract(ctx context.Context, req Request) (BackendResult, error) {
	raw, err := os.ReadFile(req.FilePath)
	if err != nil {
		return BackendResult{Success: false, Err: err.Error()}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		err = fmt.Errorf("failed to parse HTML: %w", err)
		return BackendResult{Success: false, Err: err.Error()}, err
	}

	doc.Find("script, style, noscript").Remove()
	text := normalizeDOMText(doc)

	markdown, mdErr := htmltomarkdown.ConvertString(string(raw))
	if mdErr != nil {
		// Markdown conversion is best-effort; the text view still stands.
		markdown = ""
	}

	return BackendResult{
		Success:   true,
		Text:      text,
		Markdown:  strings.TrimSpace(markdown),
		HTML:      string(raw),
		PageCount: estimatePageCount(text),
		Method:    b.Name(),
		Library:   b.Library(),
	}, nil
}

// normalizeDOMText walks block-level nodes so paragraphs keep their line
// breaks instead of running together the way doc.Text() would.
func normalizeDOMText(doc *goquery.Document) string {
	var sb strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, div, br").Each(func(_ int, s *goquery.Selection) {
		// Only leaf-ish nodes; containers repeat their children's text.
		if s.Children().Length() > 0 && !s.Is("li, td") {
			return
		}
		t := strings.TrimSpace(s.Text())
		if t != "" {
			sb.WriteString(t)
			sb.WriteString("\n")
		}
	})
	if sb.Len() == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return sb.String()
}
