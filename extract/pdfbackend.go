package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// openPDF opens and validates a PDF, returning the ledongthuc reader.
// The caller must close the returned file handle.
func openPDF(path string) (closeFn func(), reader *pdf.Reader, err error) {
	if err := validatePDF(path); err != nil {
		return nil, nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return func() { f.Close() }, r, nil
}

// extractPDFText walks every page of the document and collects the text
// produced by perPage. The extraction library panics on some malformed
// content streams; those are converted to ordinary errors so a corrupt file
// degrades to a failed BackendResult instead of crashing the request.
func extractPDFText(path string, perPage func(p pdf.Page) (string, error)) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", r)
		}
	}()

	closeFn, reader, err := openPDF(path)
	if err != nil {
		return "", 0, err
	}
	defer closeFn()

	pages = reader.NumPage()
	var buf bytes.Buffer

	silenceErr := withStdoutSilenced(func() error {
		for pageNum := 1; pageNum <= pages; pageNum++ {
			page := reader.Page(pageNum)
			if page.V.IsNull() {
				continue
			}
			pageText, pageErr := perPage(page)
			if pageErr != nil {
				return fmt.Errorf("page %d: %w", pageNum, pageErr)
			}
			if pageText != "" {
				buf.WriteString(pageText)
				buf.WriteString("\n")
			}
		}
		return nil
	})
	if silenceErr != nil {
		return "", pages, silenceErr
	}

	return buf.String(), pages, nil
}

// StreamBackend extracts text in content-stream order via GetPlainText.
// Fastest strategy, no layout reconstruction.
type StreamBackend struct{}

func (b *StreamBackend) Name() string    { return "stream" }
func (b *StreamBackend) Library() string { return "ledongthuc/pdf" }

func (b *StreamBackend) CanExtract(path string) bool { return isPDF(path) }

func (b *StreamBackend) Extract(ctx context.Context, req Request) (BackendResult, error) {
	fonts := make(map[string]*pdf.Font)
	text, pages, err := extractPDFText(req.FilePath, func(p pdf.Page) (string, error) {
		return p.GetPlainText(fonts)
	})
	if err != nil {
		return BackendResult{Success: false, Err: err.Error()}, err
	}
	return BackendResult{
		Success:   true,
		Text:      text,
		PageCount: pages,
		Method:    b.Name(),
		Library:   b.Library(),
	}, nil
}

// LayoutBackend reconstructs reading order row by row via GetTextByRow,
// which handles multi-column resumes better than stream order.
type LayoutBackend struct{}

func (b *LayoutBackend) Name() string    { return "layout" }
func (b *LayoutBackend) Library() string { return "ledongthuc/pdf" }

func (b *LayoutBackend) CanExtract(path string) bool { return isPDF(path) }

func (b *LayoutBackend) Extract(ctx context.Context, req Request) (BackendResult, error) {
	text, pages, err := extractPDFText(req.FilePath, func(p pdf.Page) (string, error) {
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(word.S)
			}
			buf.WriteString("\n")
		}
		return buf.String(), nil
	})
	if err != nil {
		return BackendResult{Success: false, Err: err.Error()}, err
	}
	return BackendResult{
		Success:   true,
		Text:      text,
		PageCount: pages,
		Method:    b.Name(),
		Library:   b.Library(),
	}, nil
}

// TableBackend groups text by column via GetTextByColumn, preserving
// tabular structure at the cost of prose reading order.
type TableBackend struct{}

func (b *TableBackend) Name() string    { return "table" }
func (b *TableBackend) Library() string { return "ledongthuc/pdf" }

func (b *TableBackend) CanExtract(path string) bool { return isPDF(path) }

func (b *TableBackend) Extract(ctx context.Context, req Request) (BackendResult, error) {
	text, pages, err := extractPDFText(req.FilePath, func(p pdf.Page) (string, error) {
		columns, err := p.GetTextByColumn()
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		for _, col := range columns {
			for _, word := range col.Content {
				buf.WriteString(word.S)
				buf.WriteString("\n")
			}
		}
		return buf.String(), nil
	})
	if err != nil {
		return BackendResult{Success: false, Err: err.Error()}, err
	}
	return BackendResult{
		Success:   true,
		Text:      text,
		PageCount: pages,
		Method:    b.Name(),
		Library:   b.Library(),
	}, nil
}
