package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// charsPerPage is the character density used to estimate page counts when
// no backend reports native metadata.
const charsPerPage = 1500

// CheckInput verifies the request's file exists before any backend runs.
func CheckInput(path string) error {
	if path == "" {
		return &InputNotFoundError{Path: path}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &InputNotFoundError{Path: path}
	}
	return nil
}

// isPDF reports whether the path looks like a PDF document.
func isPDF(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

// validatePDF rejects structurally corrupt PDFs up front so per-page
// extraction never runs against a broken cross-reference table.
func validatePDF(path string) error {
	var err error
	silenceErr := withStdoutSilenced(func() error {
		err = api.ValidateFile(path, nil)
		return nil
	})
	if silenceErr != nil {
		return silenceErr
	}
	if err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}

// nativePageCount reads the page count from the PDF's own metadata.
func nativePageCount(path string) (int, error) {
	var n int
	var err error
	_ = withStdoutSilenced(func() error {
		n, err = api.PageCountFile(path)
		return nil
	})
	return n, err
}

// estimatePageCount falls back to a density estimate when a backend exposes
// no native page metadata.
func estimatePageCount(text string) int {
	n := len(text) / charsPerPage
	if n < 1 {
		return 1
	}
	return n
}
