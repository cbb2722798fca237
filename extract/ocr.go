package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Default binary names for the OCR toolchain. Overridable on the backend
// for systems with renamed poppler/tesseract installs.
const (
	defaultPdftoppm  = "pdftoppm"
	defaultTesseract = "tesseract"
	defaultPdftotext = "pdftotext"
)

// OCRBackend is the accelerated/neural extraction family. It renders pages
// to images and runs OCR, degrading through fixed capability tiers:
//
//	accelerated: 300 DPI render + LSTM OCR engine
//	degraded:    150 DPI render + legacy OCR engine
//	minimal:     plain pdftotext, no OCR at all
//
// The first tier that succeeds wins, and the result's Mode reflects it.
type OCRBackend struct {
	Pdftoppm  string
	Tesseract string
	Pdftotext string
	MaxPages  int

	runner Runner
	log    *zap.Logger
}

// NewOCRBackend creates the OCR family backend. A nil runner gets the
// default exec-backed runner.
func NewOCRBackend(runner Runner, logger *zap.Logger) *OCRBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &OCRBackend{
		Pdftoppm:  defaultPdftoppm,
		Tesseract: defaultTesseract,
		Pdftotext: defaultPdftotext,
		MaxPages:  20,
		runner:    runner,
		log:       logger,
	}
}

func (b *OCRBackend) Name() string    { return "ocr" }
func (b *OCRBackend) Library() string { return "poppler/tesseract" }

func (b *OCRBackend) CanExtract(path string) bool { return isPDF(path) }

// Available probes for the external binaries. Without pdftotext the minimal
// tier cannot run either, so the whole family stays unregistered.
func (b *OCRBackend) Available() bool {
	if _, err := exec.LookPath(b.Pdftotext); err != nil {
		return false
	}
	return true
}

func (b *OCRBackend) Extract(ctx context.Context, req Request) (BackendResult, error) {
	tiers := []Tier{
		{Mode: ModeAccelerated, Run: func(ctx context.Context, req Request) (BackendResult, error) {
			return b.ocrPass(ctx, req.FilePath, 300, "1")
		}},
		{Mode: ModeDegraded, Run: func(ctx context.Context, req Request) (BackendResult, error) {
			return b.ocrPass(ctx, req.FilePath, 150, "0")
		}},
		{Mode: ModeMinimal, Run: func(ctx context.Context, req Request) (BackendResult, error) {
			return b.pdfToText(ctx, req.FilePath)
		}},
	}

	res, err := runTiers(ctx, b.log, b.Name(), tiers, req)
	if err != nil {
		return res, err
	}
	res.Method = fmt.Sprintf("%s-%s", b.Name(), res.Mode)
	res.Library = b.Library()
	return res, nil
}

// ocrPass renders the document to page images and OCRs each one.
// dpi controls render resolution; oem selects the tesseract engine
// ("1" = LSTM neural, "0" = legacy).
func (b *OCRBackend) ocrPass(ctx context.Context, path string, dpi int, oem string) (BackendResult, error) {
	tmpDir, err := os.MkdirTemp("", "cvgenix-ocr-*")
	if err != nil {
		return BackendResult{}, err
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := b.runner.Run(ctx, b.Pdftoppm, "-r", strconv.Itoa(dpi), "-png", path, prefix); err != nil {
		return BackendResult{}, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if b.MaxPages > 0 && len(matches) > b.MaxPages {
		matches = matches[:b.MaxPages]
	}
	if len(matches) == 0 {
		return BackendResult{}, fmt.Errorf("pdftoppm produced no page images")
	}

	var sb strings.Builder
	for _, img := range matches {
		// tesseract <img> stdout --oem N
		out, errb, err := b.runner.Run(ctx, b.Tesseract, img, "stdout", "--oem", oem)
		if err != nil {
			return BackendResult{}, fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\f\n")
		}
		sb.Write(out)
	}

	pages := len(matches)
	if native, err := nativePageCount(path); err == nil && native > 0 {
		pages = native
	}

	return BackendResult{
		Success:   true,
		Text:      sb.String(),
		PageCount: pages,
	}, nil
}

// pdfToText is the non-neural floor of the chain.
func (b *OCRBackend) pdfToText(ctx context.Context, path string) (BackendResult, error) {
	out, errb, err := b.runner.Run(ctx, b.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return BackendResult{}, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	text := string(out)
	if strings.TrimSpace(text) == "" {
		return BackendResult{}, fmt.Errorf("pdftotext produced no text")
	}
	// pdftotext separates pages with form feeds.
	return BackendResult{
		Success:   true,
		Text:      text,
		PageCount: 1 + strings.Count(text, "\f"),
	}, nil
}
