package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestDocx(t *testing.T, documentXML string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "resume.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const testResumeDocx = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Jane Doe</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading2"/></w:pPr>
      <w:r><w:t>Experience</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Built distributed systems at Acme.</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>First part</w:t><w:tab/><w:t>second part</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

func TestDocxExtract(t *testing.T) {
	path := writeTestDocx(t, testResumeDocx)

	b := &DocxBackend{}
	res, err := b.Extract(context.Background(), Request{FilePath: path})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Success = false: %s", res.Err)
	}

	if !strings.Contains(res.Text, "Built distributed systems at Acme.") {
		t.Errorf("body paragraph missing from text:\n%s", res.Text)
	}
	if !strings.Contains(res.Markdown, "# Jane Doe") {
		t.Errorf("Heading1 not mapped to level-1 heading:\n%s", res.Markdown)
	}
	if !strings.Contains(res.Markdown, "## Experience") {
		t.Errorf("Heading2 not mapped to level-2 heading:\n%s", res.Markdown)
	}
	if !strings.Contains(res.Text, "First part\tsecond part") {
		t.Errorf("tab run not preserved:\n%q", res.Text)
	}
	if res.Method != "docx" {
		t.Errorf("Method = %q", res.Method)
	}
}

func TestDocxExtractMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("other.xml")
	w.Write([]byte("<x/>")) //nolint:errcheck
	zw.Close()              //nolint:errcheck

	path := filepath.Join(t.TempDir(), "broken.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	b := &DocxBackend{}
	res, err := b.Extract(context.Background(), Request{FilePath: path})
	if err == nil {
		t.Fatal("Extract() error = nil for archive without document.xml")
	}
	if res.Success {
		t.Error("Success = true")
	}
}

func TestDocxExtractNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := &DocxBackend{}
	_, err := b.Extract(context.Background(), Request{FilePath: path})
	if err == nil {
		t.Fatal("Extract() error = nil for non-zip input")
	}
}

func TestParseHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"Heading9", 9},
		{"Heading10", 0},
		{"BodyText", 0},
		{"Heading", 0},
	}
	for _, tt := range tests {
		if got := parseHeadingLevel(tt.style); got != tt.want {
			t.Errorf("parseHeadingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}

func TestDocxCanExtract(t *testing.T) {
	b := &DocxBackend{}
	if !b.CanExtract("resume.DOCX") {
		t.Error("CanExtract rejected .docx path")
	}
	if b.CanExtract("resume.pdf") {
		t.Error("CanExtract accepted a PDF path")
	}
}
