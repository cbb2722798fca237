package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DocxBackend extracts text from Microsoft Word (.docx) documents.
// Heading styles (Heading1-Heading9) become native markdown headings, so
// DOCX results usually skip the heuristic structurer entirely.
type DocxBackend struct{}

func (b *DocxBackend) Name() string    { return "docx" }
func (b *DocxBackend) Library() string { return "archive/zip+encoding/xml" }

func (b *DocxBackend) CanExtract(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".docx")
}

func (b *DocxBackend) Extract(ctx context.Context, req Request) (BackendResult, error) {
	zr, err := zip.OpenReader(req.FilePath)
	if err != nil {
		err = fmt.Errorf("failed to open DOCX archive: %w", err)
		return BackendResult{Success: false, Err: err.Error()}, err
	}
	defer zr.Close()

	docXML, err := readZipFile(&zr.Reader, "word/document.xml")
	if err != nil {
		err = fmt.Errorf("failed to read document.xml: %w", err)
		return BackendResult{Success: false, Err: err.Error()}, err
	}

	paragraphs, err := parseDocxParagraphs(docXML)
	if err != nil {
		err = fmt.Errorf("failed to parse document.xml: %w", err)
		return BackendResult{Success: false, Err: err.Error()}, err
	}

	var text, md strings.Builder
	for _, p := range paragraphs {
		if p.text == "" {
			continue
		}
		text.WriteString(p.text)
		text.WriteString("\n")
		if p.headingLevel > 0 {
			md.WriteString("\n")
			md.WriteString(strings.Repeat("#", p.headingLevel))
			md.WriteString(" ")
		}
		md.WriteString(p.text)
		md.WriteString("\n")
	}

	body := text.String()
	return BackendResult{
		Success:   true,
		Text:      body,
		Markdown:  strings.TrimSpace(md.String()),
		PageCount: estimatePageCount(body),
		Method:    b.Name(),
		Library:   b.Library(),
	}, nil
}

// docxParagraph holds one paragraph's text and optional heading level.
type docxParagraph struct {
	text         string
	headingLevel int // 0 = body text, 1-9 = heading level
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// parseDocxParagraphs walks word/document.xml and extracts paragraphs with
// heading style info.
func parseDocxParagraphs(data []byte) ([]docxParagraph, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var paragraphs []docxParagraph

	var inParagraph bool
	var inRun bool
	var inStyle bool
	var currentText strings.Builder
	var currentLevel int

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				currentText.Reset()
				currentLevel = 0
			case "r":
				if inParagraph {
					inRun = true
				}
			case "pStyle":
				if inParagraph {
					inStyle = true
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" {
							currentLevel = parseHeadingLevel(attr.Value)
						}
					}
				}
			case "tab":
				if inRun {
					currentText.WriteString("\t")
				}
			case "br":
				if inRun {
					currentText.WriteString("\n")
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					text := strings.TrimSpace(currentText.String())
					if text != "" {
						paragraphs = append(paragraphs, docxParagraph{
							text:         text,
							headingLevel: currentLevel,
						})
					}
					inParagraph = false
				}
			case "r":
				inRun = false
			case "pStyle":
				inStyle = false
			}

		case xml.CharData:
			if inRun && !inStyle {
				currentText.Write(t)
			}
		}
	}

	return paragraphs, nil
}

// parseHeadingLevel maps a Wordprocessing style name like "Heading2" to its
// numeric level, or 0 for body styles.
func parseHeadingLevel(style string) int {
	if !strings.HasPrefix(style, "Heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(style, "Heading"))
	if err != nil || n < 1 || n > 9 {
		return 0
	}
	return n
}
