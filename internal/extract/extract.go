package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"medvault-backend/internal/ocr"
	"medvault-backend/internal/shared/metrics"
	"medvault-backend/internal/shared/telemetry"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Extractor dispatches uploads to a format-specific extraction strategy based
// on the caller-declared MIME type. It never fails outward: every failure is
// embedded in the returned text so downstream stages handle output uniformly.
type Extractor struct {
	OCR ocr.Engine
}

// New constructs an Extractor around the given OCR engine.
func New(engine ocr.Engine) *Extractor {
	return &Extractor{OCR: engine}
}

// Text extracts plain text from the payload. The result is never empty: a
// blank extraction is replaced with a message naming the file and MIME type.
func (e *Extractor) Text(ctx context.Context, data []byte, mimeType, fileName string) string {
	start := metrics.NowMillis()
	normalized := normalizeMimeType(mimeType)

	var text string
	switch {
	case strings.HasPrefix(normalized, "image/"):
		text = e.imageText(ctx, data, fileName)
	case normalized == mimePDF:
		text = e.pdfText(ctx, data, fileName)
	case normalized == mimeDOCX:
		text = docxText(data, fileName)
	case normalized == mimeDOC:
		text = fmt.Sprintf("Direct text extraction for older .doc files is not supported by this backend. Please convert '%s' to .docx or PDF for processing.", fileName)
	default:
		text = fmt.Sprintf("Text extraction not supported for file type: %s. No digital copy extracted.", normalized)
	}

	if strings.TrimSpace(text) == "" {
		text = fmt.Sprintf("No readable text found in '%s' or text extraction failed. File type: %s.", fileName, normalized)
	}

	metrics.ObserveExtractionDurationMs(metrics.NowMillis() - start)
	return text
}

func (e *Extractor) imageText(ctx context.Context, data []byte, fileName string) string {
	text, err := e.recognize(ctx, data)
	if err != nil {
		telemetry.Warn("extract.image.failed", map[string]any{"file": fileName, "err": err.Error()})
		return fmt.Sprintf("OCR failed for image '%s'. Error: %v", fileName, err)
	}
	return text
}

// pdfText tries the digital text layer first and only falls back to OCR for
// scanned documents without one.
func (e *Extractor) pdfText(ctx context.Context, data []byte, fileName string) string {
	if text, err := pdfPlainText(data); err == nil && strings.TrimSpace(text) != "" {
		return text
	}

	text, err := e.recognize(ctx, data)
	if err != nil {
		telemetry.Warn("extract.pdf.failed", map[string]any{"file": fileName, "err": err.Error()})
		return fmt.Sprintf("OCR for PDF '%s' failed. Ensure the OCR engine is installed and configured on the backend server for PDF processing. Error: %v", fileName, err)
	}
	return text
}

func (e *Extractor) recognize(ctx context.Context, data []byte) (string, error) {
	if e.OCR == nil {
		return "", errors.New("no OCR engine configured")
	}
	return e.OCR.Recognize(ctx, data, ocr.Options{Language: "eng"})
}

func pdfPlainText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docxText(data []byte, fileName string) string {
	text, err := docxParagraphs(data)
	if err != nil {
		telemetry.Warn("extract.docx.failed", map[string]any{"file": fileName, "err": err.Error()})
		return fmt.Sprintf("Text extraction for DOCX '%s' failed. Error: %v", fileName, err)
	}
	return text
}

// docxParagraphs returns paragraph texts from word/document.xml joined by
// newlines, in document order.
func docxParagraphs(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		inPara     bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
					inPara = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
