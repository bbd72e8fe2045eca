// Package docextract turns uploaded files into plain text. PDF and DOCX
// get format-aware extraction; anything else is treated as UTF-8 text.
package docextract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/utils/platformerrors"
)

// Extractor implements the document extraction port.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract reads content according to the file extension.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (capability.ExtractedDocument, error) {
	if len(content) == 0 {
		return capability.ExtractedDocument{}, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation, "uploaded file is empty", nil, "")
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractPDF(content)
	case "docx":
		text, err = extractDOCX(content)
	default:
		text, err = extractPlain(content)
		if ext == "" {
			ext = "txt"
		}
	}
	if err != nil {
		return capability.ExtractedDocument{}, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err,
			fmt.Sprintf("extracting text from %s failed", fileName))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return capability.ExtractedDocument{}, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation, fmt.Sprintf("%s contains no extractable text", fileName), nil, "")
	}
	return capability.ExtractedDocument{FileName: fileName, FileType: ext, Text: text}, nil
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return b.String(), nil
}

// extractDOCX pulls the text runs out of word/document.xml. Paragraph
// boundaries become newlines.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("opening docx body: %w", err)
	}
	defer rc.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(rc)
	inTextRun := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(content), nil
}
