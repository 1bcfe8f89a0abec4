package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	SourceNativePDF      = "native-pdf"
	SourceNativeDocument = "native-document"
	SourcePlainText      = "plain-text"
	SourceOCR            = "ocr"
)

type ExtractionService interface {
	Extract(ctx context.Context, filename, mimeType string, data []byte) *ExtractionResult
}

type ExtractionResult struct {
	Text        string
	Source      string
	OCRProvider string
}

type extractionService struct {
	ocr        OCRService
	minTextLen int
}

func NewExtractionService(ocr OCRService, minTextLen int) ExtractionService {
	if minTextLen <= 0 {
		minTextLen = 120
	}
	return &extractionService{
		ocr:        ocr,
		minTextLen: minTextLen,
	}
}

// Extract runs the extraction pipeline: native extractor by file kind, OCR
// when the native result is too thin or the file is an image, raw UTF-8
// decode as the last resort. Parser failures are treated as "no text
// produced" rather than surfaced, so a result is always returned.
func (e *extractionService) Extract(ctx context.Context, filename, mimeType string, data []byte) *ExtractionResult {
	ext := strings.ToLower(filepath.Ext(filename))

	var text, source string

	switch {
	case ext == ".pdf":
		if extracted, err := extractPDFText(data); err == nil {
			text = normalizeText(extracted)
			source = SourceNativePDF
		} else {
			log.Printf("pdf extraction failed for %s: %v", filename, err)
		}
	case ext == ".docx" || ext == ".doc":
		if extracted, err := extractDocxText(data); err == nil {
			text = normalizeText(extracted)
			source = SourceNativeDocument
		} else {
			log.Printf("docx extraction failed for %s: %v", filename, err)
		}
	case ext == ".txt" || ext == ".md" || strings.HasPrefix(mimeType, "text/"):
		text = normalizeText(string(data))
		source = SourcePlainText
	}

	if text == "" || len(text) < e.minTextLen || looksLikeImage(ext, mimeType) {
		if e.ocr != nil && e.ocr.Available() {
			ocrText, err := e.ocr.Recognize(ctx, filename, mimeType, data)
			if err != nil {
				log.Printf("ocr fallback failed for %s: %v", filename, err)
			} else if strings.TrimSpace(ocrText) != "" {
				return &ExtractionResult{
					Text:        normalizeText(ocrText),
					Source:      SourceOCR,
					OCRProvider: e.ocr.Provider(),
				}
			}
		}
	}

	// Last resort: raw UTF-8 decode, guarantees a response.
	if text == "" {
		text = normalizeText(string(data))
		if source == "" {
			source = SourcePlainText
		}
	}

	if source == "" {
		source = SourcePlainText
	}

	return &ExtractionResult{Text: text, Source: source}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip the broken page, keep the rest.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

var trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)

// normalizeText strips carriage returns and trailing horizontal whitespace
// before newlines, then trims.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = trailingSpaceRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

func looksLikeImage(ext, mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || imageExtensions[ext]
}
