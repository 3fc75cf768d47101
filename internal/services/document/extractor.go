// internal/services/document/extractor.go
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"
	"github.com/unidoc/unioffice/document"

	apperrors "permitcheck/internal/common/errors"
	"permitcheck/internal/common/logger"
)

// Extractor pulls plain text out of uploaded permit documents. It dispatches
// on file extension: PDF text layers, Word paragraphs and tables, OCR for
// scanned images.
type Extractor struct {
	logger logger.Logger
}

func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{
		logger: log.WithFields(map[string]interface{}{"service": "document"}),
	}
}

// ExtractText extracts all text from the file at path. Extraction failures
// are loud: a document we cannot read must not silently review as empty.
func (e *Extractor) ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = e.extractPDF(path)
	case ".docx", ".doc":
		text, err = e.extractWord(path)
	case ".jpg", ".jpeg", ".png":
		text, err = e.extractImage(path)
	default:
		return "", apperrors.NewUnsupportedFileFormatError(ext)
	}

	if err != nil {
		return "", apperrors.NewDocumentExtractionFailedError(err)
	}

	e.logger.Info("document text extracted", map[string]interface{}{
		"extension": ext,
		"chars":     len(text),
	})
	return text, nil
}

// extractPDF walks the text layer page by page. Pages without a text layer
// (scans) are skipped; a document with no extractable text at all is an
// error, surfaced so the caller can ask for a different format.
func (e *Extractor) extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("error processing PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping unreadable PDF page", map[string]interface{}{
				"page":  i,
				"error": err.Error(),
			})
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			e.logger.Debug("PDF page has no text layer", map[string]interface{}{"page": i})
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("error processing PDF: no extractable text, document may be a scan")
	}
	return text, nil
}

// extractWord concatenates paragraph runs, then table cells row by row.
func (e *Extractor) extractWord(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", fmt.Errorf("error processing DOCX: %w", err)
	}

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}

	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				for _, para := range cell.Paragraphs() {
					for _, run := range para.Runs() {
						sb.WriteString(run.Text())
					}
				}
				sb.WriteString(" ")
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

// extractImage runs OCR over the image, treating it as a single uniform block
// of text, which matches the layout of scanned permit forms.
func (e *Extractor) extractImage(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("error processing image: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("error processing image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("error processing image: %w", err)
	}
	return strings.TrimSpace(text), nil
}
