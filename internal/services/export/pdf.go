// internal/services/export/pdf.go
package export

import (
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"permitcheck/internal/models"
)

func (e *Exporter) createPDF(bundle models.ExportBundle) (string, error) {
	pdf, tr := newReportPDF(reportTitle)

	for _, sec := range buildReportSections(bundle) {
		if sec.pageBreak {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(55, 65, 81)
		pdf.CellFormat(0, 8, tr(sec.title), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)

		for _, b := range sec.blocks {
			renderPDFBlock(pdf, tr, b)
		}
		pdf.Ln(4)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr(reportFooter), "", "L", false)

	return writePDF(pdf, "permitcheck-report-*.pdf")
}

// newReportPDF sets up a letter-format page with the shared title header and
// returns the document plus its cp1252 translator. Core fonts cannot render
// arbitrary unicode, so every string goes through the translator.
func newReportPDF(title string) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(19, 19, 19)
	pdf.SetAutoPageBreak(true, 19)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Generated: "+time.Now().Format(generatedAtLayout)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	return pdf, tr
}

func renderPDFBlock(pdf *gofpdf.Fpdf, tr func(string) string, b block) {
	switch b.kind {
	case blockText:
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(b.text), "", "L", false)

	case blockLabeled:
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, tr(b.label), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(b.text), "", "L", false)
		pdf.Ln(2)

	case blockBullets:
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, tr(b.label), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, item := range b.items {
			pdf.MultiCell(0, 5, tr("- "+item), "", "L", false)
		}
		pdf.Ln(2)

	case blockTable:
		pdf.SetFillColor(243, 244, 246)
		pdf.SetDrawColor(229, 231, 235)
		for _, row := range b.rows {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(38, 7, tr(row[0]), "1", 0, "L", true, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, 7, tr(row[1]), "1", 1, "L", false, 0, "")
		}
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ln(2)
	}
}

func writePDF(pdf *gofpdf.Fpdf, pattern string) (string, error) {
	path, err := tempFilePath(pattern)
	if err != nil {
		return "", err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
