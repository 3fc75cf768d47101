// internal/services/export/docx.go
package export

import (
	"os"
	"time"

	"github.com/unidoc/unioffice/document"

	"permitcheck/internal/models"
)

func (e *Exporter) createDOCX(bundle models.ExportBundle) (string, error) {
	doc := document.New()

	title := doc.AddParagraph()
	title.SetStyle("Title")
	title.AddRun().AddText(reportTitle)
	doc.AddParagraph().AddRun().AddText("Generated: " + time.Now().Format(generatedAtLayout))
	doc.AddParagraph()

	for _, sec := range buildReportSections(bundle) {
		if sec.pageBreak {
			doc.AddParagraph().AddRun().AddPageBreak()
		}
		heading := doc.AddParagraph()
		heading.SetStyle("Heading1")
		heading.AddRun().AddText(sec.title)

		for _, b := range sec.blocks {
			renderDOCXBlock(doc, b)
		}
		doc.AddParagraph()
	}

	doc.AddParagraph().AddRun().AddText(reportFooter)

	path, err := tempFilePath("permitcheck-report-*.docx")
	if err != nil {
		return "", err
	}
	if err := doc.SaveToFile(path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func renderDOCXBlock(doc *document.Document, b block) {
	switch b.kind {
	case blockText:
		doc.AddParagraph().AddRun().AddText(b.text)

	case blockLabeled:
		label := doc.AddParagraph().AddRun()
		label.Properties().SetBold(true)
		label.AddText(b.label)
		doc.AddParagraph().AddRun().AddText(b.text)

	case blockBullets:
		label := doc.AddParagraph().AddRun()
		label.Properties().SetBold(true)
		label.AddText(b.label)
		for _, item := range b.items {
			doc.AddParagraph().AddRun().AddText("- " + item)
		}

	case blockTable:
		for _, row := range b.rows {
			para := doc.AddParagraph()
			label := para.AddRun()
			label.Properties().SetBold(true)
			label.AddText(row[0])
			para.AddRun().AddText(" " + row[1])
		}
	}
}
