// internal/services/export/checklist.go
package export

import "permitcheck/internal/models"

// checklist table column widths, mm.
const (
	checkboxColWidth = 12
	priorityColWidth = 24
)

// createChecklistPDF renders the actionable fix checklist. Checkboxes are
// drawn as "[ ]" because the PDF core fonts have no box glyph.
func (e *Exporter) createChecklistPDF(bundle models.ExportBundle) (string, error) {
	pdf, tr := newReportPDF(checklistTitle)
	content := buildChecklist(bundle)

	if content.HasReview {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr("Current Rejection Risk: "+content.RejectionRisk), "", 1, "L", false, 0, "")
		pdf.Ln(6)

		if len(content.Items) > 0 {
			pdf.SetFont("Helvetica", "B", 14)
			pdf.SetTextColor(55, 65, 81)
			pdf.CellFormat(0, 8, tr("Action Items:"), "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(2)

			pdf.SetFillColor(31, 41, 55)
			pdf.SetTextColor(245, 245, 245)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(checkboxColWidth, 8, "", "1", 0, "L", true, 0, "")
			pdf.CellFormat(priorityColWidth, 8, tr("Priority"), "1", 0, "L", true, 0, "")
			pdf.CellFormat(0, 8, tr("Action Item"), "1", 1, "L", true, 0, "")

			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 10)
			for _, item := range content.Items {
				pdf.CellFormat(checkboxColWidth, 7, tr("[ ]"), "1", 0, "C", false, 0, "")
				pdf.CellFormat(priorityColWidth, 7, tr(item.Priority), "1", 0, "L", false, 0, "")
				pdf.CellFormat(0, 7, tr(item.Description), "1", 1, "L", false, 0, "")
			}
		}

		if len(content.MissingDocuments) > 0 {
			pdf.Ln(10)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.SetTextColor(55, 65, 81)
			pdf.CellFormat(0, 8, tr("Missing Documents:"), "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 10)
			for _, doc := range content.MissingDocuments {
				pdf.CellFormat(0, 6, tr("[ ] "+doc), "", 1, "L", false, 0, "")
			}
		}
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(0, 8, tr("Instructions:"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range checklistInstructions {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}

	return writePDF(pdf, "permitcheck-checklist-*.pdf")
}
