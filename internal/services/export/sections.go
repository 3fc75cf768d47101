// internal/services/export/sections.go
package export

import (
	"fmt"

	"permitcheck/internal/models"
)

const (
	reportTitle    = "PermitCheck AI Report"
	checklistTitle = "Permit Application Fix Checklist"
	reportFooter   = "Generated by PermitCheck AI - AI-Powered Feasibility and Permit Review Assistant"

	generatedAtLayout = "January 2, 2006 at 3:04 PM"
)

type blockKind int

const (
	blockText blockKind = iota
	blockLabeled
	blockBullets
	blockTable
)

// block is one renderable unit of a report section, format-agnostic so the
// PDF and DOCX writers share the same assembly.
type block struct {
	kind  blockKind
	label string
	text  string
	items []string
	rows  [][2]string
}

type section struct {
	title     string
	pageBreak bool
	blocks    []block
}

// buildReportSections assembles the report content from whichever bundle
// sections are present. Absent sections produce nothing.
func buildReportSections(bundle models.ExportBundle) []section {
	var sections []section

	if p := bundle.ProjectData; p != nil {
		rows := [][2]string{
			{"Description:", orNA(p.Description)},
			{"Address:", orNA(p.Address)},
			{"Structure Type:", orNA(p.StructureType)},
			{"Property Type:", orNA(p.PropertyType)},
		}
		if p.Dimensions != (models.Dimensions{}) {
			dims := fmt.Sprintf("%s' x %s' x %s'",
				p.Dimensions.Length.Or("N/A"),
				p.Dimensions.Width.Or("N/A"),
				p.Dimensions.Height.Or("N/A"),
			)
			rows = append(rows, [2]string{"Dimensions:", dims})
		}
		sections = append(sections, section{
			title:  "Project Information",
			blocks: []block{{kind: blockTable, rows: rows}},
		})
	}

	if f := bundle.FeasibilityResults; f != nil {
		confidence := 0
		if f.ConfidenceScore != nil {
			confidence = *f.ConfidenceScore
		}
		verdict := f.Verdict
		if verdict == "" {
			verdict = models.VerdictUnknown
		}

		blocks := []block{
			{kind: blockLabeled, label: "Verdict:", text: fmt.Sprintf("%s (Confidence: %d%%)", verdict, confidence)},
		}
		if f.ComplianceSummary != "" {
			blocks = append(blocks, block{kind: blockLabeled, label: "Compliance Summary:", text: f.ComplianceSummary})
		}
		if len(f.Issues) > 0 {
			blocks = append(blocks, block{kind: blockBullets, label: "Issues Identified:", items: f.Issues})
		}
		if len(f.Recommendations) > 0 {
			blocks = append(blocks, block{kind: blockBullets, label: "Recommendations:", items: f.Recommendations})
		}
		sections = append(sections, section{title: "Feasibility Assessment", blocks: blocks})
	}

	if n := bundle.NarrativeResults; n != nil {
		sections = append(sections, section{
			title:  "Construction Narrative",
			blocks: []block{{kind: blockText, text: n.Narrative}},
		})
	}

	if r := bundle.ReviewResults; r != nil {
		risk := r.RejectionRisk
		if risk == "" {
			risk = "Unknown"
		}

		blocks := []block{
			{kind: blockLabeled, label: "Rejection Risk:", text: risk},
		}
		if r.OverallAssessment != "" {
			blocks = append(blocks, block{kind: blockLabeled, label: "Overall Assessment:", text: r.OverallAssessment})
		}
		if len(r.Issues) > 0 {
			blocks = append(blocks, block{kind: blockBullets, label: "Issues Found:", items: itemTexts(r.Issues, "Unknown issue")})
		}
		if len(r.Fixes) > 0 {
			blocks = append(blocks, block{kind: blockBullets, label: "Recommended Fixes:", items: itemTexts(r.Fixes, "Unknown fix")})
		}
		sections = append(sections, section{title: "Document Review Results", pageBreak: true, blocks: blocks})
	}

	return sections
}

// checklistItem is one actionable row of the fix checklist.
type checklistItem struct {
	Priority    string
	Description string
}

type checklistContent struct {
	HasReview        bool
	RejectionRisk    string
	Items            []checklistItem
	MissingDocuments []string
}

// checklistInstructions are the fixed usage instructions printed on every
// checklist regardless of content.
var checklistInstructions = []string{
	"1. Check off each item as you complete it",
	"2. Focus on High priority items first",
	"3. Re-upload your revised document for another review",
	"4. Repeat until rejection risk is Low",
}

// buildChecklist derives the actionable checklist from the review section.
// Fix priorities are normalized so every row renders uniformly.
func buildChecklist(bundle models.ExportBundle) checklistContent {
	r := bundle.ReviewResults
	if r == nil {
		return checklistContent{}
	}

	risk := r.RejectionRisk
	if risk == "" {
		risk = "Unknown"
	}

	content := checklistContent{
		HasReview:        true,
		RejectionRisk:    risk,
		MissingDocuments: r.MissingDocuments,
	}
	for _, fix := range r.Fixes {
		description := fix.Text()
		if description == "" {
			description = "Unknown fix"
		}
		content.Items = append(content.Items, checklistItem{
			Priority:    fix.PriorityOrDefault(),
			Description: description,
		})
	}
	return content
}

func itemTexts(items []models.ReviewItem, fallback string) []string {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		text := item.Text()
		if text == "" {
			text = fallback
		}
		texts = append(texts, text)
	}
	return texts
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
