// internal/models/export.go
package models

// Export document types.
const (
	ExportTypePDF       = "pdf"
	ExportTypeDOCX      = "docx"
	ExportTypeChecklist = "checklist"
)

// ExportMediaTypes maps export type to the download media type.
var ExportMediaTypes = map[string]string{
	ExportTypePDF:       "application/pdf",
	ExportTypeDOCX:      "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	ExportTypeChecklist: "application/pdf",
}

// ExportBundle is the export request: each section is optional and is only
// rendered when present; absent sections are skipped entirely.
type ExportBundle struct {
	Type               string              `json:"type,omitempty"`
	ProjectData        *ProjectData        `json:"project_data,omitempty"`
	FeasibilityResults *FeasibilityResults `json:"feasibility_results,omitempty"`
	NarrativeResults   *NarrativeResults   `json:"narrative_results,omitempty"`
	ReviewResults      *ReviewResults      `json:"review_results,omitempty"`
}
