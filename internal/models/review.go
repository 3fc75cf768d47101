// internal/models/review.go
package models

import (
	"encoding/json"
	"strings"
)

// Rejection risk levels reported by the review model.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// ReviewItem is either a bare string or a structured record; review models
// return both shapes. Structured carries category/description plus severity
// (issues) or priority (fixes).
type ReviewItem struct {
	Plain       string
	Category    string
	Description string
	Severity    string
	Priority    string

	structured bool
}

// PlainItem builds the bare-string variant.
func PlainItem(text string) ReviewItem {
	return ReviewItem{Plain: text}
}

// StructuredItem builds the structured variant.
func StructuredItem(category, description, severity, priority string) ReviewItem {
	return ReviewItem{
		Category:    category,
		Description: description,
		Severity:    severity,
		Priority:    priority,
		structured:  true,
	}
}

// IsStructured reports which variant this item is.
func (r ReviewItem) IsStructured() bool {
	return r.structured
}

// Text returns the display text regardless of variant.
func (r ReviewItem) Text() string {
	if r.structured {
		return r.Description
	}
	return r.Plain
}

// PriorityOrDefault returns the fix priority, normalizing absent values to
// "Medium" so checklist rendering is uniform.
func (r ReviewItem) PriorityOrDefault() string {
	if r.structured && r.Priority != "" {
		return r.Priority
	}
	return "Medium"
}

func (r *ReviewItem) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" || trimmed == "null" {
		*r = ReviewItem{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ReviewItem{Plain: s}
		return nil
	}

	var obj struct {
		Category    string `json:"category"`
		Description string `json:"description"`
		Severity    string `json:"severity"`
		Priority    string `json:"priority"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*r = ReviewItem{
		Category:    obj.Category,
		Description: obj.Description,
		Severity:    obj.Severity,
		Priority:    obj.Priority,
		structured:  true,
	}
	return nil
}

func (r ReviewItem) MarshalJSON() ([]byte, error) {
	if !r.structured {
		return json.Marshal(r.Plain)
	}
	obj := map[string]string{
		"category":    r.Category,
		"description": r.Description,
	}
	if r.Severity != "" {
		obj["severity"] = r.Severity
	}
	if r.Priority != "" {
		obj["priority"] = r.Priority
	}
	return json.Marshal(obj)
}

type ReviewResults struct {
	RejectionRisk     string            `json:"rejection_risk"`
	ConfidenceScore   *int              `json:"confidence_score,omitempty"`
	RiskSummary       string            `json:"risk_summary,omitempty"`
	OverallAssessment string            `json:"overall_assessment,omitempty"`
	Issues            []ReviewItem      `json:"issues"`
	Fixes             []ReviewItem      `json:"fixes"`
	MissingDocuments  []string          `json:"missing_documents"`
	ComplianceCheck   map[string]string `json:"compliance_check"`
}
