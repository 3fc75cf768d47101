// internal/services/document/validation.go
package document

import "strings"

// StructureValidation reports which expected sections a permit document
// contains, by keyword scan. Heuristic only; the model review is the real
// judge, this is the cheap first pass.
type StructureValidation struct {
	HasSignatureSection   bool     `json:"has_signature_section"`
	HasDateFields         bool     `json:"has_date_fields"`
	HasContactInfo        bool     `json:"has_contact_info"`
	HasProjectDescription bool     `json:"has_project_description"`
	HasDimensions         bool     `json:"has_dimensions"`
	WordCount             int      `json:"word_count"`
	Issues                []string `json:"issues"`
}

var (
	signatureKeywords   = []string{"signature", "signed by", "applicant signature", "owner signature"}
	datePatterns        = []string{"date:", "/20", "-20", "dated"}
	contactKeywords     = []string{"phone", "email", "address", "contact"}
	descriptionKeywords = []string{"project description", "scope of work", "construction", "building"}
	dimensionPatterns   = []string{"ft", "feet", "inches", "'", "\"", "x", "square feet", "sq ft"}
)

// ValidateStructure scans the extracted text for the section markers permit
// reviewers look for and lists an issue per missing family.
func ValidateStructure(text string) StructureValidation {
	result := StructureValidation{
		WordCount: len(strings.Fields(text)),
		Issues:    []string{},
	}

	lower := strings.ToLower(text)

	if containsAny(lower, signatureKeywords) {
		result.HasSignatureSection = true
	} else {
		result.Issues = append(result.Issues, "No signature section found")
	}

	if containsAny(lower, datePatterns) {
		result.HasDateFields = true
	} else {
		result.Issues = append(result.Issues, "No date information found")
	}

	if containsAny(lower, contactKeywords) {
		result.HasContactInfo = true
	} else {
		result.Issues = append(result.Issues, "Missing contact information")
	}

	if containsAny(lower, descriptionKeywords) {
		result.HasProjectDescription = true
	} else {
		result.Issues = append(result.Issues, "Missing project description")
	}

	if containsAny(lower, dimensionPatterns) {
		result.HasDimensions = true
	} else {
		result.Issues = append(result.Issues, "Missing dimensional information")
	}

	return result
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
