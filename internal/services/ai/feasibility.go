// internal/services/ai/feasibility.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"permitcheck/internal/common/metrics"
	"permitcheck/internal/models"
)

const feasibilitySystemRole = "You are an expert construction permit analyst with deep knowledge of building codes and zoning regulations."

const feasibilityPromptTemplate = `Analyze the feasibility of this construction project:

Project: %s
Location: %s
Structure Type: %s
Dimensions: %s
Property Type: %s

Zoning Information: %s

Provide a detailed feasibility assessment with:
1. Verdict: "Feasible", "Needs Variance", or "Not Feasible"
2. Confidence score (0-100%%)
3. Detailed compliance summary explaining zoning and code requirements
4. List of specific issues identified
5. Recommendations for addressing issues
6. Required permits list

Format response as JSON matching this structure:
{
    "verdict": "string",
    "confidence_score": "number",
    "compliance_summary": "string",
    "zoning_info": {"district": "string", "classification": "string", "restrictions": ["string"]},
    "issues": ["string"],
    "recommendations": ["string"],
    "required_permits": ["string"]
}`

// AnalyzeFeasibility asks the model for a zoning feasibility assessment. A
// transport failure propagates; an unparseable model answer degrades to a
// fixed low-confidence fallback so the endpoint still responds.
func (c *Client) AnalyzeFeasibility(ctx context.Context, project models.ProjectData, zoning models.ZoningInfo) (*models.FeasibilityResults, error) {
	const operation = "feasibility"

	content, err := c.chatCompletion(ctx, operation, feasibilitySystemRole, buildFeasibilityPrompt(project, zoning), temperatureFeasibility)
	if err != nil {
		return nil, err
	}

	var results models.FeasibilityResults
	if err := json.Unmarshal([]byte(extractJSON(content)), &results); err != nil || results.Verdict == "" {
		c.logger.Warn("feasibility response not parseable, using fallback", map[string]interface{}{
			"contentLength": len(content),
		})
		metrics.AICallsTotal.WithLabelValues(operation, "parse_fallback").Inc()
		return feasibilityFallback(), nil
	}

	results.ConfidenceScore = clampConfidence(results.ConfidenceScore)
	metrics.AICallsTotal.WithLabelValues(operation, "success").Inc()
	return &results, nil
}

func buildFeasibilityPrompt(project models.ProjectData, zoning models.ZoningInfo) string {
	zoningJSON, _ := json.MarshalIndent(zoning, "", "  ")

	return fmt.Sprintf(feasibilityPromptTemplate,
		project.Description,
		project.Address,
		project.StructureType,
		formatDimensions(project.Dimensions),
		project.PropertyType,
		string(zoningJSON),
	)
}

func formatDimensions(d models.Dimensions) string {
	return fmt.Sprintf("%s' x %s' x %s'", d.Length.Or("TBD"), d.Width.Or("TBD"), d.Height.Or("TBD"))
}

func feasibilityFallback() *models.FeasibilityResults {
	zero := 0
	return &models.FeasibilityResults{
		Verdict:           models.VerdictUnknown,
		ConfidenceScore:   &zero,
		ComplianceSummary: "Error processing feasibility analysis",
		Issues:            []string{"Unable to parse AI response"},
		Recommendations:   []string{"Please try again with more specific project details"},
		RequiredPermits:   []string{},
	}
}
