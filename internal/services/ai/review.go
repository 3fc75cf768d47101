// internal/services/ai/review.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"permitcheck/internal/common/metrics"
	"permitcheck/internal/models"
)

const reviewSystemRole = "You are an experienced permit reviewer who evaluates construction permit applications for municipalities. You identify issues that commonly lead to rejections."

const reviewPromptTemplate = `Review this permit application document for completeness and compliance:

Project Information: %s

Document Content:
%s...

Analyze the document for:
1. Missing required fields, signatures, or attachments
2. Zoning and building code compliance issues
3. Inconsistent or vague project descriptions
4. Formatting and documentation standard violations
5. Overall rejection risk assessment

Provide specific, actionable feedback with:
- Rejection risk: "Low", "Medium", or "High"
- Detailed list of issues found
- Specific recommendations to fix each issue
- Missing documents checklist
- Compliance status for key categories

Format as JSON:
{
    "rejection_risk": "string",
    "confidence_score": "number",
    "risk_summary": "string",
    "overall_assessment": "string",
    "issues": [
        {"category": "string", "description": "string", "severity": "string"}
    ],
    "fixes": [
        {"category": "string", "description": "string", "priority": "string"}
    ],
    "missing_documents": ["string"],
    "compliance_check": {
        "signatures": "Pass/Fail/Warning",
        "site_plan": "Pass/Fail/Warning",
        "zoning_compliance": "Pass/Fail/Warning",
        "structural_details": "Pass/Fail/Warning",
        "narrative_completeness": "Pass/Fail/Warning"
    }
}`

// ReviewPermitApplication asks the model to act as a permit reviewer over the
// extracted document text. The excerpt is truncated to keep the prompt
// bounded; an unparseable answer degrades to a conservative high-risk
// fallback rather than failing the request.
func (c *Client) ReviewPermitApplication(ctx context.Context, documentText string, project models.ProjectData) (*models.ReviewResults, error) {
	const operation = "review"

	content, err := c.chatCompletion(ctx, operation, reviewSystemRole, buildReviewPrompt(documentText, project), temperatureReview)
	if err != nil {
		return nil, err
	}

	var results models.ReviewResults
	if err := json.Unmarshal([]byte(extractJSON(content)), &results); err != nil || results.RejectionRisk == "" {
		c.logger.Warn("review response not parseable, using fallback", map[string]interface{}{
			"contentLength": len(content),
		})
		metrics.AICallsTotal.WithLabelValues(operation, "parse_fallback").Inc()
		return reviewFallback(), nil
	}

	results.ConfidenceScore = clampConfidence(results.ConfidenceScore)
	metrics.AICallsTotal.WithLabelValues(operation, "success").Inc()
	return &results, nil
}

func buildReviewPrompt(documentText string, project models.ProjectData) string {
	projectJSON, _ := json.MarshalIndent(project, "", "  ")

	excerpt := documentText
	if len(excerpt) > reviewDocumentTextLimit {
		excerpt = excerpt[:reviewDocumentTextLimit]
	}

	return fmt.Sprintf(reviewPromptTemplate, string(projectJSON), excerpt)
}

func reviewFallback() *models.ReviewResults {
	zero := 0
	return &models.ReviewResults{
		RejectionRisk:     models.RiskHigh,
		ConfidenceScore:   &zero,
		RiskSummary:       "Error processing document review",
		OverallAssessment: "Unable to analyze document due to processing error",
		Issues: []models.ReviewItem{
			models.StructuredItem("System Error", "Document could not be properly analyzed", "Critical", ""),
		},
		Fixes: []models.ReviewItem{
			models.StructuredItem("System", "Please re-upload the document or try with a different file format", "", models.RiskHigh),
		},
		MissingDocuments: []string{},
		ComplianceCheck:  map[string]string{},
	}
}
