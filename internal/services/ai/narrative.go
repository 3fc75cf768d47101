// internal/services/ai/narrative.go
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"permitcheck/internal/common/metrics"
	"permitcheck/internal/models"
)

const narrativeSystemRole = "You are an expert construction project writer who creates detailed, code-compliant construction narratives for permit applications."

const narrativePromptTemplate = `Generate a comprehensive construction narrative/scope of work for this project:

Project: %s
Structure Type: %s
Dimensions: %s' x %s' x %s'
Materials: %s
Location on lot: %s

Create a detailed, professional narrative that includes:
1. Project overview and purpose
2. Detailed construction specifications
3. Materials and methods
4. Foundation and structural details
5. Electrical, plumbing, and mechanical systems (if applicable)
6. Exterior finishes and roofing
7. Site work and drainage considerations
8. Compliance with applicable codes

Write in professional permit application language, approximately 300-500 words.`

// GenerateNarrative produces a scope-of-work narrative. The model output is
// free text, so there is no parse fallback; the word count and generation
// timestamp are computed here, not by the model.
func (c *Client) GenerateNarrative(ctx context.Context, project models.ProjectData) (*models.NarrativeResults, error) {
	const operation = "narrative"

	narrative, err := c.chatCompletion(ctx, operation, narrativeSystemRole, buildNarrativePrompt(project), temperatureNarrative)
	if err != nil {
		return nil, err
	}

	metrics.AICallsTotal.WithLabelValues(operation, "success").Inc()
	return &models.NarrativeResults{
		Narrative:   narrative,
		WordCount:   len(strings.Fields(narrative)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func buildNarrativePrompt(project models.ProjectData) string {
	materials := fmt.Sprintf("exterior: %s, roofing: %s, foundation: %s",
		orTBD(project.Materials.Exterior),
		orTBD(project.Materials.Roofing),
		orTBD(project.Materials.Foundation),
	)

	return fmt.Sprintf(narrativePromptTemplate,
		project.Description,
		project.StructureType,
		project.Dimensions.Length.Or("TBD"),
		project.Dimensions.Width.Or("TBD"),
		project.Dimensions.Height.Or("TBD"),
		materials,
		project.LocationOnLot,
	)
}

func orTBD(s string) string {
	if s == "" {
		return "TBD"
	}
	return s
}
