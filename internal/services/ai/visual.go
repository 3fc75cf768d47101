// internal/services/ai/visual.go
package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"permitcheck/internal/common/metrics"
	"permitcheck/internal/models"
)

// visualPromptLimit bounds the prompt sent to the image model. The full
// prompt is still reported in the result for auditability.
const visualPromptLimit = 1000

// visualTypePrompts maps each supported visual type to its prompt opening.
var visualTypePrompts = map[string]string{
	models.Visual3DRendering: "Create a realistic 3D architectural rendering showing",
	models.VisualSitePlan:    "Create a top-down site plan diagram showing the layout of",
	models.VisualElevation:   "Create an architectural elevation view showing the side profile of",
	models.VisualFloorPlan:   "Create a detailed floor plan showing the interior layout of",
}

// GenerateVisual renders the request into an image prompt and calls the image
// model. It never fails: generation errors come back as an error-status
// result with the prompt that was attempted.
func (c *Client) GenerateVisual(ctx context.Context, request models.VisualRequest) *models.VisualResults {
	const operation = "visual"

	fullPrompt := buildVisualPrompt(request)

	prompt := fullPrompt
	if len(prompt) > visualPromptLimit {
		prompt = prompt[:visualPromptLimit]
	}

	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:   c.config.ImageModel,
		Prompt:  prompt,
		Size:    openai.CreateImageSize1024x1024,
		Quality: openai.CreateImageQualityStandard,
		N:       1,
	})
	if err == nil && len(resp.Data) == 0 {
		err = errEmptyCompletion
	}
	if err != nil {
		c.logger.Warn("visual generation failed", map[string]interface{}{
			"visualType": request.VisualType,
			"error":      err.Error(),
		})
		metrics.AICallsTotal.WithLabelValues(operation, "error").Inc()
		return &models.VisualResults{
			ImageURL:   nil,
			Error:      fmt.Sprintf("Failed to generate visual: %s", err.Error()),
			PromptUsed: fullPrompt,
			VisualType: request.VisualType,
			Status:     models.VisualStatusError,
		}
	}

	metrics.AICallsTotal.WithLabelValues(operation, "success").Inc()
	return &models.VisualResults{
		ImageURL:   &resp.Data[0].URL,
		PromptUsed: fullPrompt,
		VisualType: request.VisualType,
		Status:     models.VisualStatusSuccess,
	}
}

func buildVisualPrompt(request models.VisualRequest) string {
	base, ok := visualTypePrompts[request.VisualType]
	if !ok {
		base = "Create a diagram of"
	}

	details := fmt.Sprintf("%s measuring %s by %s feet",
		request.StructureType,
		request.Dimensions.Length.Or("24"),
		request.Dimensions.Width.Or("30"),
	)

	if request.Materials != nil {
		details += fmt.Sprintf(" with %s exterior and %s roofing",
			orDefault(request.Materials.Exterior, "standard"),
			orDefault(request.Materials.Roofing, "asphalt shingle"),
		)
	}

	custom := ""
	if request.CustomPrompt != "" {
		custom = ". " + request.CustomPrompt
	}

	return fmt.Sprintf("%s %s%s. Architectural style, clean lines, professional presentation suitable for permit documentation.", base, details, custom)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
