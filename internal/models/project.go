// internal/models/project.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString accepts JSON strings or numbers; the form frontend sends
// dimensions both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("dimension value must be string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Or returns the value, or fallback when empty.
func (f FlexString) Or(fallback string) string {
	if f == "" {
		return fallback
	}
	return string(f)
}

type Dimensions struct {
	Length FlexString `json:"length,omitempty"`
	Width  FlexString `json:"width,omitempty"`
	Height FlexString `json:"height,omitempty"`
}

type Materials struct {
	Exterior   string `json:"exterior,omitempty"`
	Roofing    string `json:"roofing,omitempty"`
	Foundation string `json:"foundation,omitempty"`
}

// ProjectData is the per-request project description. It has no persisted
// identity; it is created per request and discarded with the response.
type ProjectData struct {
	Description   string     `json:"description"`
	Address       string     `json:"address,omitempty"`
	ParcelID      string     `json:"parcel_id,omitempty"`
	StructureType string     `json:"structure_type,omitempty"`
	Dimensions    Dimensions `json:"dimensions,omitempty"`
	LocationOnLot string     `json:"location_on_lot,omitempty"`
	PropertyType  string     `json:"property_type,omitempty"`
	Materials     Materials  `json:"materials,omitempty"`
}

// ApplyDefaults fills the documented request defaults.
func (p *ProjectData) ApplyDefaults() {
	if p.StructureType == "" {
		p.StructureType = "garage"
	}
	if p.PropertyType == "" {
		p.PropertyType = "residential"
	}
}

// ZoningRules holds the numeric limits of one district. Pointer fields so
// restriction generation can distinguish absent from zero.
type ZoningRules struct {
	MaxHeight         *float64 `json:"max_height,omitempty"`
	MinSetbackFront   *float64 `json:"min_setback_front,omitempty"`
	MinSetbackRear    *float64 `json:"min_setback_rear,omitempty"`
	MinSetbackSide    *float64 `json:"min_setback_side,omitempty"`
	MaxLotCoverage    *float64 `json:"max_lot_coverage,omitempty"`
	AllowedStructures []string `json:"allowed_structures,omitempty"`
}

// ZoningInfo is the resolver's answer: district, classification, how it was
// obtained, the applicable rules and their human-readable restrictions.
type ZoningInfo struct {
	District       string       `json:"district"`
	Classification string       `json:"classification"`
	Source         string       `json:"source,omitempty"`
	Rules          *ZoningRules `json:"rules,omitempty"`
	Restrictions   []string     `json:"restrictions"`
}

// Feasibility verdicts returned by the analysis model.
const (
	VerdictFeasible      = "Feasible"
	VerdictNeedsVariance = "Needs Variance"
	VerdictNotFeasible   = "Not Feasible"
	VerdictUnknown       = "Unknown"
)

type FeasibilityResults struct {
	Verdict           string      `json:"verdict"`
	ConfidenceScore   *int        `json:"confidence_score,omitempty"`
	ComplianceSummary string      `json:"compliance_summary"`
	ZoningInfo        *ZoningInfo `json:"zoning_info,omitempty"`
	Issues            []string    `json:"issues"`
	Recommendations   []string    `json:"recommendations"`
	RequiredPermits   []string    `json:"required_permits"`
}

type NarrativeResults struct {
	Narrative   string `json:"narrative"`
	WordCount   int    `json:"word_count"`
	GeneratedAt string `json:"generated_at"`
}

// Visual types with dedicated prompt templates. Anything else gets a generic
// diagram prompt.
const (
	Visual3DRendering = "3d_rendering"
	VisualSitePlan    = "site_plan"
	VisualElevation   = "elevation"
	VisualFloorPlan   = "floor_plan"
)

type VisualRequest struct {
	StructureType string     `json:"structure_type"`
	Dimensions    Dimensions `json:"dimensions,omitempty"`
	Materials     *Materials `json:"materials,omitempty"`
	VisualType    string     `json:"visual_type,omitempty"`
	CustomPrompt  string     `json:"custom_prompt,omitempty"`
	Address       string     `json:"address,omitempty"`
	LocationOnLot string     `json:"location_on_lot,omitempty"`
}

const (
	VisualStatusSuccess = "success"
	VisualStatusError   = "error"
)

// VisualResults always carries the exact prompt used, for auditability.
type VisualResults struct {
	ImageURL   *string `json:"image_url"`
	PromptUsed string  `json:"prompt_used"`
	VisualType string  `json:"visual_type"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
}
