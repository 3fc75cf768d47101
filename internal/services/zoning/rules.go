// internal/services/zoning/rules.go
package zoning

import (
	"strconv"
	"strings"

	"permitcheck/internal/models"
)

// Property classifications known to the rule table.
const (
	ClassResidential = "residential"
	ClassCommercial  = "commercial"
	ClassIndustrial  = "industrial"
)

const (
	defaultDistrict       = "R-2"
	defaultClassification = ClassResidential
)

func f(v float64) *float64 { return &v }

type districtRules struct {
	code  string
	rules models.ZoningRules
}

// baseZoningRules is the static rule table, read-only after initialization.
// Districts are ordered: unknown-district lookups fall back to the first
// district of the classification.
var baseZoningRules = map[string][]districtRules{
	ClassResidential: {
		{"R-1", models.ZoningRules{
			MaxHeight:         f(35),
			MinSetbackFront:   f(25),
			MinSetbackRear:    f(25),
			MinSetbackSide:    f(8),
			MaxLotCoverage:    f(0.35),
			AllowedStructures: []string{"single_family", "garage", "shed", "deck"},
		}},
		{"R-2", models.ZoningRules{
			MaxHeight:         f(30),
			MinSetbackFront:   f(20),
			MinSetbackRear:    f(20),
			MinSetbackSide:    f(6),
			MaxLotCoverage:    f(0.40),
			AllowedStructures: []string{"single_family", "duplex", "garage", "shed", "deck"},
		}},
		{"R-3", models.ZoningRules{
			MaxHeight:         f(45),
			MinSetbackFront:   f(15),
			MinSetbackRear:    f(15),
			MinSetbackSide:    f(5),
			MaxLotCoverage:    f(0.50),
			AllowedStructures: []string{"multi_family", "garage", "deck"},
		}},
	},
	ClassCommercial: {
		{"C-1", models.ZoningRules{
			MaxHeight:         f(45),
			MinSetbackFront:   f(10),
			MinSetbackRear:    f(10),
			MinSetbackSide:    f(5),
			MaxLotCoverage:    f(0.70),
			AllowedStructures: []string{"retail", "office", "restaurant"},
		}},
		{"C-2", models.ZoningRules{
			MaxHeight:         f(60),
			MinSetbackFront:   f(5),
			MinSetbackRear:    f(10),
			MinSetbackSide:    f(0),
			MaxLotCoverage:    f(0.80),
			AllowedStructures: []string{"retail", "office", "warehouse", "manufacturing"},
		}},
	},
	ClassIndustrial: {
		{"I-1", models.ZoningRules{
			MaxHeight:         f(60),
			MinSetbackFront:   f(20),
			MinSetbackRear:    f(20),
			MinSetbackSide:    f(10),
			MaxLotCoverage:    f(0.60),
			AllowedStructures: []string{"manufacturing", "warehouse", "office"},
		}},
	},
}

// ClassifyDistrict maps a district code to its classification by leading
// letter; anything unrecognized is treated as residential.
func ClassifyDistrict(district string) string {
	upper := strings.ToUpper(district)
	switch {
	case strings.HasPrefix(upper, "R"):
		return ClassResidential
	case strings.HasPrefix(upper, "C"):
		return ClassCommercial
	case strings.HasPrefix(upper, "I"):
		return ClassIndustrial
	default:
		return ClassResidential
	}
}

// GetZoningRules returns the rule record for a classification/district pair.
// An unknown district falls back to the classification's first district; an
// unknown classification falls back to residential R-2.
func GetZoningRules(classification, district string) models.ZoningRules {
	districts, ok := baseZoningRules[classification]
	if !ok {
		return mustRules(defaultClassification, defaultDistrict)
	}
	for _, d := range districts {
		if d.code == district {
			return d.rules
		}
	}
	return districts[0].rules
}

func mustRules(classification, district string) models.ZoningRules {
	for _, d := range baseZoningRules[classification] {
		if d.code == district {
			return d.rules
		}
	}
	// Unreachable as long as the table contains the defaults.
	return models.ZoningRules{}
}

// GenerateRestrictionList renders the human-readable restriction strings for
// whichever rule fields are present, in fixed order: height, front, rear,
// side, coverage, structures.
func GenerateRestrictionList(rules models.ZoningRules) []string {
	var restrictions []string

	if rules.MaxHeight != nil {
		restrictions = append(restrictions, "Maximum height: "+formatFeet(*rules.MaxHeight)+" feet")
	}
	if rules.MinSetbackFront != nil {
		restrictions = append(restrictions, "Front setback: minimum "+formatFeet(*rules.MinSetbackFront)+" feet")
	}
	if rules.MinSetbackRear != nil {
		restrictions = append(restrictions, "Rear setback: minimum "+formatFeet(*rules.MinSetbackRear)+" feet")
	}
	if rules.MinSetbackSide != nil {
		restrictions = append(restrictions, "Side setback: minimum "+formatFeet(*rules.MinSetbackSide)+" feet")
	}
	if rules.MaxLotCoverage != nil {
		percent := int(*rules.MaxLotCoverage * 100)
		restrictions = append(restrictions, "Maximum lot coverage: "+strconv.Itoa(percent)+"%")
	}
	if len(rules.AllowedStructures) > 0 {
		restrictions = append(restrictions, "Allowed structures: "+strings.Join(rules.AllowedStructures, ", "))
	}

	return restrictions
}

func formatFeet(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
