// internal/services/zoning/rules_test.go
package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permitcheck/internal/models"
)

func TestGenerateRestrictionListAllPairs(t *testing.T) {
	expected := map[string]map[string][]string{
		ClassResidential: {
			"R-1": {
				"Maximum height: 35 feet",
				"Front setback: minimum 25 feet",
				"Rear setback: minimum 25 feet",
				"Side setback: minimum 8 feet",
				"Maximum lot coverage: 35%",
				"Allowed structures: single_family, garage, shed, deck",
			},
			"R-2": {
				"Maximum height: 30 feet",
				"Front setback: minimum 20 feet",
				"Rear setback: minimum 20 feet",
				"Side setback: minimum 6 feet",
				"Maximum lot coverage: 40%",
				"Allowed structures: single_family, duplex, garage, shed, deck",
			},
			"R-3": {
				"Maximum height: 45 feet",
				"Front setback: minimum 15 feet",
				"Rear setback: minimum 15 feet",
				"Side setback: minimum 5 feet",
				"Maximum lot coverage: 50%",
				"Allowed structures: multi_family, garage, deck",
			},
		},
		ClassCommercial: {
			"C-1": {
				"Maximum height: 45 feet",
				"Front setback: minimum 10 feet",
				"Rear setback: minimum 10 feet",
				"Side setback: minimum 5 feet",
				"Maximum lot coverage: 70%",
				"Allowed structures: retail, office, restaurant",
			},
			"C-2": {
				"Maximum height: 60 feet",
				"Front setback: minimum 5 feet",
				"Rear setback: minimum 10 feet",
				"Side setback: minimum 0 feet",
				"Maximum lot coverage: 80%",
				"Allowed structures: retail, office, warehouse, manufacturing",
			},
		},
		ClassIndustrial: {
			"I-1": {
				"Maximum height: 60 feet",
				"Front setback: minimum 20 feet",
				"Rear setback: minimum 20 feet",
				"Side setback: minimum 10 feet",
				"Maximum lot coverage: 60%",
				"Allowed structures: manufacturing, warehouse, office",
			},
		},
	}

	for classification, districts := range expected {
		for district, want := range districts {
			t.Run(classification+"/"+district, func(t *testing.T) {
				rules := GetZoningRules(classification, district)
				assert.Equal(t, want, GenerateRestrictionList(rules))
			})
		}
	}
}

func TestGetZoningRulesUnknownClassificationFallsBackToR2(t *testing.T) {
	rules := GetZoningRules("agricultural", "A-1")

	require.NotNil(t, rules.MaxHeight)
	assert.Equal(t, 30.0, *rules.MaxHeight)
	require.NotNil(t, rules.MinSetbackFront)
	assert.Equal(t, 20.0, *rules.MinSetbackFront)
}

func TestGetZoningRulesUnknownDistrictFallsBackToFirstDistrict(t *testing.T) {
	// R-9 is unknown; the first residential district is R-1.
	rules := GetZoningRules(ClassResidential, "R-9")
	require.NotNil(t, rules.MaxHeight)
	assert.Equal(t, 35.0, *rules.MaxHeight)

	// C-9 is unknown; the first commercial district is C-1.
	rules = GetZoningRules(ClassCommercial, "C-9")
	require.NotNil(t, rules.MaxHeight)
	assert.Equal(t, 45.0, *rules.MaxHeight)
}

func TestClassifyDistrict(t *testing.T) {
	tests := []struct {
		district string
		expected string
	}{
		{"R-1", ClassResidential},
		{"r-3", ClassResidential},
		{"C-2", ClassCommercial},
		{"I-1", ClassIndustrial},
		{"X-1", ClassResidential},
		{"", ClassResidential},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyDistrict(tt.district), "district %q", tt.district)
	}
}

func TestGenerateRestrictionListSkipsAbsentFields(t *testing.T) {
	rules := models.ZoningRules{
		MaxHeight:      f(30),
		MaxLotCoverage: f(0.40),
	}

	assert.Equal(t, []string{
		"Maximum height: 30 feet",
		"Maximum lot coverage: 40%",
	}, GenerateRestrictionList(rules))
}
