package benefits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"On Track", StatusOnTrack},
		{"on-track", StatusOnTrack},
		{"GREEN", StatusOnTrack},
		{"Amber", StatusAtRisk},
		{"at risk", StatusAtRisk},
		{"Red", StatusDelayed},
		{"delayed", StatusDelayed},
		{"Cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"Realised", StatusRealised},
		{"realized", StatusRealised},
		{"Complete", StatusRealised},
		{"Partially realised", StatusPartial},
		{"in progress", StatusPartial},
		{"Pending", StatusNotStarted},
		{"", StatusNotStarted},
		{"some nonsense", StatusNotStarted},
		{"benefit is at risk of slipping", StatusAtRisk},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.input))
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"Revenue growth", CategoryRevenue},
		{"New market entry", CategoryRevenue},
		{"Cost saving", CategoryCostSaving},
		{"cost reduction programme", CategoryCostSaving},
		{"Cost avoidance", CategoryCostAvoidance},
		{"Process efficiency", CategoryEfficiency},
		{"Automation", CategoryEfficiency},
		{"Strategic capability", CategoryStrategic},
		{"Regulatory compliance", CategoryRiskMitigation},
		{"Risk mitigation", CategoryRiskMitigation},
		{"", CategoryOther},
		{"miscellaneous", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.input))
		})
	}
}

func TestParseConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ParseConfidence("High"))
	assert.Equal(t, ConfidenceHigh, ParseConfidence("very high"))
	assert.Equal(t, ConfidenceLow, ParseConfidence("Low"))
	assert.Equal(t, ConfidenceMedium, ParseConfidence("Medium"))
	assert.Equal(t, ConfidenceMedium, ParseConfidence(""))
	assert.Equal(t, ConfidenceMedium, ParseConfidence("unsure"))
}

func TestBenefitUnrealisedValue(t *testing.T) {
	b := Benefit{ExpectedValue: 100000, RealisedValue: 30000}
	assert.InDelta(t, 70000, b.UnrealisedValue(), 1e-9)

	over := Benefit{ExpectedValue: 100000, RealisedValue: 120000}
	assert.Zero(t, over.UnrealisedValue())
	assert.InDelta(t, 1.2, over.RealisationPct(), 1e-9)
}
