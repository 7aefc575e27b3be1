package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollutant_Classify(t *testing.T) {
	as := Pollutant{Abbreviation: "As", Name: "Arsenic", Levels: []ContaminationLevel{
		{Token: "VR", Threshold: 0},
		{Token: "VS", Threshold: 100},
		{Token: "VI", Threshold: 500},
	}}

	tests := []struct {
		value    float64
		expected string
	}{
		{-1, "VR"},
		{0, "VR"},
		{99.9, "VR"},
		{100, "VS"},
		{499, "VS"},
		{500, "VI"},
		{1e6, "VI"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, as.Classify(tt.value), "value %v", tt.value)
	}
}

func TestPollutant_ClassifyUnorderedLevels(t *testing.T) {
	p := Pollutant{Abbreviation: "Pb", Levels: []ContaminationLevel{
		{Token: "VI", Threshold: 300},
		{Token: "VR", Threshold: 10},
	}}
	assert.Equal(t, "VR", p.Classify(5))
	assert.Equal(t, "VR", p.Classify(200))
	assert.Equal(t, "VI", p.Classify(300))
}

func TestPollutant_ClassifyWithoutLevels(t *testing.T) {
	assert.Equal(t, UnknownLevel, Pollutant{Abbreviation: "X"}.Classify(10))
}
