package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEvent(t *testing.T) {
	tests := []struct {
		label string
		want  Tier
	}{
		{"Tornado Warning", TierWarning},
		{"Flood Watch", TierWatch},
		{"Wind Advisory", TierAdvisory},
		{"Special Weather Statement", TierAdvisory},
		{"", TierAdvisory},
		{"SEVERE THUNDERSTORM WARNING", TierWarning},
		{"flood watch", TierWatch},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEvent(tt.label))
		})
	}
}

func TestClassifyEvent_WarningBeatsWatch(t *testing.T) {
	// A label carrying both keywords gets exactly one tier: warning.
	assert.Equal(t, TierWarning, ClassifyEvent("Flash Flood Warning issued during Watch"))
	assert.Equal(t, TierWarning, ClassifyEvent("warning and watch"))
}

func TestIsCountyCode(t *testing.T) {
	assert.True(t, IsCountyCode("TXC453"))
	assert.True(t, IsCountyCode("LAC"))
	assert.False(t, IsCountyCode("TXZ123"), "forecast zone is not county-equivalent")
	assert.False(t, IsCountyCode("TX"), "tokens shorter than 3 chars are rejected")
	assert.False(t, IsCountyCode("C"))
	assert.False(t, IsCountyCode(""))
}
