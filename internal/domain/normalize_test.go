package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain county suffix", "Travis County", "travis"},
		{"parish suffix", "Saint Mary Parish", "stmary"},
		{"st abbreviation", "St Mary", "stmary"},
		{"st with period", "St. Mary", "stmary"},
		{"sainte contraction", "Sainte Genevieve County", "stegenevieve"},
		{"city prefix form", "City of Manassas", "ofmanassas"},
		{"borough", "North Slope Borough", "northslope"},
		{"census area", "Yukon-Koyukuk Census Area", "yukonkoyukuk"},
		{"municipality", "Anchorage Municipality", "anchorage"},
		{"suffix only matches whole words", "Citrus", "citrus"},
		{"split name", "De Witt County", "dewitt"},
		{"joined name", "DeWitt", "dewitt"},
		{"punctuation", "O'Brien County", "obrien"},
		{"digits survive", "District 3", "district3"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Saint Mary Parish",
		"De Witt County",
		"Yukon-Koyukuk Census Area",
		"Citrus",
		"",
		"already-normalized",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize(%q) not idempotent", in)
	}
}

func TestNormalize_SaintAndSuffixFormsConverge(t *testing.T) {
	// "Saint Mary Parish" and "St Mary" must reduce to the same key.
	assert.Equal(t, "stmary", Normalize("Saint Mary Parish"))
	assert.Equal(t, Normalize("Saint Mary Parish"), Normalize("St Mary"))
}
