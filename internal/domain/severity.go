package domain

import "strings"

// Tier is the severity tier derived from a hazard event label.
type Tier string

const (
	TierWarning  Tier = "warning"
	TierWatch    Tier = "watch"
	TierAdvisory Tier = "advisory"
)

// ClassifyEvent maps an event label to exactly one severity tier by
// case-insensitive keyword presence. A label containing both "Warning" and
// "Watch" classifies as warning; anything without either keyword is an
// advisory.
func ClassifyEvent(label string) Tier {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "warning"):
		return TierWarning
	case strings.Contains(l, "watch"):
		return TierWatch
	default:
		return TierAdvisory
	}
}

// IsCountyCode reports whether a UGC token denotes a county-equivalent zone.
// The third character carries the zone class; tokens shorter than three
// characters are rejected outright.
func IsCountyCode(code string) bool {
	return len(code) > 2 && code[2] == 'C'
}
