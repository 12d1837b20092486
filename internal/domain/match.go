package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Region is one county row from the reference store, as far as UGC
// assignment is concerned.
type Region struct {
	ObjectID any
	State    string
	Name     string
	UGC      string // existing code; empty when unassigned
}

// NoMatch is the diagnostic emitted when a region's normalized name is not
// in the zone index. It carries everything needed for offline review,
// including the nearest indexed key by edit distance — a hint only, never
// used to propose an update.
type NoMatch struct {
	State   string `json:"state"`
	Name    string `json:"name"`
	Key     string `json:"key"`
	Nearest string `json:"nearest,omitempty"`
}

// MatchResult is the outcome of resolving one region against the index.
// Exactly one of Code, NoMatch, or Skipped is meaningful.
type MatchResult struct {
	Code    string
	NoMatch *NoMatch
	Skipped bool // state or name missing; the region cannot be matched
}

// Match resolves a region's UGC by exact lookup on the normalized name
// within the region's state. There is no fuzzy fallback: a miss yields a
// NoMatch diagnostic and no code.
func (z *ZoneIndex) Match(r Region) MatchResult {
	if r.State == "" || r.Name == "" {
		return MatchResult{Skipped: true}
	}
	key := Normalize(r.Name)
	if code, ok := z.Lookup(r.State, key); ok {
		return MatchResult{Code: code}
	}
	return MatchResult{NoMatch: &NoMatch{
		State:   r.State,
		Name:    r.Name,
		Key:     key,
		Nearest: z.nearestKey(r.State, key),
	}}
}

// nearestKey returns the indexed key in state's bucket with the smallest
// Levenshtein distance to key, breaking ties lexically for determinism.
// Empty when the bucket is empty.
func (z *ZoneIndex) nearestKey(state, key string) string {
	best := ""
	bestDist := -1
	for k := range z.byState[strings.ToUpper(state)] {
		d := levenshtein.ComputeDistance(key, k)
		if bestDist < 0 || d < bestDist || (d == bestDist && k < best) {
			best, bestDist = k, d
		}
	}
	return best
}
