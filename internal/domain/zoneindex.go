package domain

import (
	"iter"
	"log/slog"
	"strings"
)

// Zone is one record from the authoritative NWS zone index feed.
type Zone struct {
	Type  string
	Code  string // UGC, e.g. "TXC453"
	State string
	Name  string
}

// ZoneIndex maps state → normalized county name → canonical UGC code.
// Built fresh per run; never cached across runs.
type ZoneIndex struct {
	byState map[string]map[string]string
	logger  *slog.Logger
}

// NewZoneIndex creates an empty index.
func NewZoneIndex(logger *slog.Logger) *ZoneIndex {
	return &ZoneIndex{
		byState: make(map[string]map[string]string),
		logger:  logger,
	}
}

// BuildZoneIndex drains the zone feed into a ZoneIndex. Records whose type
// is not "county" are skipped, as are records missing code, state, or name
// (skipped, never fatal). The index is returned only once the feed is
// exhausted; a feed error aborts the build with no partial index.
func BuildZoneIndex(zones iter.Seq2[Zone, error], logger *slog.Logger) (*ZoneIndex, error) {
	idx := NewZoneIndex(logger)
	skipped := 0
	for z, err := range zones {
		if err != nil {
			return nil, err
		}
		if z.Type != "county" {
			continue
		}
		if z.Code == "" || z.State == "" || z.Name == "" {
			skipped++
			logger.Debug("skipping incomplete zone record",
				"code", z.Code, "state", z.State, "name", z.Name)
			continue
		}
		idx.Insert(z.State, z.Name, z.Code)
	}
	if skipped > 0 {
		logger.Info("zone records skipped for missing fields", "count", skipped)
	}
	return idx, nil
}

// Insert adds a zone under (upper-cased state, Normalize(name)). On a key
// collision the later record's code wins; the overwrite is logged so
// duplicate normalized names within a state are reviewable.
func (z *ZoneIndex) Insert(state, name, code string) {
	state = strings.ToUpper(state)
	key := Normalize(name)
	bucket, ok := z.byState[state]
	if !ok {
		bucket = make(map[string]string)
		z.byState[state] = bucket
	}
	if prev, ok := bucket[key]; ok && prev != code {
		z.logger.Warn("zone index collision, keeping later code",
			"state", state, "key", key, "previous", prev, "code", code)
	}
	bucket[key] = code
}

// Lookup returns the UGC indexed under (state, key), where key is already
// normalized.
func (z *ZoneIndex) Lookup(state, key string) (string, bool) {
	code, ok := z.byState[strings.ToUpper(state)][key]
	return code, ok
}

// Len reports the total number of indexed zones.
func (z *ZoneIndex) Len() int {
	n := 0
	for _, bucket := range z.byState {
		n += len(bucket)
	}
	return n
}
