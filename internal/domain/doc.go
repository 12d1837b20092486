// Package domain models the reconciliation of National Weather Service (NWS)
// hazard alerts against a reference layer of US county polygons.
//
// # Data Sources
//
// Active alerts come from https://api.weather.gov/alerts/active, the county
// zone index from https://api.weather.gov/zones?type=county. Both are
// cursor-paginated JSON feeds (see the nws adapter). The county layer lives
// in an ArcGIS-style feature service and is the only persistent state; every
// index and aggregation here is rebuilt from scratch each run.
//
// # UGC Codes
//
// NWS identifies zones with six-character UGC codes ("Universal Geographic
// Code"), e.g. "TXC453". The first two characters are the state, the third
// encodes the zone class: 'C' marks a county-equivalent zone, 'Z' a forecast
// zone. Only county-equivalent codes participate in alert aggregation.
//
// # Severity Tiers
//
// Every alert event label maps to exactly one of three tiers by keyword
// presence, case-insensitive, with precedence warning > watch > advisory:
//
//	"Tornado Warning"  → warning
//	"Flood Watch"      → watch
//	"Wind Advisory"    → advisory (also the fallback for any other label)
//
// The county layer's status_level is 2 when any warning is active, 1 when
// only watches are, 0 otherwise.
//
// # Name Normalization
//
// County display names in the layer and zone names in the NWS index disagree
// on casing, punctuation, and administrative suffixes ("DeWitt" vs "De Witt
// County", "St. Mary" vs "Saint Mary Parish"). [Normalize] reduces both
// sides to a lowercase alphanumeric key so that matching is exact on the
// normalized form. There is deliberately no edit-distance fallback; the
// nearest-candidate hint on a failed match is diagnostic output only.
package domain
