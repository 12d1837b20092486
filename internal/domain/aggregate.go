package domain

import (
	"maps"
	"slices"
	"strings"
)

// Alert is one active-alert record as read from the feed: the event label
// plus the UGC tokens it applies to. Ephemeral, discarded after aggregation.
type Alert struct {
	Event string
	UGCs  []string
}

// LabelSet is an unordered set of distinct alert event labels.
type LabelSet map[string]struct{}

// Sorted returns the labels in lexical order for deterministic rendering.
func (s LabelSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// AlertSummary accumulates the distinct alert labels active for one county,
// split by severity tier.
type AlertSummary struct {
	Warnings   LabelSet
	Watches    LabelSet
	Advisories LabelSet
}

func newAlertSummary() *AlertSummary {
	return &AlertSummary{
		Warnings:   LabelSet{},
		Watches:    LabelSet{},
		Advisories: LabelSet{},
	}
}

func (s *AlertSummary) add(tier Tier, label string) {
	switch tier {
	case TierWarning:
		s.Warnings[label] = struct{}{}
	case TierWatch:
		s.Watches[label] = struct{}{}
	default:
		s.Advisories[label] = struct{}{}
	}
}

// StatusLevel derives the county status: 2 with any active warning, 1 with
// only watches, 0 otherwise. Watch count is irrelevant once a warning exists.
func (s *AlertSummary) StatusLevel() int {
	switch {
	case len(s.Warnings) > 0:
		return 2
	case len(s.Watches) > 0:
		return 1
	default:
		return 0
	}
}

// Aggregator groups active-alert labels by county UGC code and severity tier.
type Aggregator struct {
	allow   map[string]struct{}
	regions map[string]*AlertSummary
}

// NewAggregator creates an Aggregator. allow restricts aggregation to
// exactly-matching event labels; an empty or nil allow-list accepts every
// event. The empty-means-all convention distinguishes "no filter configured"
// from a filter that matches nothing, which cannot be expressed.
func NewAggregator(allow []string) *Aggregator {
	a := &Aggregator{regions: make(map[string]*AlertSummary)}
	if len(allow) > 0 {
		a.allow = make(map[string]struct{}, len(allow))
		for _, ev := range allow {
			a.allow[ev] = struct{}{}
		}
	}
	return a
}

// Add records one alert. The event is classified into a tier and its label
// added to that tier's set for every county-equivalent UGC it names.
// Duplicate labels for the same county collapse. Returns false when the
// allow-list rejects the event.
func (a *Aggregator) Add(alert Alert) bool {
	if a.allow != nil {
		if _, ok := a.allow[alert.Event]; !ok {
			return false
		}
	}
	tier := ClassifyEvent(alert.Event)
	for _, ugc := range alert.UGCs {
		if !IsCountyCode(ugc) {
			continue
		}
		s, ok := a.regions[ugc]
		if !ok {
			s = newAlertSummary()
			a.regions[ugc] = s
		}
		s.add(tier, alert.Event)
	}
	return true
}

// Region returns the summary accumulated for a UGC, or nil when no alert
// touched it.
func (a *Aggregator) Region(ugc string) *AlertSummary {
	return a.regions[ugc]
}

// Len reports the number of distinct counties touched by at least one alert.
func (a *Aggregator) Len() int {
	return len(a.regions)
}

// Attribute names of the county layer's status summary fields.
const (
	AttrStatusLevel   = "status_level"
	AttrWarningCount  = "warning_count"
	AttrWarningNames  = "warning_names"
	AttrWatchCount    = "watch_count"
	AttrWatchNames    = "watch_names"
	AttrAdvisoryCount = "advisory_count"
	AttrAdvisoryNames = "advisory_names"
	AttrLastUpdated   = "last_updated"
)

// SummaryAttributes renders a county's status summary as store attributes.
// A nil summary means no active alerts: zero counts, null name fields,
// status level 0. Name fields are the sorted labels joined with "; ", or
// nil when the set is empty — never "" — so the store can tell "no alerts"
// from "alert with an empty label".
func SummaryAttributes(s *AlertSummary) map[string]any {
	if s == nil {
		s = newAlertSummary()
	}
	return map[string]any{
		AttrStatusLevel:   s.StatusLevel(),
		AttrWarningCount:  len(s.Warnings),
		AttrWarningNames:  joinedOrNil(s.Warnings),
		AttrWatchCount:    len(s.Watches),
		AttrWatchNames:    joinedOrNil(s.Watches),
		AttrAdvisoryCount: len(s.Advisories),
		AttrAdvisoryNames: joinedOrNil(s.Advisories),
		AttrLastUpdated:   nowISO(),
	}
}

func joinedOrNil(s LabelSet) any {
	if len(s) == 0 {
		return nil
	}
	return strings.Join(s.Sorted(), "; ")
}
