package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the sync pipelines.
type Metrics struct {
	AlertsConsumed   prometheus.Counter
	RegionsFlagged   prometheus.Gauge
	ZonesIndexed     prometheus.Gauge
	RowsRead         prometheus.Counter
	RecordsSkipped   prometheus.Counter
	MatchesTotal     prometheus.Counter
	NoMatchesTotal   prometheus.Counter
	UpdatesProposed  prometheus.Counter
	UpdatesConfirmed prometheus.Counter
	ApplyBatches     prometheus.Counter
	ApplyHalted      prometheus.Gauge
}

// NewMetrics creates and registers all sync metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AlertsConsumed,
		m.RegionsFlagged,
		m.ZonesIndexed,
		m.RowsRead,
		m.RecordsSkipped,
		m.MatchesTotal,
		m.NoMatchesTotal,
		m.UpdatesProposed,
		m.UpdatesConfirmed,
		m.ApplyBatches,
		m.ApplyHalted,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AlertsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "alerts_consumed_total",
			Help:      "Active alerts read from the NWS feed.",
		}),
		RegionsFlagged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ewd_sync",
			Name:      "regions_flagged",
			Help:      "Distinct county UGCs touched by at least one active alert.",
		}),
		ZonesIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ewd_sync",
			Name:      "zones_indexed",
			Help:      "County zones held in the name-matching index.",
		}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "rows_read_total",
			Help:      "County rows read from the feature layer.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "records_skipped_total",
			Help:      "Rows skipped for missing required fields.",
		}),
		MatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "matches_total",
			Help:      "County rows matched to a canonical UGC.",
		}),
		NoMatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "no_matches_total",
			Help:      "County rows with no zone-index match.",
		}),
		UpdatesProposed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "updates_proposed_total",
			Help:      "Attribute updates handed to the batched applier.",
		}),
		UpdatesConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "updates_confirmed_total",
			Help:      "Updates individually confirmed by apply-edits.",
		}),
		ApplyBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ewd_sync",
			Name:      "apply_batches_total",
			Help:      "Apply-edits batch submissions.",
		}),
		ApplyHalted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ewd_sync",
			Name:      "apply_halted",
			Help:      "1 when the last apply run halted on a batch error.",
		}),
	}
}
