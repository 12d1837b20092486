// Package pipeline wires the feed adapters, the domain reconciliation, and
// the batched store writer into the two sync drivers. Data flows strictly
// one way: remote read → in-memory reconciliation → remote write. Execution
// is sequential and blocking throughout; a run ends complete, aborted on a
// transport failure, or halted mid-apply with a partial total.
package pipeline

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/trevorneel/EWD/internal/adapter/arcgis"
	"github.com/trevorneel/EWD/internal/domain"
	"github.com/trevorneel/EWD/internal/observability"
)

// AlertSource yields active hazard alerts.
type AlertSource interface {
	ActiveAlerts(ctx context.Context) iter.Seq2[domain.Alert, error]
}

// ZoneSource yields the authoritative zone index feed.
type ZoneSource interface {
	CountyZones(ctx context.Context) iter.Seq2[domain.Zone, error]
}

// Store is the feature service holding the county layer.
type Store interface {
	PickPolygonLayer(ctx context.Context) (arcgis.Layer, error)
	LayerURLs(layerID int) arcgis.LayerURLs
	QueryAll(ctx context.Context, queryURL, where string, outFields []string, pageSize int) iter.Seq2[arcgis.Feature, error]
	ApplyUpdates(ctx context.Context, applyURL string, updates []domain.Update, batchSize int, pause time.Duration) (arcgis.ApplyResult, error)
}

// DiagnosticSink receives no-match diagnostics for offline review.
type DiagnosticSink interface {
	Publish(ctx context.Context, d domain.NoMatch) error
}

// recordApply folds one apply-edits outcome into the run metrics.
func recordApply(m *observability.Metrics, logger *slog.Logger, res arcgis.ApplyResult) {
	m.UpdatesConfirmed.Add(float64(res.Confirmed))
	m.ApplyBatches.Add(float64(res.Batches))
	if res.Halted {
		m.ApplyHalted.Set(1)
		logger.Error("apply edits halted, partial total kept",
			"confirmed", res.Confirmed, "error", res.LastError)
		return
	}
	m.ApplyHalted.Set(0)
}
