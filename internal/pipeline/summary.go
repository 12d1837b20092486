package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trevorneel/EWD/internal/config"
	"github.com/trevorneel/EWD/internal/domain"
	"github.com/trevorneel/EWD/internal/observability"
)

// Summary reconciles active NWS alerts onto the county layer's status
// summary fields. Every county row gets an update: counties without active
// alerts are reset to level 0 with null name fields.
type Summary struct {
	alerts  AlertSource
	store   Store
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSummary creates the alert-summary driver.
func NewSummary(alerts AlertSource, store Store, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Summary {
	return &Summary{
		alerts:  alerts,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// SummaryReport is what one alert-summary run accomplished.
type SummaryReport struct {
	RegionsFlagged  int // distinct county UGCs with at least one active alert
	RowsRead        int
	UpdatesProposed int
	Confirmed       int
	Batches         int
	Halted          bool
}

// Run executes one alert-summary pass.
func (p *Summary) Run(ctx context.Context) (SummaryReport, error) {
	var rep SummaryReport

	layer, err := p.store.PickPolygonLayer(ctx)
	if err != nil {
		return rep, fmt.Errorf("resolve county layer: %w", err)
	}
	urls := p.store.LayerURLs(layer.ID)

	agg := domain.NewAggregator(p.cfg.AllowEvents)
	for alert, err := range p.alerts.ActiveAlerts(ctx) {
		if err != nil {
			return rep, fmt.Errorf("read active alerts: %w", err)
		}
		p.metrics.AlertsConsumed.Inc()
		agg.Add(alert)
	}
	rep.RegionsFlagged = agg.Len()
	p.metrics.RegionsFlagged.Set(float64(agg.Len()))
	p.logger.Info("aggregated active alerts", "regions", agg.Len())

	outFields := []string{layer.ObjectIDField, p.cfg.FieldUGC}
	var updates []domain.Update
	for f, err := range p.store.QueryAll(ctx, urls.Query, "1=1", outFields, p.cfg.QueryPageSize) {
		if err != nil {
			return rep, fmt.Errorf("query county rows: %w", err)
		}
		rep.RowsRead++
		p.metrics.RowsRead.Inc()

		oid, ok := f.Attributes[layer.ObjectIDField]
		if !ok || oid == nil {
			p.metrics.RecordsSkipped.Inc()
			p.logger.Warn("county row missing object id, skipping")
			continue
		}
		summary := agg.Region(f.StringAttr(p.cfg.FieldUGC))
		updates = append(updates, domain.NewUpdate(layer.ObjectIDField, oid, domain.SummaryAttributes(summary)))
	}
	rep.UpdatesProposed = len(updates)
	p.metrics.UpdatesProposed.Add(float64(len(updates)))
	p.logger.Info("prepared status updates", "rows_read", rep.RowsRead, "updates", len(updates))

	if len(updates) == 0 {
		p.logger.Info("no summary updates required")
		return rep, nil
	}

	res, applyErr := p.store.ApplyUpdates(ctx, urls.ApplyEdits, updates, p.cfg.BatchSize, p.cfg.BatchPause)
	rep.Confirmed = res.Confirmed
	rep.Batches = res.Batches
	rep.Halted = res.Halted
	recordApply(p.metrics, p.logger, res)
	if applyErr != nil {
		return rep, fmt.Errorf("apply status updates: %w", applyErr)
	}
	return rep, nil
}
