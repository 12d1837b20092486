package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trevorneel/EWD/internal/config"
	"github.com/trevorneel/EWD/internal/domain"
	"github.com/trevorneel/EWD/internal/observability"
)

// Enrich assigns a canonical UGC code to every county row that lacks one,
// by exact match of the normalized county name against the NWS zone index.
type Enrich struct {
	zones   ZoneSource
	store   Store
	sink    DiagnosticSink // nil: diagnostics are logged only
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewEnrich creates the UGC enrichment driver. sink may be nil.
func NewEnrich(zones ZoneSource, store Store, sink DiagnosticSink, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Enrich {
	return &Enrich{
		zones:   zones,
		store:   store,
		sink:    sink,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// EnrichReport is what one enrichment run accomplished.
type EnrichReport struct {
	ZonesIndexed    int
	RowsRead        int
	AlreadyAssigned int // rows that came in with a UGC and were left alone
	Skipped         int // rows missing state or name
	Matched         int
	NoMatches       int
	UpdatesProposed int
	Confirmed       int
	Batches         int
	Halted          bool
}

// Run executes one enrichment pass.
func (p *Enrich) Run(ctx context.Context) (EnrichReport, error) {
	var rep EnrichReport

	layer, err := p.store.PickPolygonLayer(ctx)
	if err != nil {
		return rep, fmt.Errorf("resolve county layer: %w", err)
	}
	urls := p.store.LayerURLs(layer.ID)

	idx, err := domain.BuildZoneIndex(p.zones.CountyZones(ctx), p.logger)
	if err != nil {
		return rep, fmt.Errorf("build zone index: %w", err)
	}
	rep.ZonesIndexed = idx.Len()
	p.metrics.ZonesIndexed.Set(float64(idx.Len()))
	p.logger.Info("zone index built", "zones", idx.Len())

	outFields := []string{layer.ObjectIDField, p.cfg.FieldState, p.cfg.FieldName, p.cfg.FieldUGC}
	var updates []domain.Update
	for f, err := range p.store.QueryAll(ctx, urls.Query, "1=1", outFields, p.cfg.QueryPageSize) {
		if err != nil {
			return rep, fmt.Errorf("query county rows: %w", err)
		}
		rep.RowsRead++
		p.metrics.RowsRead.Inc()

		if f.StringAttr(p.cfg.FieldUGC) != "" {
			rep.AlreadyAssigned++
			continue
		}

		region := domain.Region{
			ObjectID: f.Attributes[layer.ObjectIDField],
			State:    f.StringAttr(p.cfg.FieldState),
			Name:     f.StringAttr(p.cfg.FieldName),
		}
		res := idx.Match(region)
		switch {
		case res.Skipped:
			rep.Skipped++
			p.metrics.RecordsSkipped.Inc()
			p.logger.Warn("county row not matchable, skipping",
				"oid", region.ObjectID, "state", region.State, "name", region.Name)
		case res.Code != "":
			rep.Matched++
			p.metrics.MatchesTotal.Inc()
			updates = append(updates, domain.NewUpdate(layer.ObjectIDField, region.ObjectID,
				map[string]any{p.cfg.FieldUGC: res.Code}))
		default:
			rep.NoMatches++
			p.metrics.NoMatchesTotal.Inc()
			p.publishNoMatch(ctx, *res.NoMatch)
		}
	}
	rep.UpdatesProposed = len(updates)
	p.metrics.UpdatesProposed.Add(float64(len(updates)))
	p.logger.Info("county rows matched",
		"rows_read", rep.RowsRead, "matched", rep.Matched,
		"no_match", rep.NoMatches, "already_assigned", rep.AlreadyAssigned)

	if len(updates) == 0 {
		p.logger.Info("no ugc updates needed")
		return rep, nil
	}

	res, applyErr := p.store.ApplyUpdates(ctx, urls.ApplyEdits, updates, p.cfg.BatchSize, p.cfg.BatchPause)
	rep.Confirmed = res.Confirmed
	rep.Batches = res.Batches
	rep.Halted = res.Halted
	recordApply(p.metrics, p.logger, res)
	if applyErr != nil {
		return rep, fmt.Errorf("apply ugc updates: %w", applyErr)
	}
	return rep, nil
}

// publishNoMatch surfaces one diagnostic. The log line alone satisfies the
// observability contract; the sink is best-effort and never fails the run.
func (p *Enrich) publishNoMatch(ctx context.Context, d domain.NoMatch) {
	p.logger.Warn("no zone match for county",
		"state", d.State, "name", d.Name, "key", d.Key, "nearest", d.Nearest)
	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, d); err != nil {
		p.logger.Warn("publish no-match diagnostic failed", "error", err)
	}
}
