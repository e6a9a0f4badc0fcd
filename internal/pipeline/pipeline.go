package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-raster-etl/internal/domain"
	"github.com/couchcryptid/climate-raster-etl/internal/observability"
)

// PointSource reads the observation points from the vector layer.
type PointSource interface {
	ReadPoints(ctx context.Context) ([]domain.Point, error)
}

// RowSink receives extraction results. Begin is called exactly once with
// the ordered month labels before any rows.
type RowSink interface {
	Begin(months []domain.MonthKey) error
	WriteRow(ctx context.Context, row domain.OutputRow) error
}

// Pipeline runs the extraction engine over every point in the source and
// streams the rows to the sinks. Points are processed sequentially; a
// per-point problem degrades to empty cells while source and sink failures
// abort the run.
type Pipeline struct {
	source  PointSource
	engine  *Engine
	sinks   []RowSink
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline with the given source, engine, and sinks.
func New(source PointSource, engine *Engine, sinks []RowSink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		engine:  engine,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the pipeline has emitted at least one row.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any points yet")
	}
	return nil
}

// Run reads all points, extracts one row per point, and writes every row to
// every sink. Returns the first source or sink error.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	points, err := p.source.ReadPoints(ctx)
	if err != nil {
		return fmt.Errorf("read point layer: %w", err)
	}
	if len(points) == 0 {
		return errors.New("point layer holds no features")
	}
	p.warnDuplicateIDs(points)

	months := p.engine.Months()
	p.logger.Info("extraction starting",
		"points", len(points),
		"bands", len(months),
		"first_month", months[0].String(),
		"last_month", months[len(months)-1].String(),
	)

	for _, sink := range p.sinks {
		if err := sink.Begin(months); err != nil {
			return fmt.Errorf("begin output: %w", err)
		}
	}

	for _, pt := range points {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := p.engine.ExtractPoint(pt)
		for _, sink := range p.sinks {
			if err := sink.WriteRow(ctx, row); err != nil {
				return fmt.Errorf("write row for point %q: %w", pt.ID, err)
			}
		}
		p.metrics.PointsProcessed.Inc()
		p.ready.Store(true)
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("extraction complete", "points", len(points), "duration", time.Since(start))
	return nil
}

// warnDuplicateIDs flags repeated point IDs. Uniqueness is the layer
// author's responsibility; duplicates are reported but not rejected.
func (p *Pipeline) warnDuplicateIDs(points []domain.Point) {
	seen := make(map[string]struct{}, len(points))
	for _, pt := range points {
		if _, dup := seen[pt.ID]; dup {
			p.logger.Warn("duplicate point ID in layer", "point_id", pt.ID)
			continue
		}
		seen[pt.ID] = struct{}{}
	}
}
