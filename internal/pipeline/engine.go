package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/climate-raster-etl/internal/domain"
	"github.com/couchcryptid/climate-raster-etl/internal/observability"
	"github.com/couchcryptid/climate-raster-etl/internal/raster"
)

// Engine derives one output row per point from the shared read-only raster
// stack and band calendar. It holds no per-point state, so a single engine
// can serve concurrent callers if the run is ever parallelized.
type Engine struct {
	stack    *raster.Stack
	calendar *domain.BandCalendar
	variable domain.VariableKind
	format   domain.DateFormat
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewEngine wires an extraction engine. The calendar must cover exactly the
// stack's band count.
func NewEngine(stack *raster.Stack, calendar *domain.BandCalendar, variable domain.VariableKind, format domain.DateFormat, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		stack:    stack,
		calendar: calendar,
		variable: variable,
		format:   format,
		logger:   logger,
		metrics:  metrics,
	}
}

// Months returns the ordered month labels for the output columns.
func (e *Engine) Months() []domain.MonthKey { return e.calendar.Months() }

// ExtractPoint samples every band at the point's coordinate, converts units,
// and selects the value matching the point's own observation month. A
// malformed date or a date outside the raster's time span leaves only the
// matched value empty; the monthly series is always computed. Never fails:
// all per-point problems degrade to empty cells.
func (e *Engine) ExtractPoint(p domain.Point) domain.OutputRow {
	// The cell index depends only on the coordinate, not the band, so it is
	// computed once per point and reused for every band.
	row, col := e.stack.CellIndex(p.X, p.Y)

	series := make(domain.SampledSeries, e.calendar.Bands())
	for band := 1; band <= e.calendar.Bands(); band++ {
		sample := e.stack.Sample(band, row, col)
		if !sample.Valid {
			e.metrics.NoDataSamples.Inc()
		}
		series[band-1] = e.variable.ConvertSample(sample)
	}

	var matched domain.Sample
	parsed, err := domain.ParseObservationDate(p.RawDate, e.format)
	switch {
	case err != nil:
		e.metrics.DateParseErrors.Inc()
		e.logger.Warn("unparseable observation date, matched value left empty",
			"point_id", p.ID, "date", p.RawDate, "error", err)
	default:
		if band, ok := e.calendar.BandFor(parsed.MonthKey()); ok {
			matched = series[band-1]
		}
	}
	if matched.Valid {
		e.metrics.MatchedValues.Inc()
	}

	return domain.OutputRow{
		ID:      p.ID,
		Name:    p.Name,
		RawDate: p.RawDate,
		Row:     row,
		Col:     col,
		Series:  series,
		Matched: matched,
	}
}
