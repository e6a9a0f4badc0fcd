// Command extract samples a multi-band monthly climate raster at every
// point of an observation layer and writes one CSV row per point: the full
// converted monthly series plus the value matching each point's own
// observation date.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/couchcryptid/climate-raster-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/climate-raster-etl/internal/adapter/gdalio"
	httpadapter "github.com/couchcryptid/climate-raster-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-raster-etl/internal/adapter/kafka"
	shpadapter "github.com/couchcryptid/climate-raster-etl/internal/adapter/shp"
	"github.com/couchcryptid/climate-raster-etl/internal/config"
	"github.com/couchcryptid/climate-raster-etl/internal/domain"
	"github.com/couchcryptid/climate-raster-etl/internal/observability"
	"github.com/couchcryptid/climate-raster-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The raster is decoded fully into memory and the GDAL handle released
	// before any point processing starts.
	stack, err := gdalio.OpenStack(cfg.RasterPath(), logger)
	if err != nil {
		logger.Error("failed to load raster", "error", err)
		os.Exit(1)
	}
	metrics.RasterBands.Set(float64(stack.Bands()))

	calendar := domain.NewBandCalendar(cfg.StartMonth, stack.Bands())

	source, err := newPointSource(cfg, logger)
	if err != nil {
		logger.Error("failed to configure point source", "error", err)
		os.Exit(1)
	}

	engine := pipeline.NewEngine(stack, calendar, cfg.Variable, cfg.DateFormat, logger, metrics)

	outPath := csvfile.OutputPath(cfg.OutputDir, cfg.Variable)
	csvSink, err := csvfile.NewWriter(outPath, cfg.IDField, cfg.NameField, cfg.DateField)
	if err != nil {
		logger.Error("failed to create output file", "error", err)
		os.Exit(1)
	}

	sinks := []pipeline.RowSink{csvSink}
	var kafkaSink *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaSink = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, kafkaSink)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(source, engine, sinks, logger, metrics)

	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)

	if err := csvSink.Close(); err != nil {
		logger.Error("output file close error", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		cancel()
	}

	if runErr != nil {
		logger.Error("extraction failed", "error", runErr)
		os.Exit(1)
	}
	logger.Info("output written", "path", outPath)
}

// newPointSource picks the reader for the point layer by file extension:
// GeoPackage goes through OGR, shapefiles through the pure-Go decoder.
func newPointSource(cfg *config.Config, logger *slog.Logger) (pipeline.PointSource, error) {
	switch strings.ToLower(filepath.Ext(cfg.PointFile)) {
	case ".gpkg":
		return gdalio.NewPointSource(cfg.PointPath(), cfg.IDField, cfg.NameField, cfg.DateField, logger), nil
	case ".shp":
		return shpadapter.NewPointSource(cfg.PointPath(), cfg.IDField, cfg.NameField, cfg.DateField, logger), nil
	default:
		return nil, fmt.Errorf("unsupported point file %q (want .gpkg or .shp)", cfg.PointFile)
	}
}
