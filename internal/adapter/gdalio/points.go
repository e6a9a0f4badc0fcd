package gdalio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lukeroth/gdal"

	"github.com/couchcryptid/climate-raster-etl/internal/domain"
)

// PointSource reads observation points from an OGR vector data source
// (GeoPackage). It implements pipeline.PointSource.
type PointSource struct {
	path      string
	idField   string
	nameField string
	dateField string
	logger    *slog.Logger
}

// NewPointSource configures a reader for the layer at path. The three
// field names identify the ID, name, and observation-date attribute
// columns.
func NewPointSource(path, idField, nameField, dateField string, logger *slog.Logger) *PointSource {
	return &PointSource{
		path:      path,
		idField:   idField,
		nameField: nameField,
		dateField: dateField,
		logger:    logger,
	}
}

// ReadPoints loads every feature of the first layer. The data source is
// opened read-only and released before returning.
func (s *PointSource) ReadPoints(ctx context.Context) ([]domain.Point, error) {
	ds := gdal.OpenDataSource(s.path, 0)
	defer ds.Destroy()

	if ds.LayerCount() == 0 {
		return nil, fmt.Errorf("point file %s has no layers", s.path)
	}
	layer := ds.LayerByIndex(0)

	count, ok := layer.FeatureCount(true)
	if !ok {
		return nil, fmt.Errorf("point file %s: feature count unavailable", s.path)
	}

	layer.ResetReading()
	points := make([]domain.Point, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		feature := layer.NextFeature()
		p, err := s.mapFeature(feature)
		feature.Destroy()
		if err != nil {
			return nil, fmt.Errorf("point file %s, feature %d: %w", s.path, i, err)
		}
		points = append(points, p)
	}

	s.logger.Info("point layer loaded", "path", s.path, "points", len(points))
	return points, nil
}

// mapFeature pulls the configured attribute columns and the geometry out
// of one feature.
func (s *PointSource) mapFeature(feature gdal.Feature) (domain.Point, error) {
	idIdx := feature.FieldIndex(s.idField)
	nameIdx := feature.FieldIndex(s.nameField)
	dateIdx := feature.FieldIndex(s.dateField)
	if idIdx < 0 || nameIdx < 0 || dateIdx < 0 {
		return domain.Point{}, fmt.Errorf("missing attribute column (want %s, %s, %s)",
			s.idField, s.nameField, s.dateField)
	}

	geom := feature.Geometry()
	if geom.IsEmpty() {
		return domain.Point{}, fmt.Errorf("feature has no geometry")
	}

	return domain.Point{
		ID:      feature.FieldAsString(idIdx),
		Name:    feature.FieldAsString(nameIdx),
		RawDate: feature.FieldAsString(dateIdx),
		X:       geom.X(0),
		Y:       geom.Y(0),
	}, nil
}
