// Package shp reads observation points from ESRI shapefiles with a pure-Go
// decoder, keeping shapefile inputs off the GDAL/OGR code path.
package shp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/couchcryptid/climate-raster-etl/internal/domain"
)

// PointSource reads observation points from a shapefile. It implements
// pipeline.PointSource.
type PointSource struct {
	path      string
	idField   string
	nameField string
	dateField string
	logger    *slog.Logger
}

// NewPointSource configures a reader for the shapefile at path. The three
// field names identify the ID, name, and observation-date attribute
// columns in the companion DBF.
func NewPointSource(path, idField, nameField, dateField string, logger *slog.Logger) *PointSource {
	return &PointSource{
		path:      path,
		idField:   idField,
		nameField: nameField,
		dateField: dateField,
		logger:    logger,
	}
}

// ReadPoints decodes every row of the shapefile.
func (s *PointSource) ReadPoints(ctx context.Context) ([]domain.Point, error) {
	dec, err := shp.NewDecoder(s.path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", s.path, err)
	}
	defer dec.Close()

	var points []domain.Point
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g, fields, more := dec.DecodeRowFields(s.idField, s.nameField, s.dateField)
		if !more {
			break
		}

		pt, ok := g.(geom.Point)
		if !ok {
			return nil, fmt.Errorf("shapefile %s: row %d is %T, want point geometry", s.path, len(points), g)
		}

		points = append(points, domain.Point{
			ID:      fields[s.idField],
			Name:    fields[s.nameField],
			RawDate: fields[s.dateField],
			X:       pt.X,
			Y:       pt.Y,
		})
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("decode shapefile %s: %w", s.path, err)
	}

	s.logger.Info("point layer loaded", "path", s.path, "points", len(points))
	return points, nil
}
