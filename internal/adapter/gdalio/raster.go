// Package gdalio reads the raster stack and GeoPackage point layers
// through GDAL/OGR. All raster data is decoded into memory up front so the
// GDAL handle can be released before point processing starts.
package gdalio

import (
	"fmt"
	"log/slog"

	"github.com/lukeroth/gdal"

	"github.com/couchcryptid/climate-raster-etl/internal/raster"
)

// OpenStack reads every band of the raster at path into an in-memory
// stack. The no-data sentinel is taken from band 1 and assumed to apply to
// all bands, matching the one-variable-per-file convention. The dataset is
// closed before returning, so the returned stack is the only handle kept
// for the rest of the run.
func OpenStack(path string, logger *slog.Logger) (*raster.Stack, error) {
	ds, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("open raster %s: %w", path, err)
	}
	defer ds.Close()

	width := ds.RasterXSize()
	height := ds.RasterYSize()
	count := ds.RasterCount()
	if count == 0 {
		return nil, fmt.Errorf("raster %s has no bands", path)
	}

	gt := raster.GeoTransform(ds.GeoTransform())
	noData, hasNoData := ds.RasterBand(1).NoDataValue()

	bands := make([][]float64, count)
	for i := 1; i <= count; i++ {
		buf := make([]float64, width*height)
		band := ds.RasterBand(i)
		if err := band.IO(gdal.Read, 0, 0, width, height, buf, width, height, 0, 0); err != nil {
			return nil, fmt.Errorf("read band %d of %s: %w", i, path, err)
		}
		bands[i-1] = buf
	}

	logger.Info("raster loaded",
		"path", path,
		"bands", count,
		"width", width,
		"height", height,
		"nodata", noData,
		"has_nodata", hasNoData,
	)

	return raster.NewStack(gt, width, height, noData, hasNoData, bands)
}
