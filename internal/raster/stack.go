// Package raster holds an in-memory multi-band grid and samples it at
// geographic coordinates. Band data is decoded from disk by the gdalio
// adapter; this package has no file-format knowledge, which keeps the
// sampling logic testable without GDAL.
package raster

import (
	"fmt"
	"math"

	"github.com/couchcryptid/climate-raster-etl/internal/domain"
)

// GeoTransform is the six-coefficient affine transform in GDAL order:
//
//	x = gt[0] + col*gt[1] + row*gt[2]
//	y = gt[3] + col*gt[4] + row*gt[5]
//
// gt[0], gt[3] is the origin (top-left corner), gt[1], gt[5] the cell size,
// gt[2], gt[4] the rotation terms (zero for north-up rasters).
type GeoTransform [6]float64

// inverse holds the precomputed coefficients mapping geographic coordinates
// back to fractional row/col. Computed once at stack construction; the
// per-cell lookup is then two multiply-adds per axis.
type inverse struct {
	invCol [3]float64 // col = invCol[0] + invCol[1]*x + invCol[2]*y
	invRow [3]float64
}

func invert(gt GeoTransform) (inverse, error) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return inverse{}, fmt.Errorf("geotransform %v is not invertible", gt)
	}
	return inverse{
		invCol: [3]float64{(gt[2]*gt[3] - gt[0]*gt[5]) / det, gt[5] / det, -gt[2] / det},
		invRow: [3]float64{(gt[0]*gt[4] - gt[1]*gt[3]) / det, -gt[4] / det, gt[1] / det},
	}, nil
}

// Stack is a read-only multi-band raster fully loaded into memory. All
// bands share one extent, transform, and no-data sentinel. Safe for
// concurrent reads once constructed.
type Stack struct {
	width     int
	height    int
	noData    float64
	hasNoData bool
	gt        GeoTransform
	inv       inverse
	bands     [][]float64 // band-major, then row-major
}

// NewStack builds a stack from decoded band buffers. Each band must hold
// width×height cells in row-major order. noData applies to every band when
// hasNoData is true.
func NewStack(gt GeoTransform, width, height int, noData float64, hasNoData bool, bands [][]float64) (*Stack, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions %dx%d", width, height)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster has no bands")
	}
	for i, b := range bands {
		if len(b) != width*height {
			return nil, fmt.Errorf("band %d holds %d cells, want %d", i+1, len(b), width*height)
		}
	}
	inv, err := invert(gt)
	if err != nil {
		return nil, err
	}
	return &Stack{
		width:     width,
		height:    height,
		noData:    noData,
		hasNoData: hasNoData,
		gt:        gt,
		inv:       inv,
		bands:     bands,
	}, nil
}

// Bands returns the number of bands.
func (s *Stack) Bands() int { return len(s.bands) }

// Width returns the number of columns.
func (s *Stack) Width() int { return s.width }

// Height returns the number of rows.
func (s *Stack) Height() int { return s.height }

// NoData returns the declared no-data sentinel and whether one is set.
func (s *Stack) NoData() (float64, bool) { return s.noData, s.hasNoData }

// Transform returns the forward geotransform.
func (s *Stack) Transform() GeoTransform { return s.gt }

// CellIndex maps a geographic coordinate to integer grid indices via the
// inverse transform, flooring to the containing cell. The result may lie
// outside the grid; callers check with Contains.
func (s *Stack) CellIndex(x, y float64) (row, col int) {
	fcol := s.inv.invCol[0] + s.inv.invCol[1]*x + s.inv.invCol[2]*y
	frow := s.inv.invRow[0] + s.inv.invRow[1]*x + s.inv.invRow[2]*y
	return int(math.Floor(frow)), int(math.Floor(fcol))
}

// Contains reports whether the cell indices fall inside the grid.
func (s *Stack) Contains(row, col int) bool {
	return row >= 0 && row < s.height && col >= 0 && col < s.width
}

// Sample returns the raw cell value at (row, col) in the given 1-based
// band. Out-of-extent cells and cells holding the no-data sentinel both
// come back invalid; neither is an error.
func (s *Stack) Sample(band, row, col int) domain.Sample {
	if !s.Contains(row, col) {
		return domain.Sample{}
	}
	v := s.bands[band-1][row*s.width+col]
	if math.IsNaN(v) {
		return domain.Sample{}
	}
	if s.hasNoData && v == s.noData {
		return domain.Sample{}
	}
	return domain.Sample{Value: v, Valid: true}
}
