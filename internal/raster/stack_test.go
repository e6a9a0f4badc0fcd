package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStack builds a 4x4 north-up grid with origin (10, 50) and 0.5-degree
// cells. Cell values encode their position as row*10+col; cell (1,1) holds
// the no-data sentinel.
func testStack(t *testing.T) *Stack {
	t.Helper()

	const noData = -9999.0
	band := make([]float64, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			band[row*4+col] = float64(row*10 + col)
		}
	}
	band[1*4+1] = noData

	gt := GeoTransform{10.0, 0.5, 0, 50.0, 0, -0.5}
	s, err := NewStack(gt, 4, 4, noData, true, [][]float64{band})
	require.NoError(t, err)
	return s
}

func TestStack_CellIndex(t *testing.T) {
	s := testStack(t)

	tests := []struct {
		name     string
		x, y     float64
		row, col int
	}{
		{"exactly on origin", 10.0, 50.0, 0, 0},
		{"inside top-left cell", 10.25, 49.75, 0, 0},
		{"interior cell", 11.9, 48.1, 3, 3},
		{"west of extent", 9.0, 49.0, 2, -2},
		{"north of extent", 11.0, 51.0, -2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := s.CellIndex(tt.x, tt.y)
			assert.Equal(t, tt.row, row, "row")
			assert.Equal(t, tt.col, col, "col")
		})
	}
}

func TestStack_Sample(t *testing.T) {
	s := testStack(t)

	t.Run("origin returns top-left cell", func(t *testing.T) {
		row, col := s.CellIndex(10.0, 50.0)
		sample := s.Sample(1, row, col)
		require.True(t, sample.Valid)
		assert.Equal(t, 0.0, sample.Value)
	})

	t.Run("interior cell", func(t *testing.T) {
		sample := s.Sample(1, 2, 3)
		require.True(t, sample.Valid)
		assert.Equal(t, 23.0, sample.Value)
	})

	t.Run("far outside extent", func(t *testing.T) {
		row, col := s.CellIndex(-120.0, -45.0)
		assert.False(t, s.Contains(row, col))
		assert.False(t, s.Sample(1, row, col).Valid)
	})

	t.Run("no-data cell indistinguishable from out-of-bounds", func(t *testing.T) {
		inside := s.Sample(1, 1, 1)    // sentinel cell
		outside := s.Sample(1, -1, -1) // out of extent
		assert.Equal(t, outside, inside)
		assert.False(t, inside.Valid)
	})

	t.Run("NaN cell is invalid", func(t *testing.T) {
		band := []float64{math.NaN()}
		s, err := NewStack(GeoTransform{0, 1, 0, 0, 0, -1}, 1, 1, 0, false, [][]float64{band})
		require.NoError(t, err)
		assert.False(t, s.Sample(1, 0, 0).Valid)
	})
}

func TestStack_MultiBand(t *testing.T) {
	gt := GeoTransform{0, 1, 0, 0, 0, -1}
	bands := [][]float64{
		{273.15, 274.15, 275.15, 276.15},
		{280.0, 281.0, 282.0, 283.0},
	}
	s, err := NewStack(gt, 2, 2, -9999, true, bands)
	require.NoError(t, err)
	require.Equal(t, 2, s.Bands())

	first := s.Sample(1, 1, 0)
	second := s.Sample(2, 1, 0)
	require.True(t, first.Valid)
	require.True(t, second.Valid)
	assert.Equal(t, 275.15, first.Value)
	assert.Equal(t, 282.0, second.Value)
}

func TestNewStack_Validation(t *testing.T) {
	gt := GeoTransform{0, 1, 0, 0, 0, -1}

	t.Run("band size mismatch", func(t *testing.T) {
		_, err := NewStack(gt, 2, 2, 0, false, [][]float64{{1, 2, 3}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "band 1")
	})

	t.Run("no bands", func(t *testing.T) {
		_, err := NewStack(gt, 2, 2, 0, false, nil)
		assert.Error(t, err)
	})

	t.Run("zero dimensions", func(t *testing.T) {
		_, err := NewStack(gt, 0, 2, 0, false, [][]float64{{}})
		assert.Error(t, err)
	})

	t.Run("degenerate transform", func(t *testing.T) {
		_, err := NewStack(GeoTransform{0, 0, 0, 0, 0, 0}, 1, 1, 0, false, [][]float64{{1}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not invertible")
	})
}
