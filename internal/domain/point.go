package domain

// Point is one observation location read from the vector layer.
type Point struct {
	ID      string
	Name    string
	RawDate string // observation date exactly as stored in the layer
	X       float64
	Y       float64 // WGS 84, same reference as the raster
}

// Sample is one raster cell value. Valid is false when the point fell
// outside the raster extent or the cell held the no-data sentinel; the two
// cases are deliberately not distinguished.
type Sample struct {
	Value float64
	Valid bool
}

// SampledSeries holds one converted sample per raster band, ordered by band
// index (chronological by construction of the band calendar). Built fresh
// for each point, never shared.
type SampledSeries []Sample

// OutputRow is the flat per-point result destined for the table sinks.
type OutputRow struct {
	ID      string
	Name    string
	RawDate string
	Row     int // raster cell indices for the point's coordinate,
	Col     int // possibly outside [0,height)×[0,width)
	Series  SampledSeries
	Matched Sample
}
