// Package domain models ERA-5 reanalysis extraction at point locations.
//
// # Data Source
//
// Rasters are ERA-5 single-level monthly means downloaded from the Copernicus
// Climate Data Store, one variable per file (2m temperature or total
// precipitation), one band per calendar month. The files carry no per-band
// time metadata, so the band-to-month mapping is derived: the operator
// supplies the first month ("YYYY-MM") and bands are assumed consecutive and
// gap-free from there. See [NewBandCalendar].
//
// # Point Layer Conventions
//
// Observation points arrive as a GeoPackage or shapefile in the same WGS 84
// reference as the raster, with three attribute columns: a unique ID, a
// display name, and an observation date string.
//
// Date format:
//
//	Either "YYYY-MM-DD" or "DD-MM-YYYY". The two are distinguished by a
//	positional heuristic: a 4-character first field means year-first.
//	The heuristic can be overridden with an explicit format setting.
//	See [ParseObservationDate].
//
// # Units
//
//	Temperature:   stored in Kelvin, reported in Celsius (K − 273.15).
//	Precipitation: stored in meters, reported in millimeters (m × 1000).
//
// # Null Policy
//
// A point outside the raster extent and a point landing on a no-data cell
// both produce an invalid [Sample]; the two cases are intentionally not
// distinguished. An unparseable or out-of-span observation date leaves only
// the matched value empty — the monthly series is still extracted. Neither
// condition aborts a run.
package domain
