package domain

import "fmt"

// VariableKind selects the unit conversion applied to raw raster values.
// One raster holds one variable, so the kind is fixed for a whole run.
type VariableKind string

const (
	// Temperature is ERA-5 monthly average 2m temperature, stored in Kelvin.
	Temperature VariableKind = "temperature"
	// Precipitation is ERA-5 monthly total precipitation, stored in meters.
	Precipitation VariableKind = "precipitation"
)

// ParseVariableKind accepts the full names plus the short aliases used by
// the ERA-5 download tooling ("temp", "precip").
func ParseVariableKind(s string) (VariableKind, error) {
	switch s {
	case "temperature", "temp":
		return Temperature, nil
	case "precipitation", "precip":
		return Precipitation, nil
	default:
		return "", fmt.Errorf("unknown variable kind %q (want temperature or precipitation)", s)
	}
}

// Convert maps a raw band value into reporting units: Kelvin to Celsius for
// temperature, meters to millimeters for precipitation.
func (v VariableKind) Convert(raw float64) float64 {
	switch v {
	case Temperature:
		return raw - 273.15
	case Precipitation:
		return raw * 1000
	default:
		return raw
	}
}

// ConvertSample converts a valid sample and passes invalid ones through
// untouched; the conversion is never applied to the no-data sentinel.
func (v VariableKind) ConvertSample(s Sample) Sample {
	if !s.Valid {
		return s
	}
	return Sample{Value: v.Convert(s.Value), Valid: true}
}
