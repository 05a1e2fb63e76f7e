package esmutils

import (
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

// scaleToUint multiplies and rounds. No negative values, NaN counts as 0.
func scaleToUint[F constraints.Float](v F, factor F) uint32 {
	scaled := float64(v * factor)
	if math.IsNaN(scaled) || scaled < 0 {
		return 0
	}
	if scaled > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(math.Round(scaled))
}

// No negative values
func KwToW[F constraints.Float](kw F) uint32 {
	return scaleToUint(kw, 1000)
}

// Convert m3 to dm3 for storage - No negative values
func M3ToDM3[F constraints.Float](m3 F) uint32 {
	return scaleToUint(m3, 1000) // 1 m³ = 1000 dm³
}

// ToWattOrWh converts a power (kW, W) or energy (kWh, Wh) reading to W or Wh.
// Returns false for any other unit.
func ToWattOrWh[F constraints.Float](v F, unit string) (uint32, bool) {
	switch strings.ToLower(unit) {
	case "kw", "kwh":
		return KwToW(v), true
	case "w", "wh":
		return scaleToUint(v, 1), true
	}
	return 0, false
}

// ToDM3 converts a volume reading (m3, dm3) to dm3. Returns false for any other unit.
func ToDM3[F constraints.Float](v F, unit string) (uint32, bool) {
	switch strings.ToLower(unit) {
	case "m3":
		return M3ToDM3(v), true
	case "dm3":
		return scaleToUint(v, 1), true
	}
	return 0, false
}

// ToSeconds converts a duration with unit s, min or h. Returns false for any other unit.
func ToSeconds[I constraints.Integer](v I, unit string) (int64, bool) {
	switch strings.ToLower(unit) {
	case "s":
		return int64(v), true
	case "min":
		return int64(v) * 60, true
	case "h":
		return int64(v) * 3600, true
	}
	return 0, false
}
