package svf

import "math"

// Normalized control mapping. These functions convert the unitless [0, 1]
// knob positions of a typical filter control surface into the parameter
// units the filter consumes, and back. The cutoff map is logarithmic over
// 13 Hz..21 kHz; the resonance map is a reversed skewed curve so most of
// the knob travel covers the musically useful low-Q range.

const (
	// CutoffMapMinHz is the cutoff at normalized position 0.
	CutoffMapMinHz = 13.0
	// CutoffMapMaxHz is the cutoff at normalized position 1.
	CutoffMapMaxHz = 21000.0

	resMapMin    = 0.02
	resMapMax    = 1.0
	resMapFactor = 0.37
)

// CutoffHzFromNormalized maps a knob position in [0, 1] to cutoff in Hz on
// a logarithmic scale from 13 Hz to 21 kHz. Positions outside [0, 1] are
// clamped.
func CutoffHzFromNormalized(x float64) float64 {
	x = clamp01(x)
	return CutoffMapMinHz * math.Pow(CutoffMapMaxHz/CutoffMapMinHz, x)
}

// NormalizedFromCutoffHz is the inverse of [CutoffHzFromNormalized].
// Frequencies outside the map range are clamped.
func NormalizedFromCutoffHz(cutoffHz float64) float64 {
	if cutoffHz <= CutoffMapMinHz {
		return 0
	}

	if cutoffHz >= CutoffMapMaxHz {
		return 1
	}

	return math.Log(cutoffHz/CutoffMapMinHz) / math.Log(CutoffMapMaxHz/CutoffMapMinHz)
}

// QFromNormalized maps a knob position in [0, 1] to a quality factor.
// The curve is reversed (0 is the least resonant position) and skewed;
// Q crosses 1 near position 0.23 and grows steeply toward the top of the
// travel. Positions outside [0, 1] are clamped.
func QFromNormalized(x float64) float64 {
	x = clamp01(x)
	damping := 2 * skewedResonance(1-x)

	return 1 / damping
}

// NormalizedFromQ is the inverse of [QFromNormalized]. Out-of-range
// quality factors are clamped to the map limits.
func NormalizedFromQ(q float64) float64 {
	if q <= 0 {
		return 0
	}

	res := 1 / (2 * q)
	if res >= resMapMax {
		return 0
	}

	if res <= resMapMin {
		return 1
	}

	t := (res - resMapMin) / (resMapMax - resMapMin)

	return 1 - math.Pow(t, resMapFactor)
}

// GainDBFromNormalized maps a knob position in [0, 1] linearly to
// [-30, +30] dB. Positions outside [0, 1] are clamped.
func GainDBFromNormalized(x float64) float64 {
	x = clamp01(x)
	return minGainDB + (maxGainDB-minGainDB)*x
}

// NormalizedFromGainDB is the inverse of [GainDBFromNormalized]. Gains
// outside [-30, +30] dB are clamped.
func NormalizedFromGainDB(gainDB float64) float64 {
	return clamp01((gainDB - minGainDB) / (maxGainDB - minGainDB))
}

// skewedResonance evaluates the skewed resonance curve at a normalized
// position in [0, 1], returning a damping contribution in [0.02, 1].
func skewedResonance(x float64) float64 {
	return resMapMin + (resMapMax-resMapMin)*math.Pow(x, 1/resMapFactor)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}

	if x > 1 {
		return 1
	}

	return x
}
