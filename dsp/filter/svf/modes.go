package svf

import "math"

// Mode selects which second-order response the filter outputs. Every mode
// is a fixed mixing triple (m0, m1, m2) over the input and the two
// integrator taps, so switching modes never disturbs filter state.
type Mode int

const (
	// ModeLowpass passes frequencies below cutoff (-12 dB/octave above).
	ModeLowpass Mode = iota
	// ModeHighpass passes frequencies above cutoff.
	ModeHighpass
	// ModeBandpass passes a band around cutoff with peak gain Q.
	ModeBandpass
	// ModeNotch rejects a band around cutoff.
	ModeNotch
	// ModePeak is the highpass-minus-lowpass resonator response.
	ModePeak
	// ModeAllpass passes all frequencies with a phase rotation at cutoff.
	ModeAllpass
	// ModeBell boosts or cuts a band around cutoff by the gain parameter.
	ModeBell
	// ModeLowShelf boosts or cuts below cutoff by the gain parameter.
	ModeLowShelf
	// ModeHighShelf boosts or cuts above cutoff by the gain parameter.
	ModeHighShelf
)

func (m Mode) String() string {
	switch m {
	case ModeLowpass:
		return "lowpass"
	case ModeHighpass:
		return "highpass"
	case ModeBandpass:
		return "bandpass"
	case ModeNotch:
		return "notch"
	case ModePeak:
		return "peak"
	case ModeAllpass:
		return "allpass"
	case ModeBell:
		return "bell"
	case ModeLowShelf:
		return "lowshelf"
	case ModeHighShelf:
		return "highshelf"
	default:
		return "unknown"
	}
}

// hasShelfGain reports whether the mode folds the gain parameter into the
// mixing triple instead of applying it as output gain.
func (m Mode) hasShelfGain() bool {
	return m == ModeBell || m == ModeLowShelf || m == ModeHighShelf
}

func validMode(mode Mode) bool {
	return mode >= ModeLowpass && mode <= ModeHighShelf
}

// coeffSet is the smoothable coefficient state: the prewarped integrator
// gain g, the damping k, the output mixing triple, and the output gain.
// The integrator gains a1..a3 are derived from g and k.
type coeffSet struct {
	g   float64
	k   float64
	m0  float64
	m1  float64
	m2  float64
	out float64
}

// deriveCoeffs maps {mode, cutoff, Q, gain, sample rate} to a coefficient
// set. Cutoff is prewarped with tan(pi*fc/fs); the ratio is clamped to
// 0.499 so tan stays finite under ramped or oversampled operation.
func deriveCoeffs(mode Mode, cutoffHz, q, gainDB, sampleRate float64) coeffSet {
	ratio := cutoffHz / sampleRate
	if ratio < 0 {
		ratio = 0
	}

	if ratio > maxCutoffRatio {
		ratio = maxCutoffRatio
	}

	g := math.Tan(math.Pi * ratio)
	k := 1 / q

	c := coeffSet{g: g, k: k, out: 1}

	switch mode {
	case ModeLowpass:
		c.m0, c.m1, c.m2 = 0, 0, 1
	case ModeHighpass:
		c.m0, c.m1, c.m2 = 1, -k, -1
	case ModeBandpass:
		c.m0, c.m1, c.m2 = 0, 1, 0
	case ModeNotch:
		c.m0, c.m1, c.m2 = 1, -k, 0
	case ModePeak:
		c.m0, c.m1, c.m2 = 1, -k, -2
	case ModeAllpass:
		c.m0, c.m1, c.m2 = 1, -2*k, 0
	case ModeBell:
		a := math.Pow(10, gainDB/40)
		c.k = 1 / (q * a)
		c.m0, c.m1, c.m2 = 1, c.k*(a*a-1), 0
	case ModeLowShelf:
		a := math.Pow(10, gainDB/40)
		c.g = g / math.Sqrt(a)
		c.m0, c.m1, c.m2 = 1, k*(a-1), a*a-1
	case ModeHighShelf:
		a := math.Pow(10, gainDB/40)
		c.g = g * math.Sqrt(a)
		c.m0, c.m1, c.m2 = a*a, k*(1-a)*a, 1-a*a
	}

	if !mode.hasShelfGain() {
		c.out = math.Pow(10, gainDB/20)
	}

	return c
}
