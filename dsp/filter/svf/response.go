package svf

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) of the linear
// recurrence at the given frequency in Hz.
//
// Trapezoidal integration is the bilinear transform, so the discrete
// response equals the analog prototype evaluated at the prewarped
// frequency s = j*tan(pi*f/fs)/g. That makes this exact for
// VariantLinear, including mid-ramp coefficient states; for
// VariantSaturated it describes the small-signal response.
func (f *Filter) Response(freqHz float64) complex128 {
	g, k := f.cur.g, f.cur.k

	ratio := freqHz / f.sampleRate
	if ratio < 0 {
		ratio = 0
	}

	if ratio > maxCutoffRatio {
		ratio = maxCutoffRatio
	}

	s := complex(0, math.Tan(math.Pi*ratio)/g)

	den := s*s + complex(k, 0)*s + 1
	bp := s / den
	lp := 1 / den

	h := complex(f.cur.m0, 0) + complex(f.cur.m1, 0)*bp + complex(f.cur.m2, 0)*lp

	return complex(f.cur.out, 0) * h
}

// MagnitudeDB returns 20*log10(|H(f)|).
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freqHz)))
}

// Phase returns the phase response in radians at the given frequency, in
// [-pi, pi].
func (f *Filter) Phase(freqHz float64) float64 {
	return cmplx.Phase(f.Response(freqHz))
}

// ImpulseResponse computes n samples of the impulse response by feeding an
// impulse through the filter. State, ramp progress, and coefficients are
// saved and restored, so this method does not disturb a running filter.
func (f *Filter) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	savedState := f.state
	savedCur := f.cur
	savedDst := f.dst
	savedStep := f.step
	savedRemaining := f.rampRemaining

	var savedUp, savedDown State

	f.state = State{}
	f.cancelRamp()

	if f.antiAliasUp != nil {
		savedUp = f.antiAliasUp.State()
		f.antiAliasUp.Reset()
	}

	if f.antiAliasDown != nil {
		savedDown = f.antiAliasDown.State()
		f.antiAliasDown.Reset()
	}

	ir := make([]float64, n)
	ir[0] = f.ProcessSample(1)

	for i := 1; i < n; i++ {
		ir[i] = f.ProcessSample(0)
	}

	f.state = savedState
	f.cur = savedCur
	f.dst = savedDst
	f.step = savedStep
	f.rampRemaining = savedRemaining
	f.updateDerived()

	if f.antiAliasUp != nil {
		_ = f.antiAliasUp.SetState(savedUp)
	}

	if f.antiAliasDown != nil {
		_ = f.antiAliasDown.SetState(savedDown)
	}

	return ir
}
