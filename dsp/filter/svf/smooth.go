package svf

import "math"

// Coefficient smoothing. The SetTarget* methods validate like their
// immediate counterparts but ramp the coefficient set linearly over the
// configured smoothing time instead of jumping, which keeps fast
// automation free of zipper noise. The integrator gains are recomputed
// from the ramped g and k every step, so the recurrence stays stable
// mid-ramp. Mode and variant changes are never smoothed.

// SetTargetCutoffHz ramps the filter toward a new cutoff frequency.
func (f *Filter) SetTargetCutoffHz(cutoffHz float64) error {
	if err := f.validateCutoff(cutoffHz); err != nil {
		return err
	}

	f.cutoffHz = cutoffHz
	f.beginRamp()

	return nil
}

// SetTargetQ ramps the filter toward a new quality factor.
func (f *Filter) SetTargetQ(q float64) error {
	if err := validateFiniteRange(q, minQ, maxQ, "Q"); err != nil {
		return err
	}

	f.q = q
	f.beginRamp()

	return nil
}

// SetTargetGainDB ramps the filter toward a new gain.
func (f *Filter) SetTargetGainDB(gainDB float64) error {
	if err := validateFiniteRange(gainDB, minGainDB, maxGainDB, "gain"); err != nil {
		return err
	}

	f.gainDB = gainDB
	f.beginRamp()

	return nil
}

// IsRamping reports whether a coefficient ramp is in progress.
func (f *Filter) IsRamping() bool {
	return f.rampRemaining > 0
}

// smoothingSamples returns the ramp span for the current configuration.
func (f *Filter) smoothingSamples() int {
	n := int(math.Ceil(f.smoothingTime * f.sampleRate))
	if n < minSmoothingSamples {
		n = minSmoothingSamples
	}

	return n
}

func (f *Filter) beginRamp() {
	effectiveRate := f.sampleRate
	if f.variant == VariantSaturated {
		effectiveRate *= float64(f.overSampling)
	}

	f.dst = deriveCoeffs(f.mode, f.cutoffHz, f.q, f.gainDB, effectiveRate)

	n := f.smoothingSamples()
	inv := 1 / float64(n)

	f.step = coeffSet{
		g:   (f.dst.g - f.cur.g) * inv,
		k:   (f.dst.k - f.cur.k) * inv,
		m0:  (f.dst.m0 - f.cur.m0) * inv,
		m1:  (f.dst.m1 - f.cur.m1) * inv,
		m2:  (f.dst.m2 - f.cur.m2) * inv,
		out: (f.dst.out - f.cur.out) * inv,
	}
	f.rampRemaining = n
}

func (f *Filter) advanceRamp() {
	if f.rampRemaining <= 0 {
		return
	}

	f.rampRemaining--
	if f.rampRemaining == 0 {
		// Snap to the exact target so ramps never leave residual drift.
		f.cur = f.dst
	} else {
		f.cur.g += f.step.g
		f.cur.k += f.step.k
		f.cur.m0 += f.step.m0
		f.cur.m1 += f.step.m1
		f.cur.m2 += f.step.m2
		f.cur.out += f.step.out
	}

	f.updateDerived()
}

func (f *Filter) cancelRamp() {
	f.rampRemaining = 0
	f.dst = f.cur
	f.step = coeffSet{}
}
