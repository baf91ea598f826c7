package response

import (
	"fmt"
	"math"
	"sort"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// magnitudeFloorDB bounds the reported magnitude so log-domain curves
// stay finite where the measured energy underflows.
const magnitudeFloorDB = -240.0

// Processor is anything that filters a mono buffer in place. The filters
// in this module satisfy it directly.
type Processor interface {
	ProcessInPlace(buf []float64)
}

// ProcessorFunc adapts a plain function to the [Processor] interface.
type ProcessorFunc func(buf []float64)

// ProcessInPlace calls fn(buf).
func (fn ProcessorFunc) ProcessInPlace(buf []float64) { fn(buf) }

// Curve is a sampled magnitude response: MagnitudeDB[i] is the level at
// FrequencyHz[i]. Frequencies are log-spaced, ready for Bode-style plots.
type Curve struct {
	FrequencyHz []float64
	MagnitudeDB []float64
}

// MeasureImpulseResponse excites p with the sweep and deconvolves the
// processed signal into the first irLen samples of the linear impulse
// response. The processor's state is whatever the sweep left behind;
// reset it before reuse if that matters.
func (s *Sweep) MeasureImpulseResponse(p Processor, irLen int) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if p == nil {
		return nil, ErrNilProcessor
	}

	if irLen <= 0 {
		return nil, ErrInvalidLength
	}

	sweep, err := s.Generate()
	if err != nil {
		return nil, err
	}

	// Tail padding lets the processor's decay ring out into the
	// recording instead of being truncated at the sweep boundary.
	recorded := make([]float64, len(sweep)+irLen)
	copy(recorded, sweep)
	p.ProcessInPlace(recorded)

	deconv, err := s.deconvolve(recorded)
	if err != nil {
		return nil, err
	}

	mainOffset := s.samples() - 1

	ir := make([]float64, irLen)
	for i := range ir {
		if j := mainOffset + i; j < len(deconv) {
			ir[i] = deconv[j]
		}
	}

	return ir, nil
}

// MeasureMagnitude measures p and returns its magnitude response sampled
// at points log-spaced frequencies between the sweep's start and end
// frequencies.
func (s *Sweep) MeasureMagnitude(p Processor, points int) (Curve, error) {
	if points < 2 {
		return Curve{}, ErrInvalidPoints
	}

	fftSize := irFFTSize(s.SampleRate)

	ir, err := s.MeasureImpulseResponse(p, fftSize)
	if err != nil {
		return Curve{}, err
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Curve{}, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	irFreq, err := forwardPadded(plan, ir, fftSize)
	if err != nil {
		return Curve{}, err
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(irFreq[i])
		im[i] = imag(irFreq[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	binHz := make([]float64, bins)
	for i := range binHz {
		binHz[i] = float64(i) * s.SampleRate / float64(fftSize)
	}

	curve := Curve{
		FrequencyHz: logSpace(s.StartFreqHz, s.EndFreqHz, points),
		MagnitudeDB: make([]float64, points),
	}

	for i, freq := range curve.FrequencyHz {
		curve.MagnitudeDB[i] = magnitudeDB(interpolateAt(binHz, mag, freq))
	}

	return curve, nil
}

// irFFTSize picks an analysis size that gives sub-10 Hz bin resolution at
// common audio rates without ballooning small-rate measurements.
func irFFTSize(sampleRate float64) int {
	size := nextPowerOf2(int(sampleRate * 0.1))
	if size < 2048 {
		size = 2048
	}

	if size > 32768 {
		size = 32768
	}

	return size
}

// logSpace returns n log-spaced values from lo to hi inclusive.
func logSpace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	ratio := hi / lo

	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = lo * math.Pow(ratio, t)
	}

	out[n-1] = hi

	return out
}

// interpolateAt linearly interpolates y(x) at query. x must be strictly
// increasing; queries outside the range clamp to the end values.
func interpolateAt(x, y []float64, query float64) float64 {
	if query <= x[0] {
		return y[0]
	}

	if query >= x[len(x)-1] {
		return y[len(y)-1]
	}

	j := sort.SearchFloat64s(x, query)
	x0, x1 := x[j-1], x[j]
	t := (query - x0) / (x1 - x0)

	return y[j-1] + t*(y[j]-y[j-1])
}

func magnitudeDB(mag float64) float64 {
	if mag <= 0 {
		return magnitudeFloorDB
	}

	db := 20 * math.Log10(mag)
	if db < magnitudeFloorDB {
		return magnitudeFloorDB
	}

	return db
}
