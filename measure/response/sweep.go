package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by measurement functions.
var (
	ErrInvalidFrequency  = errors.New("response: frequency must be positive")
	ErrInvalidDuration   = errors.New("response: duration must be positive")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrFrequencyOrder    = errors.New("response: start frequency must be less than end frequency")
	ErrNilProcessor      = errors.New("response: processor must not be nil")
	ErrInvalidLength     = errors.New("response: length must be positive")
	ErrInvalidPoints     = errors.New("response: curve needs at least 2 points")
)

// Sweep describes a logarithmic sine sweep used as the excitation signal.
//
// The instantaneous frequency rises exponentially from StartFreqHz to
// EndFreqHz over Duration seconds:
//
//	f(t) = f1 * exp(t/T * ln(f2/f1))
type Sweep struct {
	StartFreqHz float64 // first excited frequency in Hz
	EndFreqHz   float64 // last excited frequency in Hz
	Duration    float64 // sweep length in seconds
	SampleRate  float64 // sample rate in Hz
}

// Validate checks that the sweep parameters are usable.
func (s *Sweep) Validate() error {
	if s.StartFreqHz <= 0 || s.EndFreqHz <= 0 {
		return ErrInvalidFrequency
	}

	if s.StartFreqHz >= s.EndFreqHz {
		return ErrFrequencyOrder
	}

	if s.Duration <= 0 {
		return ErrInvalidDuration
	}

	if s.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	return nil
}

func (s *Sweep) samples() int {
	return int(math.Round(s.Duration * s.SampleRate))
}

// Generate renders the sweep signal. Integrating the exponential
// instantaneous frequency gives the phase
//
//	phi(t) = 2*pi * f1 * T / ln(f2/f1) * (exp(t/T * ln(f2/f1)) - 1)
func (s *Sweep) Generate() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, s.samples())

	T := s.Duration
	lnRatio := math.Log(s.EndFreqHz / s.StartFreqHz)

	for i := range out {
		t := float64(i) / s.SampleRate
		phase := 2 * math.Pi * s.StartFreqHz * T / lnRatio * (math.Exp(t/T*lnRatio) - 1)
		out[i] = math.Sin(phase)
	}

	return out, nil
}

// inverseFilter builds the deconvolution filter for the sweep: the
// time-reversed sweep with a 6 dB/octave amplitude tilt that compensates
// the pink energy distribution of the log sweep, scaled so that
// sweep * inverse has unit magnitude across the excited band.
func (s *Sweep) inverseFilter() ([]float64, error) {
	sweep, err := s.Generate()
	if err != nil {
		return nil, err
	}

	n := len(sweep)
	inv := make([]float64, n)

	T := s.Duration
	lnRatio := math.Log(s.EndFreqHz / s.StartFreqHz)

	// The envelope is proportional to the instantaneous frequency of the
	// underlying sweep sample. The stationary-phase magnitude of the
	// sweep is |X(f)|^2 = T/(4*lnRatio*f), so this tilt makes
	// |X(f)*Inv(f)| flat; the scale below brings it to exactly one.
	scale := 4 * lnRatio / (T * s.SampleRate * s.SampleRate)

	for i := range inv {
		j := n - 1 - i
		t := float64(j) / s.SampleRate
		fInst := s.StartFreqHz * math.Exp(t/T*lnRatio)
		inv[i] = sweep[j] * fInst
	}

	vecmath.ScaleBlock(inv, inv, scale)

	return inv, nil
}

// deconvolve convolves the recorded response with the inverse filter via
// FFT and returns the full linear convolution. The linear impulse
// response peak sits at offset len(inverse)-1.
func (s *Sweep) deconvolve(recorded []float64) ([]float64, error) {
	inv, err := s.inverseFilter()
	if err != nil {
		return nil, err
	}

	n := len(recorded) + len(inv) - 1
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	recFreq, err := forwardPadded(plan, recorded, fftSize)
	if err != nil {
		return nil, err
	}

	invFreq, err := forwardPadded(plan, inv, fftSize)
	if err != nil {
		return nil, err
	}

	for i := range recFreq {
		recFreq[i] *= invFreq[i]
	}

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, recFreq); err != nil {
		return nil, fmt.Errorf("response: inverse FFT failed: %w", err)
	}

	result := make([]float64, n)
	for i := range result {
		result[i] = real(resultTime[i])
	}

	return result, nil
}

func forwardPadded(plan *algofft.Plan[complex128], signal []float64, fftSize int) ([]complex128, error) {
	padded := make([]complex128, fftSize)
	for i, v := range signal {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	return freq, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}
