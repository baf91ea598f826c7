// Package testutil provides deterministic signal generators and tolerance
// helpers shared by the filter and measurement tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine tone.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// TwoTone generates the sum of two deterministic sine tones, both at the
// given amplitude.
func TwoTone(freqA, freqB, sampleRate, amplitude float64, length int) []float64 {
	out := Sine(freqA, sampleRate, amplitude, length)
	second := Sine(freqB, sampleRate, amplitude, length)

	for i := range out {
		out[i] += second[i]
	}

	return out
}

// Impulse generates a unit impulse at sample zero.
func Impulse(length int) []float64 {
	out := make([]float64, length)
	if length > 0 {
		out[0] = 1
	}

	return out
}

// WhiteNoise generates seeded uniform noise in [-amplitude, amplitude].
func WhiteNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// RMS returns the root-mean-square level of the signal after skipping the
// first warmup samples.
func RMS(signal []float64, warmup int) float64 {
	if warmup < 0 {
		warmup = 0
	}

	if warmup >= len(signal) {
		return 0
	}

	var sum float64
	for _, v := range signal[warmup:] {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(signal)-warmup))
}
