// Package response measures the transfer function of a black-box audio
// processor with logarithmic sine sweeps.
//
// A log sweep spends equal time in every octave, so a single pass excites
// the whole band of interest. Deconvolving the processed sweep against the
// sweep's inverse filter yields the processor's impulse response, and an
// FFT of that impulse response yields its magnitude response. The package
// exposes both steps: MeasureImpulseResponse for the raw IR and
// MeasureMagnitude for a log-spaced magnitude curve, which is the data a
// Bode plot draws.
//
// Any type with a ProcessInPlace([]float64) method can be measured, which
// covers the filters in this module and ad-hoc closures via ProcessorFunc.
package response
