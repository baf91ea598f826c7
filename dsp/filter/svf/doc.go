// Package svf provides an analog-modeled state-variable filter built on
// trapezoidal integration (the Cytomic/Simper topology-preserving
// transform).
//
// The filter advances two coupled integrators per sample and derives all
// classic second-order responses from the same state: lowpass, highpass,
// bandpass, notch, peak, allpass, bell, and low/high shelving. Cutoff is
// prewarped with tan(pi*fc/fs), so the response stays accurate up to high
// cutoff-to-sample-rate ratios.
//
// Supported variants:
//   - VariantLinear:
//     Pure linear TPT recurrence. Cheapest, exact analytic response.
//   - VariantSaturated:
//     Input drive with tanh output saturation and bounded integrator
//     state, for overdriven/self-limiting behavior. Optional oversampled
//     anti-alias processing via WithOversampling.
//
// All variants are stateful, deterministic, and support:
//   - Per-sample and in-place block processing
//   - Simultaneous multi-tap output via ProcessSampleOutputs
//   - Per-sample coefficient smoothing toward ramp targets
//   - Explicit state save/restore via State
//   - Analytic frequency response evaluation (Response, MagnitudeDB, Phase)
//   - Stereo helper with per-channel independent state
package svf
