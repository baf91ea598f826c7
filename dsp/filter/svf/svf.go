package svf

import (
	"fmt"
	"math"
)

const (
	defaultCutoffHz      = 1000.0
	defaultQ             = 1 / math.Sqrt2
	defaultGainDB        = 0.0
	defaultDrive         = 1.0
	defaultOversampling  = 1
	defaultSmoothingTime = 0.001

	minCutoffHz      = 1.0
	maxCutoffRatio   = 0.499
	minQ             = 0.05
	maxQ             = 100.0
	minGainDB        = -30.0
	maxGainDB        = 30.0
	minDrive         = 0.1
	maxDrive         = 24.0
	maxSmoothingTime = 1.0

	minSmoothingSamples = 16

	stateLimit = 32.0
)

// Variant selects the integrator processing model.
type Variant int

const (
	// VariantLinear is the pure trapezoidal-integration recurrence with an
	// exact analytic frequency response.
	VariantLinear Variant = iota
	// VariantSaturated applies input drive, tanh output saturation, and
	// bounded integrator state for overdriven behavior.
	VariantSaturated
)

func (v Variant) String() string {
	switch v {
	case VariantLinear:
		return "linear"
	case VariantSaturated:
		return "saturated"
	default:
		return "unknown"
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	mode          Mode
	variant       Variant
	cutoffHz      float64
	q             float64
	gainDB        float64
	drive         float64
	overSampling  int
	smoothingTime float64
}

func defaultConfig() config {
	return config{
		mode:          ModeLowpass,
		variant:       VariantLinear,
		cutoffHz:      defaultCutoffHz,
		q:             defaultQ,
		gainDB:        defaultGainDB,
		drive:         defaultDrive,
		overSampling:  defaultOversampling,
		smoothingTime: defaultSmoothingTime,
	}
}

// WithMode selects the output response.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if !validMode(mode) {
			return fmt.Errorf("svf: invalid mode: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithVariant selects the processing variant.
func WithVariant(variant Variant) Option {
	return func(cfg *config) error {
		if !validVariant(variant) {
			return fmt.Errorf("svf: invalid variant: %d", variant)
		}

		cfg.variant = variant

		return nil
	}
}

// WithCutoffHz sets cutoff in Hz. Must be finite, >= 1 Hz, and below
// 0.499 times the sample rate.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
			return err
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithQ sets the quality factor in [0.05, 100].
func WithQ(q float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(q, minQ, maxQ, "Q"); err != nil {
			return err
		}

		cfg.q = q

		return nil
	}
}

// WithGainDB sets gain in [-30, 30] dB. Bell and shelving modes use it as
// the boost/cut amount; all other modes apply it as plain output gain.
func WithGainDB(gainDB float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(gainDB, minGainDB, maxGainDB, "gain"); err != nil {
			return err
		}

		cfg.gainDB = gainDB

		return nil
	}
}

// WithDrive sets the input drive for VariantSaturated in [0.1, 24].
func WithDrive(drive float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(drive, minDrive, maxDrive, "drive"); err != nil {
			return err
		}

		cfg.drive = drive

		return nil
	}
}

// WithOversampling sets the oversampling mode for the saturated path.
// Allowed values: 1, 2, 4, 8.
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		if !validOversampling(factor) {
			return fmt.Errorf("svf: oversampling factor must be one of {1,2,4,8}: %d", factor)
		}

		cfg.overSampling = factor

		return nil
	}
}

// WithSmoothingTime sets the coefficient ramp duration in seconds for the
// SetTarget* methods, in [0, 1]. Ramps always span at least 16 samples.
func WithSmoothingTime(seconds float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(seconds, 0, maxSmoothingTime, "smoothing time"); err != nil {
			return err
		}

		cfg.smoothingTime = seconds

		return nil
	}
}

// State contains explicit runtime state for save/restore workflows. Ic1
// and Ic2 are the two trapezoidal integrator states; PrevInput feeds the
// interpolating upsampler of the oversampled path.
type State struct {
	Ic1       float64
	Ic2       float64
	PrevInput float64
}

// Outputs holds the simultaneous response taps of one filter step.
type Outputs struct {
	Lowpass  float64
	Bandpass float64
	Highpass float64
	Notch    float64
	Peak     float64
	Allpass  float64
}

// Filter is a second-order state-variable filter with selectable response
// mode, optional saturation, and per-sample coefficient smoothing.
type Filter struct {
	sampleRate float64

	mode          Mode
	variant       Variant
	cutoffHz      float64
	q             float64
	gainDB        float64
	drive         float64
	overSampling  int
	smoothingTime float64

	cur coeffSet
	a1  float64
	a2  float64
	a3  float64

	dst           coeffSet
	step          coeffSet
	rampRemaining int

	state State

	antiAliasUp   *Filter
	antiAliasDown *Filter
}

// New constructs a state-variable filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("svf: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		sampleRate:    sampleRate,
		mode:          cfg.mode,
		variant:       cfg.variant,
		cutoffHz:      cfg.cutoffHz,
		q:             cfg.q,
		gainDB:        cfg.gainDB,
		drive:         cfg.drive,
		overSampling:  cfg.overSampling,
		smoothingTime: cfg.smoothingTime,
	}

	if err := f.rebuild(); err != nil {
		return nil, err
	}

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Mode returns the output response mode.
func (f *Filter) Mode() Mode { return f.mode }

// Variant returns the processing variant.
func (f *Filter) Variant() Variant { return f.variant }

// CutoffHz returns the cutoff frequency in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Q returns the quality factor.
func (f *Filter) Q() float64 { return f.q }

// GainDB returns the gain parameter in dB.
func (f *Filter) GainDB() float64 { return f.gainDB }

// Drive returns the saturated-variant input drive.
func (f *Filter) Drive() float64 { return f.drive }

// Oversampling returns the oversampling factor.
func (f *Filter) Oversampling() int { return f.overSampling }

// SmoothingTime returns the coefficient ramp duration in seconds.
func (f *Filter) SmoothingTime() float64 { return f.smoothingTime }

// SetSampleRate updates the sample rate and rebuilds coefficients.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("svf: sample rate must be > 0 and finite: %f", sampleRate)
	}

	f.sampleRate = sampleRate

	return f.rebuild()
}

// SetMode updates the output response and rebuilds coefficients. Mode
// switches are immediate; they cancel any running ramp.
func (f *Filter) SetMode(mode Mode) error {
	if !validMode(mode) {
		return fmt.Errorf("svf: invalid mode: %d", mode)
	}

	f.mode = mode

	return f.rebuild()
}

// SetVariant updates the processing variant and rebuilds coefficients.
func (f *Filter) SetVariant(variant Variant) error {
	if !validVariant(variant) {
		return fmt.Errorf("svf: invalid variant: %d", variant)
	}

	f.variant = variant

	return f.rebuild()
}

// SetCutoffHz updates cutoff immediately and rebuilds coefficients.
func (f *Filter) SetCutoffHz(cutoffHz float64) error {
	if err := f.validateCutoff(cutoffHz); err != nil {
		return err
	}

	f.cutoffHz = cutoffHz

	return f.rebuild()
}

// SetQ updates the quality factor immediately and rebuilds coefficients.
func (f *Filter) SetQ(q float64) error {
	if err := validateFiniteRange(q, minQ, maxQ, "Q"); err != nil {
		return err
	}

	f.q = q

	return f.rebuild()
}

// SetGainDB updates gain immediately and rebuilds coefficients.
func (f *Filter) SetGainDB(gainDB float64) error {
	if err := validateFiniteRange(gainDB, minGainDB, maxGainDB, "gain"); err != nil {
		return err
	}

	f.gainDB = gainDB

	return f.rebuild()
}

// SetDrive updates the saturated-variant input drive.
func (f *Filter) SetDrive(drive float64) error {
	if err := validateFiniteRange(drive, minDrive, maxDrive, "drive"); err != nil {
		return err
	}

	f.drive = drive

	return nil
}

// SetOversampling updates oversampling mode and rebuilds anti-alias filters.
func (f *Filter) SetOversampling(factor int) error {
	if !validOversampling(factor) {
		return fmt.Errorf("svf: oversampling factor must be one of {1,2,4,8}: %d", factor)
	}

	f.overSampling = factor

	return f.rebuild()
}

// SetSmoothingTime updates the coefficient ramp duration in seconds.
func (f *Filter) SetSmoothingTime(seconds float64) error {
	if err := validateFiniteRange(seconds, 0, maxSmoothingTime, "smoothing time"); err != nil {
		return err
	}

	f.smoothingTime = seconds

	return nil
}

// Reset clears integrator state and cancels any running coefficient ramp.
func (f *Filter) Reset() {
	f.state = State{}
	f.cancelRamp()

	if f.antiAliasUp != nil {
		f.antiAliasUp.Reset()
	}

	if f.antiAliasDown != nil {
		f.antiAliasDown.Reset()
	}
}

// State returns a copy of the current processor state.
func (f *Filter) State() State {
	return f.state
}

// SetState restores an externally saved processor state.
func (f *Filter) SetState(state State) error {
	if !stateIsFinite(state) {
		return fmt.Errorf("svf: state contains NaN or Inf")
	}

	f.state = state

	return nil
}

// ProcessSample processes one sample.
func (f *Filter) ProcessSample(input float64) float64 {
	if !isFinite(input) {
		input = 0
	}

	f.advanceRamp()

	if f.overSampling <= 1 || f.variant == VariantLinear {
		out := f.processCore(input)
		f.state.PrevInput = input

		return sanitizeOutput(out)
	}

	prev := f.state.PrevInput
	delta := (input - prev) / float64(f.overSampling)

	var out float64
	for i := range f.overSampling {
		subInput := prev + delta*float64(i+1)

		if f.antiAliasUp != nil {
			subInput = f.antiAliasUp.ProcessSample(subInput)
		}

		subOutput := f.processCore(subInput)
		if f.antiAliasDown != nil {
			subOutput = f.antiAliasDown.ProcessSample(subOutput)
		}

		out = subOutput
	}

	f.state.PrevInput = input

	return sanitizeOutput(out)
}

// ProcessSampleOutputs advances the filter by one sample and returns all
// response taps of that step. Taps come from the linear recurrence with
// the current g and k; mode mixing and output gain are not applied, but
// bell and shelf configurations fold their gain into g and k and so
// shift the taps.
func (f *Filter) ProcessSampleOutputs(input float64) Outputs {
	if !isFinite(input) {
		input = 0
	}

	f.advanceRamp()

	k := f.cur.k
	v1, v2 := f.stepIntegrators(input)
	f.state.PrevInput = input

	lp := v2
	bp := v1
	hp := input - k*bp - lp

	return Outputs{
		Lowpass:  lp,
		Bandpass: bp,
		Highpass: hp,
		Notch:    lp + hp,
		Peak:     hp - lp,
		Allpass:  input - 2*k*bp,
	}
}

// ProcessInPlace processes a mono buffer in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (f *Filter) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// stepIntegrators advances the trapezoidal integrators by one step and
// returns the bandpass (v1) and lowpass (v2) taps.
func (f *Filter) stepIntegrators(x float64) (v1, v2 float64) {
	s := &f.state

	v3 := x - s.Ic2
	v1 = f.a1*s.Ic1 + f.a2*v3
	v2 = s.Ic2 + f.a2*s.Ic1 + f.a3*v3
	s.Ic1 = 2*v1 - s.Ic1
	s.Ic2 = 2*v2 - s.Ic2

	return v1, v2
}

func (f *Filter) processCore(input float64) float64 {
	switch f.variant {
	case VariantLinear:
		v1, v2 := f.stepIntegrators(input)
		return f.cur.out * (f.cur.m0*input + f.cur.m1*v1 + f.cur.m2*v2)
	case VariantSaturated:
		x := f.drive * input
		v1, v2 := f.stepIntegrators(x)
		f.state.Ic1 = clipState(f.state.Ic1)
		f.state.Ic2 = clipState(f.state.Ic2)

		y := math.Tanh(f.cur.m0*x + f.cur.m1*v1 + f.cur.m2*v2)

		return f.cur.out * y
	default:
		return 0
	}
}

func (f *Filter) rebuild() error {
	if !validMode(f.mode) {
		return fmt.Errorf("svf: invalid mode: %d", f.mode)
	}

	if !validVariant(f.variant) {
		return fmt.Errorf("svf: invalid variant: %d", f.variant)
	}

	if err := f.validateCutoff(f.cutoffHz); err != nil {
		return err
	}

	if err := validateFiniteRange(f.q, minQ, maxQ, "Q"); err != nil {
		return err
	}

	if err := validateFiniteRange(f.gainDB, minGainDB, maxGainDB, "gain"); err != nil {
		return err
	}

	if err := validateFiniteRange(f.drive, minDrive, maxDrive, "drive"); err != nil {
		return err
	}

	if !validOversampling(f.overSampling) {
		return fmt.Errorf("svf: oversampling factor must be one of {1,2,4,8}: %d", f.overSampling)
	}

	effectiveRate := f.sampleRate
	if f.variant == VariantSaturated {
		effectiveRate *= float64(f.overSampling)
	}

	f.cur = deriveCoeffs(f.mode, f.cutoffHz, f.q, f.gainDB, effectiveRate)
	f.updateDerived()
	f.cancelRamp()
	f.buildAntiAliasFilters()

	return nil
}

// updateDerived recomputes the integrator gains from the current g and k.
func (f *Filter) updateDerived() {
	g, k := f.cur.g, f.cur.k
	f.a1 = 1 / (1 + g*(g+k))
	f.a2 = g * f.a1
	f.a3 = g * f.a2
}

func (f *Filter) validateCutoff(cutoffHz float64) error {
	if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
		return err
	}

	limit := f.sampleRate * maxCutoffRatio
	if cutoffHz >= limit {
		return fmt.Errorf("svf: cutoff must be < %f Hz at this sample rate: %f", limit, cutoffHz)
	}

	return nil
}

func (f *Filter) buildAntiAliasFilters() {
	if f.overSampling <= 1 || f.variant == VariantLinear {
		f.antiAliasUp = nil
		f.antiAliasDown = nil
		return
	}

	osRate := f.sampleRate * float64(f.overSampling)
	antiAliasHz := f.sampleRate * 0.225

	up, err := New(osRate, WithMode(ModeLowpass), WithCutoffHz(antiAliasHz))
	if err != nil {
		f.antiAliasUp = nil
		f.antiAliasDown = nil
		return
	}

	down, err := New(osRate, WithMode(ModeLowpass), WithCutoffHz(antiAliasHz))
	if err != nil {
		f.antiAliasUp = nil
		f.antiAliasDown = nil
		return
	}

	f.antiAliasUp = up
	f.antiAliasDown = down
}

// Stereo is a helper that runs one filter state per channel.
type Stereo struct {
	left  *Filter
	right *Filter
}

// NewStereo constructs a stereo helper with independent left/right state.
func NewStereo(sampleRate float64, opts ...Option) (*Stereo, error) {
	left, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	right, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return &Stereo{left: left, right: right}, nil
}

// Left returns the left-channel filter.
func (s *Stereo) Left() *Filter { return s.left }

// Right returns the right-channel filter.
func (s *Stereo) Right() *Filter { return s.right }

// Reset clears both channel states.
func (s *Stereo) Reset() {
	s.left.Reset()
	s.right.Reset()
}

// ProcessSample processes one stereo sample frame.
func (s *Stereo) ProcessSample(leftIn, rightIn float64) (leftOut, rightOut float64) {
	return s.left.ProcessSample(leftIn), s.right.ProcessSample(rightIn)
}

// ProcessInPlace processes stereo planar buffers in place.
func (s *Stereo) ProcessInPlace(left, right []float64) {
	n := len(left)
	if n == 0 {
		return
	}

	_ = right[n-1]

	for i := range n {
		left[i], right[i] = s.ProcessSample(left[i], right[i])
	}
}

// ProcessFramesInPlace processes interleaved [left,right] frames in place.
func (s *Stereo) ProcessFramesInPlace(frames [][2]float64) {
	for i := range frames {
		frames[i][0], frames[i][1] = s.ProcessSample(frames[i][0], frames[i][1])
	}
}

func validVariant(variant Variant) bool {
	return variant >= VariantLinear && variant <= VariantSaturated
}

func validOversampling(factor int) bool {
	return factor == 1 || factor == 2 || factor == 4 || factor == 8
}

func validateFiniteRange(value, min, max float64, name string) error {
	if !isFinite(value) {
		return fmt.Errorf("svf: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("svf: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}

func sanitizeOutput(value float64) float64 {
	if !isFinite(value) {
		return 0
	}

	return value
}

func clipState(value float64) float64 {
	if value > stateLimit {
		return stateLimit
	}

	if value < -stateLimit {
		return -stateLimit
	}

	return value
}

func stateIsFinite(state State) bool {
	return isFinite(state.Ic1) && isFinite(state.Ic2) && isFinite(state.PrevInput)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
