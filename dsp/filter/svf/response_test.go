package svf

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestLowpassResponseLandmarks(t *testing.T) {
	const (
		sr     = 48000.0
		cutoff = 1000.0
		q      = 2.0
	)

	f, err := New(sr, WithMode(ModeLowpass), WithCutoffHz(cutoff), WithQ(q))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if dc := f.MagnitudeDB(0); math.Abs(dc) > 1e-9 {
		t.Fatalf("lowpass DC level = %g dB, want 0", dc)
	}

	// At the cutoff the lowpass magnitude equals Q.
	wantDB := 20 * math.Log10(q)
	if got := f.MagnitudeDB(cutoff); math.Abs(got-wantDB) > 1e-9 {
		t.Fatalf("lowpass cutoff level = %g dB, want %g", got, wantDB)
	}

	if phase := f.Phase(cutoff); math.Abs(phase+math.Pi/2) > 1e-9 {
		t.Fatalf("lowpass cutoff phase = %g rad, want -pi/2", phase)
	}

	// 12 dB/oct rolloff above the cutoff. Probed at 2 and 4 kHz: the
	// tan prewarp steepens the apparent slope for octaves near Nyquist,
	// so frequencies close to fs/2 would read far above 12 dB.
	oct1 := f.MagnitudeDB(2000)

	oct2 := f.MagnitudeDB(4000)
	if slope := oct1 - oct2; slope < 10 || slope > 15 {
		t.Fatalf("rolloff per octave = %g dB, want roughly 12", slope)
	}
}

func TestAllpassUnityMagnitude(t *testing.T) {
	f, err := New(48000, WithMode(ModeAllpass), WithCutoffHz(1300), WithQ(0.9))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, freq := range []float64{10, 100, 1300, 5000, 20000} {
		mag := cmplx.Abs(f.Response(freq))
		if math.Abs(mag-1) > 1e-12 {
			t.Fatalf("allpass magnitude at %g Hz = %g, want 1", freq, mag)
		}
	}
}

func TestNotchNullAtCutoff(t *testing.T) {
	f, err := New(48000, WithMode(ModeNotch), WithCutoffHz(2500), WithQ(0.5))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if db := f.MagnitudeDB(2500); db > -100 {
		t.Fatalf("notch null at cutoff = %g dB, want below -100", db)
	}

	if db := f.MagnitudeDB(250); math.Abs(db) > 0.5 {
		t.Fatalf("notch far below cutoff = %g dB, want near 0", db)
	}
}

func TestBellGainAtCutoff(t *testing.T) {
	const gainDB = 6.0

	f, err := New(48000, WithMode(ModeBell), WithCutoffHz(2000), WithQ(2), WithGainDB(gainDB))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := f.MagnitudeDB(2000); math.Abs(got-gainDB) > 1e-9 {
		t.Fatalf("bell level at cutoff = %g dB, want %g", got, gainDB)
	}

	// The boost localizes around the cutoff.
	if got := f.MagnitudeDB(50); math.Abs(got) > 0.2 {
		t.Fatalf("bell level far below cutoff = %g dB, want near 0", got)
	}

	if got := f.MagnitudeDB(20000); math.Abs(got) > 0.4 {
		t.Fatalf("bell level far above cutoff = %g dB, want near 0", got)
	}
}

func TestShelfAsymptotes(t *testing.T) {
	const gainDB = 9.0

	low, err := New(48000, WithMode(ModeLowShelf), WithCutoffHz(1000), WithQ(defaultQ), WithGainDB(gainDB))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := low.MagnitudeDB(0); math.Abs(got-gainDB) > 1e-9 {
		t.Fatalf("low shelf DC level = %g dB, want %g", got, gainDB)
	}

	if got := low.MagnitudeDB(20000); math.Abs(got) > 0.2 {
		t.Fatalf("low shelf high-frequency level = %g dB, want near 0", got)
	}

	high, err := New(48000, WithMode(ModeHighShelf), WithCutoffHz(1000), WithQ(defaultQ), WithGainDB(gainDB))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := high.MagnitudeDB(0); math.Abs(got) > 1e-9 {
		t.Fatalf("high shelf DC level = %g dB, want 0", got)
	}

	if got := high.MagnitudeDB(20000); math.Abs(got-gainDB) > 0.2 {
		t.Fatalf("high shelf high-frequency level = %g dB, want %g", got, gainDB)
	}
}

func TestResponseMatchesImpulseResponseSpectrum(t *testing.T) {
	const (
		sr = 48000.0
		n  = 4096
	)

	f, err := New(sr, WithMode(ModeLowpass), WithCutoffHz(1000), WithQ(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ir := f.ImpulseResponse(n)

	for _, bin := range []int{21, 43, 85, 171, 341} {
		freq := float64(bin) * sr / n

		got := math.Sqrt(dftBinEnergy(ir, bin))

		want := cmplx.Abs(f.Response(freq))
		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("spectrum mismatch at bin %d (%g Hz): got=%g want=%g", bin, freq, got, want)
		}
	}
}

func TestImpulseResponsePreservesStream(t *testing.T) {
	opts := []Option{
		WithMode(ModeBandpass),
		WithCutoffHz(1800),
		WithQ(4),
	}

	f, err := New(48000, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	clone, err := New(48000, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := range 200 {
		x := math.Sin(2 * math.Pi * float64(i) / 33)
		_ = f.ProcessSample(x)
		_ = clone.ProcessSample(x)
	}

	_ = f.ImpulseResponse(512)

	for i := range 200 {
		x := math.Sin(2 * math.Pi * float64(i) / 27)

		y1 := f.ProcessSample(x)

		y2 := clone.ProcessSample(x)
		if math.Abs(y1-y2) > 1e-12 {
			t.Fatalf("stream disturbed at %d: %g vs %g", i, y1, y2)
		}
	}
}

func TestImpulseResponseEmptyForNonPositiveLength(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if ir := f.ImpulseResponse(0); ir != nil {
		t.Fatalf("ImpulseResponse(0) = %v, want nil", ir)
	}
}
