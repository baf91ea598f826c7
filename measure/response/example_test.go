package response_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-svf/dsp/filter/svf"
	"github.com/cwbudde/algo-svf/measure/response"
)

func ExampleSweep_MeasureMagnitude() {
	f, err := svf.New(48000,
		svf.WithMode(svf.ModeLowpass),
		svf.WithCutoffHz(1000),
		svf.WithQ(1/math.Sqrt2),
	)
	if err != nil {
		panic(err)
	}

	s := &response.Sweep{
		StartFreqHz: 20,
		EndFreqHz:   20000,
		Duration:    1,
		SampleRate:  48000,
	}

	curve, err := s.MeasureMagnitude(f, 40)
	if err != nil {
		panic(err)
	}

	// Compare the measured curve against the filter's analytic response.
	worst := 0.0

	for i, freq := range curve.FrequencyHz {
		if freq < 100 || freq > 4000 {
			continue
		}

		if d := math.Abs(curve.MagnitudeDB[i] - f.MagnitudeDB(freq)); d > worst {
			worst = d
		}
	}

	fmt.Println("measurement within 1.5 dB of analytic response:", worst < 1.5)
	// Output:
	// measurement within 1.5 dB of analytic response: true
}

func ExampleSweep_MeasureImpulseResponse() {
	s := &response.Sweep{
		StartFreqHz: 20,
		EndFreqHz:   20000,
		Duration:    1,
		SampleRate:  48000,
	}

	wirePassThrough := response.ProcessorFunc(func([]float64) {})

	ir, err := s.MeasureImpulseResponse(wirePassThrough, 64)
	if err != nil {
		panic(err)
	}

	peakIdx := 0
	for i, v := range ir {
		if math.Abs(v) > math.Abs(ir[peakIdx]) {
			peakIdx = i
		}
	}

	fmt.Println("peak at sample:", peakIdx)
	fmt.Println("peak above 0.5:", ir[peakIdx] > 0.5)
	// Output:
	// peak at sample: 0
	// peak above 0.5: true
}
